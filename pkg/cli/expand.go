package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanma/boundvar/pkg/runtime"
)

func newExpandCmd(a *app) *cobra.Command {
	var (
		root      string
		noPrelude bool
		eval      bool
	)
	cmd := &cobra.Command{
		Use:   "expand <file|->",
		Short: "Resolve macro definitions into flat wire text",
		Long: "Resolve a file of \"name := tokens\" definitions, where $other splices in another\n" +
			"definition, and print the flat wire text of the root definition. The combinator\n" +
			"library (see bvl lib) is in scope unless --no-prelude is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			rt, err := a.runtime(runtime.WithPrelude(!noPrelude))
			if err != nil {
				return err
			}
			text, err := rt.Expand(source, filename, root)
			if err != nil {
				return a.failErr(cmd, err)
			}
			if !eval {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			res, err := rt.EvalValue(cmd.Context(), text, filename)
			if err != nil {
				return a.failErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Printable())
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "main", "Definition to resolve")
	cmd.Flags().BoolVar(&noPrelude, "no-prelude", false, "Leave the combinator library out of scope")
	cmd.Flags().BoolVar(&eval, "eval", false, "Evaluate the expansion and print its value")
	return cmd
}
