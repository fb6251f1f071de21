package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|->",
		Short: "Parse and statically check a wire expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			diags := rt.Check(source, filename)
			if len(diags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			code := ExitDiagnostics
			for _, d := range diags {
				code = max(code, exitCodeForDiag(d.Code))
			}
			return a.fail(cmd, code, diags...)
		},
	}
}

func newFmtCmd(a *app) *cobra.Command {
	var infix bool
	cmd := &cobra.Command{
		Use:   "fmt <file|->",
		Short: "Print a wire expression in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			text, err := rt.Format(source, filename, infix)
			if err != nil {
				return a.failErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&infix, "infix", false, "Render in infix notation instead of wire tokens")
	return cmd
}
