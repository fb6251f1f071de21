package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sanma/boundvar/pkg/stdlib"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return exitError(ExitUsage, "%v", err)
			}
			source := a.cfg.Source
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", source, data)
			return nil
		},
	}
}

func newLibCmd() *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "lib [name]",
		Short: "List the combinator library or print one entry as wire text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if source {
				fmt.Fprint(out, stdlib.Source())
				return nil
			}
			if len(args) == 0 {
				for _, e := range stdlib.Entries() {
					name := e.Name
					if len(e.Params) > 0 {
						name += " [" + strings.Join(e.Params, " ") + "]"
					}
					fmt.Fprintf(out, "%-40s %s\n", name, e.Summary)
				}
				return nil
			}
			entry, ok := stdlib.Get(args[0])
			if !ok {
				return exitError(ExitUsage, "unknown library entry %q", args[0])
			}
			if len(entry.Params) > 0 {
				return exitError(ExitUsage, "%s needs parameters %s; use it from expand", entry.Name, strings.Join(entry.Params, ", "))
			}
			text, err := stdlib.Build(entry.Name, nil)
			if err != nil {
				return exitError(ExitUsage, "%v", err)
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&source, "source", false, "Print the library definitions")
	return cmd
}
