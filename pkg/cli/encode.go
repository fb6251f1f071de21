package cli

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/sanma/boundvar/pkg/ast"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/evaluator"
	"github.com/sanma/boundvar/pkg/formatter"
	"github.com/sanma/boundvar/pkg/parser"
)

func newEncodeCmd() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "encode <int|string|json> <value>",
		Short: "Convert between readable values and wire tokens",
		Example: "  bvl encode int 1337          # I/6\n" +
			"  bvl encode string 'get echo' # S'%4}%#(/\n" +
			"  bvl encode json true         # T\n" +
			"  bvl encode --decode int I/6  # 1337",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"int", "string", "json"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, value := args[0], args[1]
			out := cmd.OutOrStdout()

			if decode {
				e, diags := parser.Parse(value, "<arg>")
				if len(diags) > 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), diagnostics.FormatDiagnostics(diags, false))
					return exitError(ExitDiagnostics, "%s", diags[0].String())
				}
				if !ast.IsValue(e) {
					return exitError(ExitUsage, "%q is not a literal token", value)
				}
				if kind == "json" {
					data, err := evaluator.ValueToJSON(e)
					if err != nil {
						return exitError(ExitUsage, "%v", err)
					}
					fmt.Fprintln(out, string(data))
					return nil
				}
				fmt.Fprintln(out, formatter.Printable(e))
				return nil
			}

			var e ast.Expr
			switch kind {
			case "int":
				n, ok := new(big.Int).SetString(value, 10)
				if !ok {
					return exitError(ExitUsage, "%q is not a decimal integer", value)
				}
				e = ast.NewInt(n)
			case "string":
				e = ast.NewString(value)
			case "json":
				v, err := evaluator.ParseJSONToValue(json.RawMessage(value))
				if err != nil {
					return exitError(ExitUsage, "%v", err)
				}
				e = v
			default:
				return exitError(ExitUsage, "unknown kind %q (want int, string or json)", kind)
			}
			text, err := formatter.Wire(e)
			if err != nil {
				return exitError(ExitDiagnostics, "%v", err)
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "Read a wire token and print its readable form")
	return cmd
}
