package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/nest/internal/app"
)

// EvalCmd creates the 'eval' command, which runs inline script code and
// prints the value it returns.
func EvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <code>",
		Short: "Run inline script code and print its result",
		Example: `  nest eval "return 1+1"
  nest eval "return os.getcwd()"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			res, err := app.New(s.log, nil).Eval(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if res.Present {
				fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			}
			return nil
		},
	}
}
