package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/nest/internal/action"
	"github.com/simonhull/firebird-suite/nest/internal/app"
	"github.com/simonhull/firebird-suite/nest/internal/output"
)

// GenerateCmd creates the 'generate' command, which runs the script and
// then the named action over the loaded model.
func GenerateCmd(reg *action.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <action>",
		Short: "Run the build script and generate files for an action",
		Long: fmt.Sprintf(`Run the build script, load and validate the solutions it declares,
then hand them to the chosen action.

Available actions: %s`, strings.Join(reg.List(), ", ")),
		Example: `  nest generate gmake
  nest generate gmake --dotnet mono2 --os linux
  nest generate dump -f build/nest.lua`,
		Aliases:   []string{"gen"},
		Args:      cobra.ExactArgs(1),
		ValidArgs: reg.List(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if s.File != "" {
				output.Verbose(fmt.Sprintf("Using config %s", s.File))
			}

			output.Step(fmt.Sprintf("Running %s with %s", name, s.Script))
			err = app.New(s.log, reg).Generate(app.Config{
				Script: s.Script,
				Action: name,
				DotNet: s.DotNet,
				OS:     s.OS,
			})
			if err != nil {
				return err
			}

			output.Success(fmt.Sprintf("%s done", name))
			return nil
		},
	}
}

// ActionsCmd creates the 'actions' command that lists available actions.
func ActionsCmd(reg *action.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List available actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := reg.List()
			descriptions := reg.ListWithDescriptions()
			width := 0
			for _, name := range names {
				width = max(width, len(name))
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintf(out, "  %-*s  %s\n", width, name, descriptions[name])
			}
			return nil
		},
	}
}
