package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/nest"
	"github.com/simonhull/firebird-suite/nest/internal/output"
)

// RootCmd creates and returns the root command for the nest CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "nest",
		Short: "Build configuration generator for C# solutions",
		Long: `Nest runs a Lua build script that describes solutions and projects,
then writes build files for the action you choose.

  nest generate gmake   Write GNU makefiles
  nest generate dump    Write the loaded model as YAML
  nest generate clean   Remove generated files
  nest actions          List every action

The script is nest.lua in the current directory unless --file says otherwise.
Defaults may also come from nest.yml or NEST_* environment variables.`,
		Version:       nest.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.StringP("file", "f", "", "Script to run (default nest.lua)")
	flags.String("dotnet", "", "C# toolchain: ms, pnet, mono or mono2")
	flags.String("os", "", "Target operating system (default: the host)")
	flags.String("config", "", "Config file to read instead of ./nest.yml")

	return cmd
}
