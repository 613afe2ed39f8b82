package main

import (
	"os"

	"github.com/simonhull/firebird-suite/nest/internal/app"
	"github.com/simonhull/firebird-suite/nest/internal/commands"
	"github.com/simonhull/firebird-suite/nest/internal/output"
)

func main() {
	rootCmd := commands.RootCmd()
	registry := app.DefaultRegistry()

	rootCmd.AddCommand(commands.GenerateCmd(registry))
	rootCmd.AddCommand(commands.ActionsCmd(registry))
	rootCmd.AddCommand(commands.EvalCmd())
	rootCmd.AddCommand(commands.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
