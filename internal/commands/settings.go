package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/nest/internal/config"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
)

// settings are the config file values with command-line flags applied.
type settings struct {
	*config.Config
	log logger.Logger
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(".", configFile)
	if err != nil {
		return nil, err
	}

	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("file", &cfg.Script)
	override("dotnet", &cfg.DotNet)
	override("os", &cfg.OS)

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level = logger.LevelDebug
	}

	return &settings{
		Config: cfg,
		log:    logger.NewLogger(level, cmd.ErrOrStderr()),
	}, nil
}
