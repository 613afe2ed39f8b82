// Package config loads nest.yml, the optional per-directory defaults for
// the command line.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/script"
)

// Config holds the settings a run starts from. Command-line flags override
// these values.
type Config struct {
	Script   string
	DotNet   string
	OS       string
	LogLevel string

	// File is the config file that was read, or "" when none was found.
	File string
}

// Load reads nest.yml from dir, or the file at path when path is set.
// A missing nest.yml in dir is not an error; a missing explicit file is.
// Environment variables prefixed NEST_ override file values
// (NEST_DOTNET, NEST_LOG_LEVEL, ...).
func Load(dir, path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("nest")
		v.AddConfigPath(dir)
	}

	v.SetDefault("script", script.DefaultScript)
	v.SetDefault("dotnet", "")
	v.SetDefault("os", "")
	v.SetDefault("log.level", "info")

	v.AutomaticEnv()
	v.SetEnvPrefix("NEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Script:   v.GetString("script"),
		DotNet:   v.GetString("dotnet"),
		OS:       v.GetString("os"),
		LogLevel: v.GetString("log.level"),
		File:     v.ConfigFileUsed(),
	}

	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (logger.Level, error) {
	return logger.ParseLevel(c.LogLevel)
}
