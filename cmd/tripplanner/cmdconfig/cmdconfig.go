// Package cmdconfig resolves the persistent flags shared by every tripplanner
// subcommand into a config value and a logger.
package cmdconfig

import (
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/pkg/config"
	"github.com/papercomputeco/tripplanner/pkg/logger"
)

const (
	FlagConfig  = "config"
	FlagEnvFile = "env-file"
	FlagDebug   = "debug"
)

// AddFlags registers the shared flags on the root command.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagConfig, "", "Path to config file (default ~/.tripplanner/config.toml)")
	cmd.PersistentFlags().String(FlagEnvFile, ".env", "Dotenv file loaded when present")
	cmd.PersistentFlags().Bool(FlagDebug, false, "Enable debug logging")
}

// Load reads the configuration named by cmd's flags.
func Load(cmd *cobra.Command) (config.Config, error) {
	return config.Load(flagValue(cmd, FlagConfig), flagValue(cmd, FlagEnvFile))
}

// Debug reports whether --debug is set.
func Debug(cmd *cobra.Command) bool {
	debug, _ := strconv.ParseBool(flagValue(cmd, FlagDebug))
	return debug
}

// Logger builds the stderr logger, at debug level when --debug is set.
func Logger(cmd *cobra.Command) *zap.Logger {
	return logger.NewLogger(Debug(cmd))
}

// flagValue looks name up on cmd and its parents. Subcommands run without the
// root (as in tests) see the zero value.
func flagValue(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}
