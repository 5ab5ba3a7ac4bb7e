// Package cmd provides the command-line interface for shaker.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--task, --parallel, ...)
//  2. SHAKER_ prefixed environment variables (SHAKER_TASK, SHAKER_PARALLEL, ...)
//  3. A .shaker.yml file in the working directory
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shaker",
	Short: "Asset-bundling orchestrator",
	Long: `Shaker bundles the scripts, stylesheets, images and view templates of a
component-structured application into a minimal set of hashed artifacts and
rewrites the asset metadata to reference them.

Quick start:
  shaker run                 Rewrite metadata for local development
  shaker run --task files    Bundle assets to the compiled directory
  shaker watch               Re-run on source changes`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .shaker.yml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig wires viper to the config file and SHAKER_ environment prefix.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SHAKER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".shaker")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("SHAKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if f := rootCmd.PersistentFlags().Lookup("log-level"); f != nil && f.Changed {
		_ = viper.BindPFlag("log_level", f)
	}

	// Absent config file is fine; flags and environment still apply.
	_ = viper.ReadInConfig()
}
