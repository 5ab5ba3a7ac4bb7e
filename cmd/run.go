package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mridgway/shaker/internal/build"
	"github.com/mridgway/shaker/internal/config"
	"github.com/mridgway/shaker/internal/lint"
	"github.com/mridgway/shaker/internal/logging"
	"github.com/mridgway/shaker/internal/metadata"
	"github.com/mridgway/shaker/internal/transform"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bundling pipeline once",
	Long: `Run the full pipeline: optional lint gate, then either the dev rewrite
(task "local") or bundle planning and execution, then metadata persistence.

Examples:
  shaker run                              # dev rewrite with defaults
  shaker run --task files --minify        # bundle and minify to disk
  shaker run --task files --parallel 4    # bound concurrency`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindRunFlags(cmd.Flags())
	},
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd.Flags())
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: "text",
		Output: cmd.ErrOrStderr(),
	})

	start := time.Now()
	pipeline := build.NewPipeline(
		cfg,
		logger,
		metadata.NewManifestProvider(cfg.Manifest),
		&metadata.StaticResolver{Root: cfg.Root},
		transform.NewRegistry(),
		lint.Basic{},
	)

	if _, err := pipeline.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "shaker run completed in %v\n", time.Since(start))
	return nil
}
