package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mridgway/shaker/internal/build"
	"github.com/mridgway/shaker/internal/config"
	"github.com/mridgway/shaker/internal/lint"
	"github.com/mridgway/shaker/internal/logging"
	"github.com/mridgway/shaker/internal/metadata"
	"github.com/mridgway/shaker/internal/transform"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline when sources change",
	Long: `Watch the static root and the manifest for changes and re-run the
pipeline after each change, with debouncing so bursts of writes trigger a
single run.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindRunFlags(cmd.Flags())
	},
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addRunFlags(watchCmd.Flags())
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "delay before re-running after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: "text",
		Output: cmd.ErrOrStderr(),
	})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	runOnce := func() {
		pipeline := build.NewPipeline(
			cfg,
			logger,
			metadata.NewManifestProvider(cfg.Manifest),
			&metadata.StaticResolver{Root: cfg.Root},
			transform.NewRegistry(),
			lint.Basic{},
		)
		if _, err := pipeline.Run(ctx); err != nil {
			logger.Error(ctx, err, "run failed, watching for fixes")
		}
	}

	runOnce()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes\n", cfg.Root)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(cfg, event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, err, "watch error")
		case <-pending:
			runOnce()
		}
	}
}

// watchTree registers the manifest and every directory under the static root.
func watchTree(watcher *fsnotify.Watcher, cfg *config.Config) error {
	if dir := filepath.Dir(cfg.Manifest); dir != "" {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching manifest directory: %w", err)
		}
	}
	return filepath.Walk(cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return err
		}
		if strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevantEvent filters out events caused by our own outputs: anything under
// the compiled directory or the persisted metadata module would otherwise
// retrigger the run forever.
func relevantEvent(cfg *config.Config, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	path := filepath.ToSlash(event.Name)
	if cfg.CompiledDir != "" && strings.Contains(path, "/"+strings.Trim(cfg.CompiledDir, "/")+"/") {
		return false
	}
	return !strings.HasSuffix(path, filepath.Base(metadata.CompiledMetadataPath))
}
