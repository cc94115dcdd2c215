package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"doctree/internal/config"
	"doctree/internal/logger"
	"doctree/internal/ui"
	"doctree/internal/watcher"

	"github.com/spf13/cobra"
)

func newWatchCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Generate, then regenerate whenever a Java source changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer logger.Close()

			return runWatch(ctx, cfg, func() *ui.Pipeline { return newPipeline(cmd.OutOrStdout(), flags.quiet) })
		},
	}
}

// runWatch generates once and then after every batch of source changes
// until ctx is cancelled. Failed runs are logged and the watch goes on.
func runWatch(ctx context.Context, cfg *config.Config, pipelines func() *ui.Pipeline) error {
	w, err := watcher.New(cfg.Project.RootDir, cfg.Analysis.ExcludeDirs)
	if err != nil {
		return err
	}
	defer w.Close()

	regenerate := func() {
		if _, err := runGenerate(ctx, cfg, pipelines()); err != nil && ctx.Err() == nil {
			logger.Error("Generation failed: %v", err)
		}
	}

	regenerate()
	logger.Info("👀 Watching %s (Ctrl+C to stop)", cfg.Project.RootDir)

	return w.Run(ctx, func(files []string) {
		logger.Info("🔄 %d source(s) changed, regenerating...", len(files))
		for _, f := range files {
			logger.Debug("[WATCH] %s", f)
		}
		regenerate()
	})
}
