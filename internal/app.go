package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romforge/romforge/internal/config"
	"github.com/romforge/romforge/internal/conflict"
	"github.com/romforge/romforge/internal/fetch"
	"github.com/romforge/romforge/internal/history"
	"github.com/romforge/romforge/internal/patch"
	"github.com/romforge/romforge/internal/rename"
	"github.com/romforge/romforge/internal/scm"
	"github.com/romforge/romforge/internal/synctree"
	"github.com/romforge/romforge/internal/workflow"
	"github.com/romforge/romforge/pkg/badgerfx"
)

func modules(opts config.Options) []fx.Option {
	return []fx.Option{
		// CORE MODULES
		fx.Supply(opts),
		logger.Module(),
		logger.WithFxDefaultLogger(),
		validator.Module,
		badgerfx.Module(),
		//
		// APP MODULES
		config.Module(),
		scm.Module(),
		conflict.Module(),
		synctree.Module(),
		patch.Module(),
		rename.Module(),
		fetch.Module(),
		history.Module(),
		workflow.Module(),
	}
}

// Run executes one full synchronize/patch/rebrand pass and returns the
// process exit code derived from the run report.
func Run(opts config.Options) int {
	code := 1

	app := fx.New(
		append(modules(opts),
			fx.Invoke(func(lc fx.Lifecycle, runner *workflow.Runner, shutdowner fx.Shutdowner, log *zap.Logger) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						go func() {
							code = runner.Run(context.Background())
							if err := shutdowner.Shutdown(); err != nil {
								log.Error("failed to shut down", zap.Error(err))
							}
						}()
						return nil
					},
				})
			}),
		)...,
	)

	app.Run()

	return code
}

// RunHistory prints the reports of previous runs, most recent first.
func RunHistory(opts config.Options) int {
	code := 0

	app := fx.New(
		append(modules(opts),
			fx.Invoke(func(lc fx.Lifecycle, repo *history.Repository, shutdowner fx.Shutdowner, log *zap.Logger) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						go func() {
							if err := repo.Print(context.Background(), opts.HistoryLimit); err != nil {
								log.Error("failed to list run history", zap.Error(err))
								code = 1
							}
							if err := shutdowner.Shutdown(); err != nil {
								log.Error("failed to shut down", zap.Error(err))
							}
						}()
						return nil
					},
				})
			}),
		)...,
	)

	app.Run()

	return code
}
