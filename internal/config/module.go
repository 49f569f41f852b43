package config

import (
	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/romforge/romforge/internal/conflict"
	"github.com/romforge/romforge/internal/fetch"
	"github.com/romforge/romforge/internal/patch"
	"github.com/romforge/romforge/internal/rename"
	"github.com/romforge/romforge/internal/scm"
	"github.com/romforge/romforge/internal/synctree"
	"github.com/romforge/romforge/internal/workflow"
	"github.com/romforge/romforge/pkg/badgerfx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir: cfg.Storage.DataDir,
			}
		}),
		fx.Provide(func(cfg Config) scm.Config {
			return scm.Config{
				Timeout:     cfg.Git.Timeout,
				AuthorName:  cfg.Git.AuthorName,
				AuthorEmail: cfg.Git.AuthorEmail,
			}
		}),
		fx.Provide(func(cfg Config) conflict.Config {
			return conflict.Config{
				Preview: cfg.Preview,
			}
		}),
		fx.Provide(func(cfg Config) synctree.Config {
			return synctree.Config{
				Preview: cfg.Preview,
			}
		}),
		fx.Provide(func(cfg Config) patch.Config {
			return patch.Config{
				Preview: cfg.Preview,
			}
		}),
		fx.Provide(func(cfg Config) rename.Config {
			return rename.Config{
				Preview: cfg.Preview,
			}
		}),
		fx.Provide(func(cfg Config) fetch.Config {
			return fetch.Config{
				Preview: cfg.Preview,
				Timeout: cfg.Git.Timeout,
			}
		}),
		fx.Provide(func(cfg Config) workflow.Config {
			return workflow.Config{
				Preview: cfg.Preview,
				WorkDir: cfg.WorkDir,
				Sources: lo.Map(cfg.Sources, func(s sourceSpec, _ int) synctree.SourceSpec {
					return synctree.SourceSpec{
						Path:   s.Path,
						URL:    s.URL,
						Ref:    s.Ref,
						Sparse: s.Sparse,
						Paths:  s.Paths,
					}
				}),
				Patches: lo.Map(cfg.Patches, func(p patchSpec, _ int) patch.Spec {
					return patch.Spec{
						Path:     p.Path,
						Remote:   p.Remote,
						URL:      p.URL,
						Commit:   p.Commit,
						Strategy: conflict.ParseStrategy(p.Strategy),
					}
				}),
				Artifacts: lo.Map(cfg.Artifacts, func(a artifactSpec, _ int) fetch.Artifact {
					return fetch.Artifact{
						URL:  a.URL,
						Path: a.Path,
					}
				}),
				Rules: lo.Map(cfg.Rules, func(r ruleSpec, _ int) rename.Rule {
					return rename.Rule{
						Source:   r.Source,
						Target:   cfg.ruleTarget(r),
						Mode:     rename.ParseMode(r.Mode),
						Patterns: r.Patterns,
					}
				}),
			}
		}),
	)
}
