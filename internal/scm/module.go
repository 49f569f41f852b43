package scm

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"scm",
		logger.WithNamedLogger("scm"),
		fx.Provide(NewService),
		fx.Provide(func(s *Service) Client { return s }),
	)
}
