package fetch

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"fetch",
		logger.WithNamedLogger("fetch"),
		fx.Provide(NewFetcher),
	)
}
