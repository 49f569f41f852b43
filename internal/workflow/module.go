package workflow

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"workflow",
		logger.WithNamedLogger("workflow"),
		fx.Provide(NewRunner),
	)
}
