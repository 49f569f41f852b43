package rename

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"rename",
		logger.WithNamedLogger("rename"),
		fx.Provide(NewEngine),
	)
}
