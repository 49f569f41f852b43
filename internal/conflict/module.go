package conflict

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"conflict",
		logger.WithNamedLogger("conflict"),
		fx.Provide(NewResolver),
	)
}
