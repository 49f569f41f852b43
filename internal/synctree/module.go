package synctree

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"synctree",
		logger.WithNamedLogger("synctree"),
		fx.Provide(NewSynchronizer),
	)
}
