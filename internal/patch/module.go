package patch

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"patch",
		logger.WithNamedLogger("patch"),
		fx.Provide(NewApplier),
	)
}
