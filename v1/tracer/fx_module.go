package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/datalayer/v1/logger"
)

// FXModule provides *Tracer and shuts the provider down when the application stops.
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "orders"} }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewTracerWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// NewTracerWithDI adapts NewClient to the *logger.Logger provided by logger.FXModule.
func NewTracerWithDI(cfg Config, log *logger.Logger) *Tracer {
	return NewClient(cfg, log)
}

// RegisterTracerLifecycle registers the shutdown hook that flushes pending spans.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
