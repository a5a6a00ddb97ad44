package database

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/datalayer/v1/logger"
	"github.com/Aleph-Alpha/datalayer/v1/metrics"
	"github.com/Aleph-Alpha/datalayer/v1/tracer"
)

// FXModule is an fx module that provides *Database and the Executor interface.
// Pools are pinged on start, monitored while the application runs and closed
// on stop.
//
// *logger.Logger, *metrics.Metrics and *tracer.Tracer are picked up when the
// container provides them.
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    database.FXModule,
//	    fx.Provide(func() (database.Config, error) {
//	        return database.LoadConfig("config/database.yaml")
//	    }),
//	)
var FXModule = fx.Module("database",
	fx.Provide(
		NewDatabaseWithDI,
		fx.Annotate(
			ProvideExecutor,
			fx.As(new(Executor)),
		),
	),
	fx.Invoke(RegisterDatabaseLifecycle),
)

// ProvideExecutor exposes *Database as Executor.
func ProvideExecutor(d *Database) *Database {
	return d
}

// DatabaseParams groups the dependencies of NewDatabaseWithDI.
type DatabaseParams struct {
	fx.In

	Config  Config
	Logger  *logger.Logger   `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
	Tracer  *tracer.Tracer   `optional:"true"`
}

// NewDatabaseWithDI builds a Database from the container. Metrics receive
// connection usage, statement counts and health; the tracer receives
// connection usage as span events.
func NewDatabaseWithDI(params DatabaseParams) (*Database, error) {
	var opts Options
	if params.Logger != nil {
		opts.Logger = params.Logger
	}
	if params.Metrics != nil {
		opts.Trackers = append(opts.Trackers, params.Metrics)
		opts.Statements = params.Metrics
		opts.Health = params.Metrics
	}
	if params.Tracer != nil {
		opts.Trackers = append(opts.Trackers, params.Tracer)
	}
	return New(params.Config, opts)
}

// DatabaseLifeCycleParams groups the dependencies of RegisterDatabaseLifecycle.
type DatabaseLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Database  *Database
}

// RegisterDatabaseLifecycle registers lifecycle hooks for the Database:
//  1. every pool is pinged on start and a failure aborts startup
//  2. the health monitor runs until stop
//  3. pools are closed on stop after the monitor has returned
func RegisterDatabaseLifecycle(params DatabaseLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Database.Ping(ctx); err != nil {
				return err
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Database.MonitorConnection(context.Background())
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Database.closeShutdownOnce.Do(func() {
				close(params.Database.shutdownSignal)
			})

			wg.Wait()

			return params.Database.Close()
		},
	})
}
