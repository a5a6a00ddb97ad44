// Package logger provides structured logging for the data layer packages.
//
// The logger wraps Uber's zap with a small map-based API that every other
// package in this module accepts through its own Logger interface:
//
//	Debug(msg string, err error, fields ...map[string]interface{})
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Debug,
//		EnableTracing: true,
//		ServiceName:   "orders",
//	})
//
//	log.Info("Replica pool opened", nil, map[string]interface{}{
//		"target": "read-1",
//	})
//
//	// Adds trace_id and span_id when ctx carries a span
//	log.DebugWithContext(ctx, "executing statement", nil, map[string]interface{}{
//		"sql": "select 1",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info}
//		}),
//	)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # Log level (debug, info, warning, error)
//	LOGGER_ENABLE_TRACING=true      # Enable trace id correlation
//
// Statement records emitted by the database package are written at debug level,
// so production deployments running at info level do not pay for them.
//
// # Thread Safety
//
// All methods on Logger are safe for concurrent use by multiple goroutines.
package logger
