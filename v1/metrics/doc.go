// Package metrics provides the Prometheus sink for the data layer.
//
// A *Metrics owns an isolated registry and an HTTP server that exposes it on
// /metrics. It implements the observer interfaces of the database package:
//
//	database.UsageTracker     RecordConnectionUsage(ctx, target, elapsed)
//	database.StatementRecorder RecordStatement(kind, start, err)
//	database.HealthReporter   SetConnected(target, connected)
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		ServiceName:             "orders",
//	})
//	go m.Server.ListenAndServe()
//
//	db, err := database.New(cfg, database.Options{
//		Logger:     log,
//		Trackers:   []database.UsageTracker{m},
//		Statements: m,
//		Health:     m,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		database.FXModule,
//		fx.Provide(loadMetricsConfig, loadDatabaseConfig, loadLoggerConfig),
//	)
//
// # Custom Metrics
//
//	hits := m.CreateCounter("relation_cache_hits_total", "Lazy relation cache hits", []string{"relation"})
//	hits.WithLabelValues("author").Inc()
//
// # Thread Safety
//
// All methods on Metrics are safe for concurrent use by multiple goroutines.
package metrics
