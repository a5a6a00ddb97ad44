// Package tracer provides OpenTelemetry tracing for code built on the data layer.
//
// Besides span helpers, *Tracer implements database.UsageTracker: each time the
// executor returns a pooled connection, the borrowed time is attached as a
// "db.connection.borrowed" event to the span active in the statement's context.
//
//	t := tracer.NewClient(tracer.Config{ServiceName: "orders"}, log)
//	db, err := database.New(cfg, database.Options{
//		Logger:   log,
//		Trackers: []database.UsageTracker{m, t},
//	})
//
//	ctx, span := t.StartSpan(ctx, "list-orders")
//	defer span.End()
//	rows, err := db.QueryReadOnly(ctx, query, params, results)
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
//
// All methods are safe for concurrent use by multiple goroutines.
package tracer
