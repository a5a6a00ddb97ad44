package database

import (
	"context"
	"time"
)

// Executor is the statement surface of *Database. Repositories should depend
// on it rather than on the concrete type.
type Executor interface {
	Execute(ctx context.Context, sql string, params ...Param) (int64, error)
	Query(ctx context.Context, sql string, params []Param, results []Result, mode Mode) ([]Row, error)
	QueryOne(ctx context.Context, sql string, params []Param, results []Result, mode Mode) (Row, bool, error)
	QueryInt(ctx context.Context, sql string, params ...Param) (int, error)
	QueryIDs(ctx context.Context, sql string, params ...Param) ([]int64, error)
	QueryReadOnly(ctx context.Context, sql string, params []Param, results []Result) ([]Row, error)
	QueryIntReadOnly(ctx context.Context, sql string, params ...Param) (int, error)
	QueryIDsReadOnly(ctx context.Context, sql string, params ...Param) ([]int64, error)
	WithTransaction(ctx context.Context, isolation Isolation, fn func(ctx context.Context) error) error
	Connected(ctx context.Context) bool
}

// Logger is the logging surface this package needs. *logger.Logger satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// contextLogger is implemented by loggers that attach trace ids from ctx.
type contextLogger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// UsageTracker receives the time every borrowed connection was held.
//
//go:generate mockgen -destination=mock_usage_tracker_test.go -package=database github.com/Aleph-Alpha/datalayer/v1/database UsageTracker
type UsageTracker interface {
	RecordConnectionUsage(ctx context.Context, target string, elapsed time.Duration)
}

// StatementRecorder receives one call per executed statement.
type StatementRecorder interface {
	RecordStatement(kind string, start time.Time, err error)
}

// HealthReporter receives the result of every connectivity probe.
type HealthReporter interface {
	SetConnected(target string, connected bool)
}
