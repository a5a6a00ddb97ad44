package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/datalayer/v1/logger"
	"github.com/Aleph-Alpha/datalayer/v1/mariadb"
	"github.com/Aleph-Alpha/datalayer/v1/postgres"
)

const (
	defaultMaxOpenConns    = 50
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = time.Minute
	defaultMonitorInterval = 10 * time.Second
)

// Options carries the collaborators of a Database. Every field is optional.
type Options struct {
	Logger     Logger
	Trackers   []UsageTracker
	Statements StatementRecorder
	Health     HealthReporter

	// Dialect is used by NewFromDB. New derives it from Config.Type.
	Dialect Dialect
	// MonitorInterval overrides Config.MonitorInterval.
	MonitorInterval time.Duration
}

// Database executes typed statements over a Router.
//
// It is safe for concurrent use. The only shared mutable state is the
// replica rotation inside the Router.
type Database struct {
	router  *Router
	dialect Dialect
	orm     *gorm.DB

	logger     Logger
	trackers   []UsageTracker
	statements StatementRecorder
	health     HealthReporter

	monitorInterval   time.Duration
	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// New opens the primary pool and, unless replicas are disabled, one pool per
// read URL. Pools are tuned from cfg.ConnectionDetails.
//
// Returns *Database concrete type (accept interfaces, return structs).
func New(cfg Config, opts Options) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialect, open, err := openerFor(cfg)
	if err != nil {
		return nil, err
	}

	orm, primaryDB, err := openPool(open, cfg.URL, cfg.ConnectionDetails)
	if err != nil {
		return nil, err
	}

	var replicas []Target
	for i, u := range cfg.ReadTargets() {
		_, db, err := openPool(open, u, cfg.ConnectionDetails)
		if err != nil {
			_ = NewRouter(Target{DB: primaryDB}, replicas...).Close()
			return nil, fmt.Errorf("failed to open read replica %d: %w", i+1, err)
		}
		replicas = append(replicas, Target{Name: fmt.Sprintf("read-%d", i+1), DB: db})
	}

	opts.Dialect = dialect
	if opts.MonitorInterval == 0 {
		opts.MonitorInterval = cfg.MonitorInterval
	}
	d := newDatabase(NewRouter(Target{Name: "primary", DB: primaryDB}, replicas...), opts)
	d.orm = orm

	d.logger.Info("Successfully connected to database", nil, map[string]interface{}{
		"type":     cfg.Type,
		"replicas": len(replicas),
	})
	return d, nil
}

// NewFromDB wraps pools opened by the caller. The first pool is the primary.
// opts.Dialect defaults to GenericDialect.
func NewFromDB(primary *sql.DB, replicas []*sql.DB, opts Options) *Database {
	targets := make([]Target, 0, len(replicas))
	for i, db := range replicas {
		targets = append(targets, Target{Name: fmt.Sprintf("read-%d", i+1), DB: db})
	}
	if opts.Dialect.Name == "" {
		opts.Dialect = GenericDialect
	}
	return newDatabase(NewRouter(Target{Name: "primary", DB: primary}, targets...), opts)
}

func newDatabase(router *Router, opts Options) *Database {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	interval := opts.MonitorInterval
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	return &Database{
		router:          router,
		dialect:         opts.Dialect,
		logger:          log,
		trackers:        opts.Trackers,
		statements:      opts.Statements,
		health:          opts.Health,
		monitorInterval: interval,
		shutdownSignal:  make(chan struct{}),
	}
}

type openFunc func(url string) (*gorm.DB, error)

func openerFor(cfg Config) (Dialect, openFunc, error) {
	switch cfg.Type {
	case postgres.Kind:
		return PostgresDialect, func(url string) (*gorm.DB, error) {
			return postgres.Open(postgres.Connection{
				DriverName: cfg.Driver,
				URL:        url,
				User:       cfg.Username,
				Password:   cfg.Password,
			})
		}, nil
	case mariadb.Kind:
		return MySQLDialect, func(url string) (*gorm.DB, error) {
			return mariadb.Open(mariadb.Connection{
				DriverName: cfg.Driver,
				URL:        url,
				User:       cfg.Username,
				Password:   cfg.Password,
			})
		}, nil
	}
	return Dialect{}, nil, fmt.Errorf("%w: %q", ErrUnknownDatabaseType, cfg.Type)
}

// openPool opens one target and applies pool settings. Zero settings fall
// back to package defaults.
func openPool(open openFunc, url string, details ConnectionDetails) (*gorm.DB, *sql.DB, error) {
	orm, err := open(url)
	if err != nil {
		return nil, nil, err
	}

	db, err := orm.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	maxOpen := details.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := details.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxLifetime := details.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = defaultConnMaxLifetime
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	return orm, db, nil
}

// Router returns the pool router.
func (d *Database) Router() *Router {
	return d.router
}

// Dialect returns the dialect statements are rewritten for.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// ORM returns the GORM handle of the primary, or nil when the Database was
// built with NewFromDB.
func (d *Database) ORM() *gorm.DB {
	return d.orm
}

// Migrate runs GORM auto-migration for models on the primary.
func (d *Database) Migrate(ctx context.Context, models ...interface{}) error {
	if d.orm == nil {
		return fmt.Errorf("migrate: %w", ErrNoTarget)
	}
	if err := d.orm.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", TranslateError(err))
	}
	return nil
}

// Ping checks every pool concurrently.
func (d *Database) Ping(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range d.router.Targets() {
		if t.DB == nil {
			return fmt.Errorf("ping %s: %w", t.Name, ErrNoTarget)
		}
		g.Go(func() error {
			if err := t.DB.PingContext(ctx); err != nil {
				return fmt.Errorf("ping %s: %w", t.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close stops the monitor and closes every pool.
func (d *Database) Close() error {
	d.closeShutdownOnce.Do(func() {
		close(d.shutdownSignal)
	})
	return d.router.Close()
}
