package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Kind is the database kind discriminator handled by this package.
const Kind = "postgres"

// SQLSTATE codes classified by this package.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Connection describes a single PostgreSQL target.
type Connection struct {
	// DriverName overrides the database/sql driver. Empty uses pgx.
	DriverName string
	// URL is either a postgres:// URL or a key=value connection string.
	URL      string
	User     string
	Password string
}

// Open opens a GORM handle for the connection. The statement logger of GORM is
// silenced; statements issued through the database package are logged there.
func Open(conn Connection) (*gorm.DB, error) {
	dsn, err := DSN(conn.URL, conn.User, conn.Password)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(
		postgres.New(postgres.Config{
			DriverName: conn.DriverName,
			DSN:        dsn,
		}),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgresSQL database: %w", err)
	}
	return database, nil
}

// DSN merges credentials into a PostgreSQL connection URL or key=value string.
// Credentials already present in rawURL are replaced when user is non-empty.
func DSN(rawURL, user, password string) (string, error) {
	if rawURL == "" {
		return "", errors.New("postgres: empty connection url")
	}

	if !strings.Contains(rawURL, "://") {
		dsn := rawURL
		if user != "" {
			dsn += " user=" + quoteValue(user)
		}
		if password != "" {
			dsn += " password=" + quoteValue(password)
		}
		return dsn, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("postgres: invalid connection url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("postgres: unsupported url scheme %q", u.Scheme)
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String(), nil
}

// quoteValue quotes a key=value connection string value when needed.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
