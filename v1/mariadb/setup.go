package mariadb

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Kind is the database kind discriminator handled by this package.
const Kind = "mysql"

// Server error numbers classified by this package.
const (
	errDuplicateEntry    = 1062
	errRowIsReferenced   = 1451
	errNoReferencedRow   = 1452
	errNoReferencedRowV1 = 1216
)

// Connection describes a single MySQL or MariaDB target.
type Connection struct {
	// DriverName overrides the database/sql driver. Empty uses "mysql".
	DriverName string
	// URL is either a mysql:// (or mariadb://) URL or a go-sql-driver DSN.
	URL      string
	User     string
	Password string
}

// Open opens a GORM handle for the connection.
func Open(conn Connection) (*gorm.DB, error) {
	dsn, err := DSN(conn.URL, conn.User, conn.Password)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(
		gormmysql.New(gormmysql.Config{
			DriverName: conn.DriverName,
			DSN:        dsn,
		}),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MariaDB database: %w", err)
	}
	return database, nil
}

// DSN builds a go-sql-driver DSN from a URL or DSN plus credentials.
// parseTime is always enabled so DATE and DATETIME columns scan as time.Time.
func DSN(rawURL, user, password string) (string, error) {
	if rawURL == "" {
		return "", errors.New("mariadb: empty connection url")
	}

	raw := rawURL
	if strings.Contains(rawURL, "://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("mariadb: invalid connection url: %w", err)
		}
		if u.Scheme != "mysql" && u.Scheme != "mariadb" {
			return "", fmt.Errorf("mariadb: unsupported url scheme %q", u.Scheme)
		}
		raw = "tcp(" + u.Host + ")" + u.Path
		if u.Path == "" {
			raw += "/"
		}
		if u.RawQuery != "" {
			raw += "?" + u.RawQuery
		}
		if u.User != nil {
			creds := u.User.Username()
			if p, ok := u.User.Password(); ok {
				creds += ":" + p
			}
			raw = creds + "@" + raw
		}
	}

	cfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("mariadb: invalid dsn: %w", err)
	}
	if user != "" {
		cfg.User = user
		cfg.Passwd = password
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// IsUniqueViolation reports whether err is a duplicate entry error.
func IsUniqueViolation(err error) bool {
	return hasNumber(err, errDuplicateEntry)
}

// IsForeignKeyViolation reports whether err is a foreign key constraint error.
func IsForeignKeyViolation(err error) bool {
	return hasNumber(err, errRowIsReferenced, errNoReferencedRow, errNoReferencedRowV1)
}

func hasNumber(err error, numbers ...uint16) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	for _, n := range numbers {
		if myErr.Number == n {
			return true
		}
	}
	return false
}
