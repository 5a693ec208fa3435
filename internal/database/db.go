package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect selects the DDL flavour used by EnsureSchema.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// Options are the connection parameters recognised by Open.
type Options struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Timeout  time.Duration
}

// Open connects to the configured store and verifies the connection.  For
// sqlite, Name is the database file path.
func Open(ctx context.Context, o Options) (*sql.DB, Dialect, error) {
	var (
		dialect Dialect
		dsn     string
	)
	switch o.Driver {
	case "", "mysql":
		dialect, dsn = MySQL, mysqlDSN(o)
	case "sqlite", "sqlite3":
		dialect, dsn = SQLite, sqliteDSN(o.Name)
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", o.Driver)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", err
	}

	// A CLI invocation issues one statement at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}

// mysqlDSN builds a go-sql-driver DSN.  clientFoundRows makes UPDATE report
// matched rather than changed rows, so setting an email to its current value
// still counts as a hit.
func mysqlDSN(o Options) string {
	auth := o.User
	if o.Password != "" {
		auth = fmt.Sprintf("%s:%s", o.User, o.Password)
	}
	// parseTime=true -> DATE -> time.Time | loc=UTC keeps dates consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, o.Host, o.Port, o.Name)
}

// sqliteDSN enables foreign keys on every connection; without it SQLite
// ignores ON DELETE CASCADE.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
