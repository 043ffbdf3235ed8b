// Package db owns the single Postgres session used by the controllers and
// the read-only cursor that query results are materialized into.
//
// # Handle
//
// A [Handle] wraps one live session. It is created disconnected; callers
// (normally the controllers' check-and-connect) open it with [Handle.Connect].
// Every statement runs through the handle, every failure is recorded as the
// handle's last error, and transactions are flat BEGIN/COMMIT/ROLLBACK
// statements.
//
// A Handle is not safe for concurrent use. Code that shares one across
// goroutines must serialize access itself.
//
// # Cursor
//
// Results are requested in text format and copied into a [Cursor] before the
// driver rows are released, so each cell is a nullable string.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Session is the subset of *pgx.Conn the handle depends on.
// Satisfied by *pgx.Conn and by dbtest.Session.
type Session interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	IsClosed() bool
	Close(ctx context.Context) error
}

// Dialer opens a session from a connection string.
type Dialer func(ctx context.Context, connString string) (Session, error)

// PgxDialer opens a real Postgres session.
func PgxDialer(ctx context.Context, connString string) (Session, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Params are explicit connection parameters.
type Params struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// DefaultParams is the local development target used when no parameters
// are supplied.
var DefaultParams = Params{
	Host:     "localhost",
	Port:     5432,
	Database: "rezz_db",
	User:     "postgres",
	Password: "postgres",
}

// IsZero reports whether no parameter was set.
func (p Params) IsZero() bool {
	return p == Params{}
}

// ConnString renders p in libpq key/value form. Empty fields fall back to
// DefaultParams.
func (p Params) ConnString() string {
	p = p.withDefaults()

	parts := []string{
		"host=" + quoteValue(p.Host),
		fmt.Sprintf("port=%d", p.Port),
		"dbname=" + quoteValue(p.Database),
		"user=" + quoteValue(p.User),
		"password=" + quoteValue(p.Password),
	}
	if p.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteValue(p.SSLMode))
	}
	return strings.Join(parts, " ")
}

// String is ConnString with the password masked.
func (p Params) String() string {
	p = p.withDefaults()
	p.Password = "****"
	return p.ConnString()
}

func (p Params) withDefaults() Params {
	if p.Host == "" {
		p.Host = DefaultParams.Host
	}
	if p.Port == 0 {
		p.Port = DefaultParams.Port
	}
	if p.Database == "" {
		p.Database = DefaultParams.Database
	}
	if p.User == "" {
		p.User = DefaultParams.User
	}
	if p.Password == "" {
		p.Password = DefaultParams.Password
	}
	return p
}

// quoteValue quotes a key/value connection string value when needed.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
