package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/db/dbtest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeService returns a service whose handle is already attached to a
// scripted session.
func newFakeService(t *testing.T) (*Service, *dbtest.Session) {
	t.Helper()
	fake := dbtest.NewSession()
	h := db.NewHandle(db.WithSession(fake), db.WithLogger(quietLogger()))
	return NewService(h, WithLogger(quietLogger())), fake
}

// disconnectedService cannot reach a database.
func disconnectedService() *Service {
	h := db.NewHandle(
		db.WithLogger(quietLogger()),
		db.WithDialer(func(ctx context.Context, cs string) (db.Session, error) {
			return nil, errors.New("dial tcp 127.0.0.1:5432: connection refused")
		}),
	)
	return NewService(h, WithLogger(quietLogger()))
}

// verbs reduces recorded statements to their leading keywords, e.g.
// "INSERT INTO interview_dates", for order assertions.
func verbs(fake *dbtest.Session) []string {
	var out []string
	for _, sql := range fake.SQL() {
		f := strings.Fields(sql)
		switch {
		case len(f) >= 3 && (f[0] == "INSERT" || f[0] == "DELETE"):
			out = append(out, strings.Join(f[:3], " "))
		case len(f) >= 2 && f[0] == "UPDATE":
			out = append(out, strings.Join(f[:2], " "))
		case len(f) >= 1 && f[0] == "SELECT":
			out = append(out, "SELECT")
		case len(f) >= 1:
			out = append(out, f[0])
		}
	}
	return out
}

// statement returns the first recorded statement containing substr.
func statement(t *testing.T, fake *dbtest.Session, substr string) dbtest.Statement {
	t.Helper()
	for _, st := range fake.Statements() {
		if strings.Contains(st.SQL, substr) {
			return st
		}
	}
	t.Fatalf("no statement containing %q in %v", substr, fake.SQL())
	return dbtest.Statement{}
}

func applicationRow(id, company, dateApplied, status string) []*string {
	return dbtest.Null(dbtest.Row(
		id, "JOB_1", "Engineer", company, dateApplied, status,
		"Jane", "jane@acme.com", "555-0100", "great team", "https://acme.com/jobs/1",
		"", "120k", "", "referral", "online", "notes",
	), 11, 13)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}
