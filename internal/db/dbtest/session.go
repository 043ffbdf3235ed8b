// Package dbtest provides a scripted in-memory stand-in for a Postgres
// session so the data-access layer can be exercised without a server.
//
// A Session records every statement it receives and answers queries from
// rules registered with On. Like pgx, it refuses a statement whose context
// is already done without sending or recording it. Rules match on a case-insensitive substring of
// the SQL text and are checked in registration order; a rule marked Once is
// consumed by its first match.
//
//	fake := dbtest.NewSession()
//	fake.On("SELECT COUNT(*) FROM job_applications").Return([]string{"count"}, dbtest.Row("1"))
//	fake.On("INSERT INTO interview_dates").Fail(errors.New("boom"))
package dbtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrClosed is returned by every call made after Close.
var ErrClosed = errors.New("conn closed")

// Statement is one recorded call.
type Statement struct {
	SQL  string
	Args []string
}

// Rule is a scripted response.
type Rule struct {
	match  string
	fields []string
	rows   [][]*string
	tag    string
	err    error
	once   bool
	used   bool
	then   func()
}

// Return sets the columns and rows a matching query yields.
func (r *Rule) Return(fields []string, rows ...[]*string) *Rule {
	r.fields = fields
	r.rows = rows
	return r
}

// Tag sets the command tag reported for a matching statement.
func (r *Rule) Tag(tag string) *Rule {
	r.tag = tag
	return r
}

// Fail makes a matching statement return err.
func (r *Rule) Fail(err error) *Rule {
	r.err = err
	return r
}

// Then runs fn after a matching statement has been recorded, e.g. to
// cancel the caller's context mid-transaction.
func (r *Rule) Then(fn func()) *Rule {
	r.then = fn
	return r
}

// Once limits the rule to a single match.
func (r *Rule) Once() *Rule {
	r.once = true
	return r
}

// Row builds a result row; nil-able cells are written with Null.
func Row(values ...string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

// Null returns a row with the given cell indexes set to NULL.
func Null(row []*string, idx ...int) []*string {
	for _, i := range idx {
		if i >= 0 && i < len(row) {
			row[i] = nil
		}
	}
	return row
}

// Session implements the Exec/Query/Ping/IsClosed/Close surface of *pgx.Conn.
type Session struct {
	mu         sync.Mutex
	rules      []*Rule
	statements []Statement
	closed     bool
	pingErr    error
}

// NewSession returns an open fake session with no rules.
func NewSession() *Session {
	return &Session{}
}

// On registers a rule for statements containing match.
func (s *Session) On(match string) *Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Rule{match: strings.ToLower(match)}
	s.rules = append(s.rules, r)
	return r
}

// FailPing makes Ping return err.
func (s *Session) FailPing(err error) {
	s.mu.Lock()
	s.pingErr = err
	s.mu.Unlock()
}

// Statements returns a copy of everything executed so far.
func (s *Session) Statements() []Statement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Statement, len(s.statements))
	copy(out, s.statements)
	return out
}

// SQL returns just the statement texts in execution order.
func (s *Session) SQL() []string {
	stmts := s.Statements()
	out := make([]string, len(stmts))
	for i, st := range stmts {
		out[i] = st.SQL
	}
	return out
}

// Count returns how many executed statements contain substr.
func (s *Session) Count(substr string) int {
	substr = strings.ToLower(substr)
	n := 0
	for _, sql := range s.SQL() {
		if strings.Contains(strings.ToLower(sql), substr) {
			n++
		}
	}
	return n
}

// Reset forgets recorded statements but keeps the rules.
func (s *Session) Reset() {
	s.mu.Lock()
	s.statements = nil
	s.mu.Unlock()
}

// Exec records sql and returns the matching rule's error, if any.
func (s *Session) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r, err := s.record(ctx, sql, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	if r == nil {
		return pgconn.NewCommandTag(defaultTag(sql)), nil
	}
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag(r.tagFor(sql)), nil
}

// Query records sql and returns rows from the matching rule.
func (s *Session) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	r, err := s.record(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return &Rows{tag: pgconn.NewCommandTag(defaultTag(sql)), pos: -1}, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	return &Rows{
		fields: r.fields,
		rows:   r.rows,
		tag:    pgconn.NewCommandTag(r.tagFor(sql)),
		pos:    -1,
	}, nil
}

// Ping reports the scripted ping error.
func (s *Session) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.pingErr
}

// IsClosed reports whether Close was called.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close marks the session closed.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Session) record(ctx context.Context, sql string, args []any) (*Rule, error) {
	r, err := s.match(ctx, sql, args)
	if r != nil && r.then != nil {
		r.then()
	}
	return r, err
}

func (s *Session) match(ctx context.Context, sql string, args []any) (*Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := Statement{SQL: sql}
	for _, a := range args {
		switch v := a.(type) {
		case pgx.QueryResultFormats, pgx.QueryResultFormatsByOID, pgx.QueryExecMode:
			continue
		case string:
			st.Args = append(st.Args, v)
		case nil:
			st.Args = append(st.Args, "")
		default:
			st.Args = append(st.Args, fmt.Sprint(v))
		}
	}
	s.statements = append(s.statements, st)

	lower := strings.ToLower(sql)
	for _, r := range s.rules {
		if r.once && r.used {
			continue
		}
		if strings.Contains(lower, r.match) {
			r.used = true
			return r, nil
		}
	}
	return nil, nil
}

func (r *Rule) tagFor(sql string) string {
	if r.tag != "" {
		return r.tag
	}
	if r.fields != nil {
		return fmt.Sprintf("SELECT %d", len(r.rows))
	}
	return defaultTag(sql)
}

func defaultTag(sql string) string {
	word := strings.ToUpper(strings.Fields(strings.TrimSpace(sql) + " x")[0])
	switch word {
	case "INSERT":
		return "INSERT 0 1"
	case "UPDATE", "DELETE":
		return word + " 1"
	case "SELECT":
		return "SELECT 0"
	}
	return word
}
