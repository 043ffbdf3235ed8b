package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/rezz/internal/db"
)

// psql builds Postgres statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Option configures a controller.
type Option func(*base)

// WithLogger sets the controller logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.logger = l }
}

// base is the part every controller shares: the injected handle, the
// check-and-connect guard, and the transaction wrapper.
type base struct {
	h      *db.Handle
	logger *slog.Logger
	entity string
}

func newBase(h *db.Handle, entity string, opts []Option) base {
	b := base{h: h, entity: entity}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("entity", entity)
	return b
}

// ensureConnected runs at the top of every public operation.
func (b *base) ensureConnected(ctx context.Context) error {
	if b.h == nil {
		return db.ErrNotConnected
	}
	if err := b.h.EnsureConnected(ctx); err != nil {
		b.logger.Error("failed to connect to database", "error", err)
		if errors.Is(err, db.ErrNotConnected) {
			return err
		}
		return fmt.Errorf("%w: %w", db.ErrNotConnected, err)
	}
	return nil
}

// inTx runs fn between BEGIN and COMMIT. The first error from fn, or a
// failed COMMIT, rolls the whole unit back.
func (b *base) inTx(ctx context.Context, op string, fn func() error) error {
	if err := b.h.Begin(ctx); err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err := fn(); err != nil {
		b.rollback(ctx, op, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := b.h.Commit(ctx); err != nil {
		b.rollback(ctx, op, err)
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (b *base) rollback(ctx context.Context, op string, cause error) {
	if rbErr := b.h.Rollback(ctx); rbErr != nil {
		b.logger.Error("rollback failed", "op", op, "error", rbErr, "cause", cause)
		return
	}
	b.logger.Warn("transaction rolled back", "op", op, "cause", cause)
}

// exec runs a parameterized statement and discards the result.
func (b *base) exec(ctx context.Context, sql string, params ...string) error {
	return b.h.ExecuteParameterizedNonQuery(ctx, sql, params...)
}

// query runs a parameterized statement.
func (b *base) query(ctx context.Context, sql string, params ...string) (*db.Cursor, error) {
	return b.h.ExecuteParameterized(ctx, sql, params...)
}

// selectRows renders a squirrel builder and runs it. Builder args are
// always strings here; anything else is formatted with fmt.
func (b *base) selectRows(ctx context.Context, sb sq.SelectBuilder) (*db.Cursor, error) {
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return b.query(ctx, sql, stringArgs(args)...)
}

// count runs a COUNT(*) builder. Failures return 0 with the error.
func (b *base) count(ctx context.Context, sb sq.SelectBuilder) (int, error) {
	if err := b.ensureConnected(ctx); err != nil {
		return 0, err
	}
	cur, err := b.selectRows(ctx, sb)
	if err != nil {
		b.logger.Error("count failed", "error", err)
		return 0, err
	}
	if !cur.Next() {
		return 0, db.ErrNoRows
	}
	return cur.GetInt(0), nil
}

// exists is the COUNT(*) > 0 precondition used by Create and Update.
func (b *base) exists(ctx context.Context, sb sq.SelectBuilder) (bool, error) {
	n, err := b.count(ctx, sb)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func stringArgs(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case bool:
			out[i] = strconv.FormatBool(v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// ListOption narrows a SELECT built by a controller.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// containsFold matches col case-insensitively against %term%.
func containsFold(col, term string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Expr("LOWER("+col+") LIKE LOWER(?)", "%"+term+"%"))
	}
}

// equalFold matches col case-insensitively and exactly.
func equalFold(col, v string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Expr("LOWER("+col+") = LOWER(?)", v))
	}
}

func equal(col string, v any) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{col: v})
	}
}

func between(col, from, to string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Expr(col+" BETWEEN ? AND ?", from, to))
	}
}

func orderBy(clauses ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy(clauses...)
	}
}

func apply(b sq.SelectBuilder, opts []ListOption) sq.SelectBuilder {
	for _, opt := range opts {
		b = opt(b)
	}
	return b
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
