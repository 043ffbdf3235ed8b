package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrTxInProgress is returned by Begin when a transaction is already open.
var ErrTxInProgress = errors.New("transaction already in progress")

// Handle owns one database session.
type Handle struct {
	session Session
	dial    Dialer
	logger  *slog.Logger

	healthy bool
	inTx    bool
	lastErr string

	// target of the last Connect, reused by EnsureConnected
	target  string
	display string
}

// Option configures a Handle.
type Option func(*Handle)

// WithDialer replaces the pgx dialer, mainly for tests.
func WithDialer(d Dialer) Option {
	return func(h *Handle) { h.dial = d }
}

// WithLogger sets the logger used for connection and statement diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handle) { h.logger = l }
}

// WithSession attaches an already-open session.
func WithSession(s Session) Option {
	return func(h *Handle) {
		h.session = s
		h.healthy = s != nil && !s.IsClosed()
	}
}

// NewHandle returns a handle. It does not connect.
func NewHandle(opts ...Option) *Handle {
	h := &Handle{dial: PgxDialer}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Connect opens a session with p, or DefaultParams when p is the zero value.
// An open session is closed first.
func (h *Handle) Connect(ctx context.Context, p Params) error {
	if p.IsZero() {
		p = DefaultParams
	}
	return h.connect(ctx, p.ConnString(), p.String())
}

// ConnectString opens a session from a URL or key/value connection string.
func (h *Handle) ConnectString(ctx context.Context, connString string) error {
	return h.connect(ctx, connString, maskConnString(connString))
}

func (h *Handle) connect(ctx context.Context, connString, display string) error {
	if h.session != nil {
		_ = h.session.Close(ctx)
		h.session = nil
	}
	h.healthy = false
	h.inTx = false
	h.target, h.display = connString, display

	session, err := h.dial(ctx, connString)
	if err != nil {
		h.lastErr = errorMessage(err)
		h.logger.Error("database connection failed", "target", display, "error", h.lastErr)
		return fmt.Errorf("connect: %w", err)
	}

	h.session = session
	h.healthy = true
	h.lastErr = ""
	h.logger.Info("connected to database", "target", display)
	return nil
}

// EnsureConnected is the check-and-connect run at the top of every
// controller operation. A healthy handle is left alone; otherwise the last
// target is dialed again, or DefaultParams when Connect was never called.
func (h *Handle) EnsureConnected(ctx context.Context) error {
	if h.IsConnected() {
		return nil
	}
	if h.target == "" {
		return h.Connect(ctx, Params{})
	}
	return h.connect(ctx, h.target, h.display)
}

// Disconnect closes the session. Safe to call when not connected.
func (h *Handle) Disconnect(ctx context.Context) error {
	if h.session == nil {
		return nil
	}
	err := h.session.Close(ctx)
	h.session = nil
	h.healthy = false
	h.inTx = false
	if err != nil {
		h.lastErr = errorMessage(err)
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// IsConnected is true only when a session exists and its last known status
// is healthy.
func (h *Handle) IsConnected() bool {
	return h.session != nil && h.healthy && !h.session.IsClosed()
}

// Ping round-trips to the server and refreshes the health status.
func (h *Handle) Ping(ctx context.Context) error {
	if h.session == nil {
		h.lastErr = ErrNotConnected.Error()
		return ErrNotConnected
	}
	if err := h.session.Ping(ctx); err != nil {
		h.healthy = false
		return h.fail("ping", err)
	}
	h.healthy = true
	return nil
}

// InTransaction reports whether Begin was issued without a matching
// Commit or Rollback.
func (h *Handle) InTransaction() bool {
	return h.inTx
}

// LastError returns the message of the most recent failure.
func (h *Handle) LastError() string {
	if h.session == nil && h.lastErr == "" {
		return "No connection"
	}
	return h.lastErr
}

// Execute runs a statement without parameters and returns its result.
func (h *Handle) Execute(ctx context.Context, sql string) (*Cursor, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}

	rows, err := h.session.Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, h.fail("execute", err)
	}
	cur, err := newCursor(rows)
	if err != nil {
		return nil, h.fail("execute", err)
	}
	return cur, nil
}

// ExecuteParameterized binds params positionally to $1..$N as text and lets
// the server coerce them. Values that come from callers must go through here.
func (h *Handle) ExecuteParameterized(ctx context.Context, sql string, params ...string) (*Cursor, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}

	args := make([]any, 0, len(params)+1)
	args = append(args, pgx.QueryResultFormats{pgx.TextFormatCode})
	for _, p := range params {
		args = append(args, p)
	}

	rows, err := h.session.Query(ctx, sql, args...)
	if err != nil {
		return nil, h.fail("execute parameterized", err)
	}
	cur, err := newCursor(rows)
	if err != nil {
		return nil, h.fail("execute parameterized", err)
	}
	return cur, nil
}

// ExecuteNonQuery runs sql and discards any result. Multiple statements
// separated by semicolons are allowed.
func (h *Handle) ExecuteNonQuery(ctx context.Context, sql string) error {
	if err := h.ready(); err != nil {
		return err
	}
	if _, err := h.session.Exec(ctx, sql); err != nil {
		return h.fail("execute", err)
	}
	return nil
}

// ExecuteParameterizedNonQuery is ExecuteParameterized without the result.
func (h *Handle) ExecuteParameterizedNonQuery(ctx context.Context, sql string, params ...string) error {
	_, err := h.ExecuteParameterized(ctx, sql, params...)
	return err
}

// Begin opens a flat transaction.
func (h *Handle) Begin(ctx context.Context) error {
	if h.inTx {
		h.lastErr = ErrTxInProgress.Error()
		return ErrTxInProgress
	}
	if err := h.ExecuteNonQuery(ctx, "BEGIN"); err != nil {
		return err
	}
	h.inTx = true
	return nil
}

// Commit commits the open transaction. It is sent even when ctx is already
// done, so a cancelled caller cannot strand the transaction half way.
func (h *Handle) Commit(ctx context.Context) error {
	err := h.ExecuteNonQuery(context.WithoutCancel(ctx), "COMMIT")
	h.inTx = false
	return err
}

// Rollback aborts the open transaction. Like Commit it ignores ctx
// cancellation. When ROLLBACK cannot be delivered the server may still hold
// the transaction open, so the session is closed and the next operation
// reconnects; a later COMMIT can never persist the aborted work.
func (h *Handle) Rollback(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	err := h.ExecuteNonQuery(ctx, "ROLLBACK")
	h.inTx = false
	if err != nil {
		h.drop(ctx, "rollback failed")
	}
	return err
}

// drop closes the session after a failure that leaves its server-side state
// unknown.
func (h *Handle) drop(ctx context.Context, reason string) {
	if h.session == nil {
		return
	}
	if err := h.session.Close(ctx); err != nil {
		h.logger.Warn("close after failure", "error", errorMessage(err))
	}
	h.session = nil
	h.healthy = false
	h.logger.Error("database session dropped", "reason", reason, "target", h.display)
}

// Escape escapes s for use inside a single-quoted SQL literal. Returns s
// unchanged when not connected.
func (h *Handle) Escape(s string) string {
	if !h.IsConnected() {
		return s
	}
	if conn, ok := h.session.(*pgx.Conn); ok {
		escaped, err := conn.PgConn().EscapeString(s)
		if err == nil {
			return escaped
		}
		h.lastErr = errorMessage(err)
	}
	return strings.ReplaceAll(s, "'", "''")
}

func (h *Handle) ready() error {
	if h.session == nil || h.session.IsClosed() {
		h.healthy = false
		h.lastErr = ErrNotConnected.Error()
		h.logger.Error("statement rejected", "error", ErrNotConnected)
		return ErrNotConnected
	}
	return nil
}

// fail records err as the last error and marks the handle unhealthy when
// the session dropped underneath it.
func (h *Handle) fail(op string, err error) error {
	h.lastErr = errorMessage(err)
	if h.session == nil || h.session.IsClosed() {
		h.healthy = false
	}
	h.logger.Error("database operation failed", "op", op, "error", h.lastErr)
	return fmt.Errorf("%s: %w", op, err)
}

// maskConnString hides the password in a URL or key/value string.
func maskConnString(s string) string {
	if i := strings.Index(s, "://"); i >= 0 {
		rest := s[i+3:]
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return s
		}
		userinfo := rest[:at]
		if colon := strings.Index(userinfo, ":"); colon >= 0 {
			userinfo = userinfo[:colon] + ":****"
		}
		return s[:i+3] + userinfo + rest[at:]
	}

	fields := strings.Fields(s)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
