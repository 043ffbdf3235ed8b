package dbtest

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Rows is a text-format pgx.Rows over scripted data.
type Rows struct {
	fields []string
	rows   [][]*string
	tag    pgconn.CommandTag
	pos    int
	closed bool
}

var _ pgx.Rows = (*Rows)(nil)

func (r *Rows) Close() { r.closed = true }

func (r *Rows) Err() error { return nil }

func (r *Rows) CommandTag() pgconn.CommandTag { return r.tag }

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.fields))
	for i, f := range r.fields {
		out[i] = pgconn.FieldDescription{Name: f, Format: pgx.TextFormatCode}
	}
	return out
}

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	if r.pos+1 >= len(r.rows) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	row := r.current()
	if len(dest) != len(row) {
		return fmt.Errorf("number of field descriptions must equal number of destinations, got %d and %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			if row[i] != nil {
				*p = *row[i]
			}
		case **string:
			*p = row[i]
		default:
			return fmt.Errorf("dbtest: unsupported scan target %T", d)
		}
	}
	return nil
}

func (r *Rows) Values() ([]any, error) {
	row := r.current()
	out := make([]any, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = *v
		}
	}
	return out, nil
}

func (r *Rows) RawValues() [][]byte {
	row := r.current()
	out := make([][]byte, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = []byte(*v)
		}
	}
	return out
}

func (r *Rows) Conn() *pgx.Conn { return nil }

func (r *Rows) current() []*string {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return nil
	}
	return r.rows[r.pos]
}
