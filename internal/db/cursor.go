package db

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// cell is one nullable text value.
type cell struct {
	value string
	valid bool
}

// Cursor is a materialized, read-only query result with a current-row
// position. The position starts before the first row: call Next before
// reading.
//
// Getters never fail. NULL cells, unknown column names and out-of-range
// indexes all yield the zero value; use IsNull or Lookup to tell them apart.
type Cursor struct {
	fields   []string
	rows     [][]cell
	pos      int
	affected int64
}

// newCursor drains rows into a Cursor. rows is always closed.
func newCursor(rows pgx.Rows) (*Cursor, error) {
	defer rows.Close()

	fds := rows.FieldDescriptions()
	c := &Cursor{
		fields: make([]string, len(fds)),
		pos:    -1,
	}
	for i, fd := range fds {
		c.fields[i] = fd.Name
	}

	for rows.Next() {
		raw := rows.RawValues()
		row := make([]cell, len(c.fields))
		for i := range row {
			if i < len(raw) && raw[i] != nil {
				row[i] = cell{value: string(raw[i]), valid: true}
			}
		}
		c.rows = append(c.rows, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c.affected = rows.CommandTag().RowsAffected()
	return c, nil
}

// NewCursor builds a cursor from already-fetched values; nil cells are NULL.
// Mostly useful for tests and callers that synthesize results.
func NewCursor(fields []string, rows [][]*string) *Cursor {
	c := &Cursor{fields: append([]string(nil), fields...), pos: -1}
	for _, r := range rows {
		row := make([]cell, len(fields))
		for i := range row {
			if i < len(r) && r[i] != nil {
				row[i] = cell{value: *r[i], valid: true}
			}
		}
		c.rows = append(c.rows, row)
	}
	c.affected = int64(len(c.rows))
	return c
}

// Next advances to the next row. Returns false once exhausted, leaving the
// position on the last row.
func (c *Cursor) Next() bool {
	if c.pos >= len(c.rows)-1 {
		return false
	}
	c.pos++
	return true
}

// Reset rewinds to before the first row.
func (c *Cursor) Reset() { c.pos = -1 }

// RowCount is the number of rows in the result.
func (c *Cursor) RowCount() int { return len(c.rows) }

// ColumnCount is the number of columns in the result.
func (c *Cursor) ColumnCount() int { return len(c.fields) }

// RowsAffected is the count reported by the server's command tag.
func (c *Cursor) RowsAffected() int64 { return c.affected }

// FieldName returns the name of column i, or "" when out of range.
func (c *Cursor) FieldName(i int) string {
	if i < 0 || i >= len(c.fields) {
		return ""
	}
	return c.fields[i]
}

// FieldIndex returns the position of the named column, or -1.
func (c *Cursor) FieldIndex(name string) int {
	for i, f := range c.fields {
		if f == name {
			return i
		}
	}
	return -1
}

func (c *Cursor) cell(i int) (cell, bool) {
	if c.pos < 0 || c.pos >= len(c.rows) || i < 0 || i >= len(c.fields) {
		return cell{}, false
	}
	return c.rows[c.pos][i], true
}

// IsNull is true for NULL cells and for out-of-range positions.
func (c *Cursor) IsNull(i int) bool {
	v, ok := c.cell(i)
	return !ok || !v.valid
}

// IsNullByName is IsNull for a named column.
func (c *Cursor) IsNullByName(name string) bool {
	return c.IsNull(c.FieldIndex(name))
}

// Lookup returns the named cell of the current row and whether it holds
// a non-NULL value in an existing column.
func (c *Cursor) Lookup(name string) (string, bool) {
	v, ok := c.cell(c.FieldIndex(name))
	if !ok || !v.valid {
		return "", false
	}
	return v.value, true
}

// GetString returns column i of the current row.
func (c *Cursor) GetString(i int) string {
	v, _ := c.cell(i)
	return v.value
}

// GetStringByName returns the named column of the current row.
func (c *Cursor) GetStringByName(name string) string {
	return c.GetString(c.FieldIndex(name))
}

// GetInt parses column i as an integer. Numeric text with a fractional
// part is truncated.
func (c *Cursor) GetInt(i int) int {
	s := strings.TrimSpace(c.GetString(i))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// GetIntByName is GetInt for a named column.
func (c *Cursor) GetIntByName(name string) int {
	return c.GetInt(c.FieldIndex(name))
}

// GetDouble parses column i as a float.
func (c *Cursor) GetDouble(i int) float64 {
	s := strings.TrimSpace(c.GetString(i))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// GetDoubleByName is GetDouble for a named column.
func (c *Cursor) GetDoubleByName(name string) float64 {
	return c.GetDouble(c.FieldIndex(name))
}

// GetBool is true for "t", "true" and "1".
func (c *Cursor) GetBool(i int) bool {
	switch c.GetString(i) {
	case "t", "true", "1":
		return true
	}
	return false
}

// GetBoolByName is GetBool for a named column.
func (c *Cursor) GetBoolByName(name string) bool {
	return c.GetBool(c.FieldIndex(name))
}

// AllRows materializes every row; NULL cells become "".
func (c *Cursor) AllRows() []map[string]string {
	out := make([]map[string]string, len(c.rows))
	for r, row := range c.rows {
		out[r] = c.rowMap(row)
	}
	return out
}

// CurrentRow materializes the row at the cursor, or an empty map when the
// cursor is not on a row.
func (c *Cursor) CurrentRow() map[string]string {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return map[string]string{}
	}
	return c.rowMap(c.rows[c.pos])
}

func (c *Cursor) rowMap(row []cell) map[string]string {
	m := make(map[string]string, len(c.fields))
	for i, f := range c.fields {
		m[f] = row[i].value
	}
	return m
}
