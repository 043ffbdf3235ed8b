// Package schema describes the relational layout the controllers read and
// write: column specs per table, export headers, and the embedded DDL used
// to bootstrap an empty database.
package schema

import (
	"fmt"
	"strings"
)

// FieldType is the store type of a column. Values always travel as text;
// the type only decides how an empty value is bound.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldNumeric
	FieldBool
	FieldDate
)

// FieldSpec describes one writable column.
type FieldSpec struct {
	Name     string    // Column name
	Type     FieldType // Store type
	Nullable bool      // Empty input is stored as NULL (dates only)
	Today    bool      // Empty input is stored as CURRENT_DATE (dates only)
}

// Names returns the column names in order.
func Names(specs []FieldSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

// ColumnList joins the column names for an INSERT or SELECT list.
func ColumnList(specs []FieldSpec) string {
	return strings.Join(Names(specs), ", ")
}

// Placeholder renders the bind expression for parameter n of spec.
// Optional dates become NULLIF($n, '')::date so an empty string stores NULL.
func Placeholder(spec FieldSpec, n int) string {
	if spec.Type == FieldDate {
		switch {
		case spec.Today:
			return fmt.Sprintf("COALESCE(NULLIF($%d, '')::date, CURRENT_DATE)", n)
		case spec.Nullable:
			return fmt.Sprintf("NULLIF($%d, '')::date", n)
		}
	}
	return fmt.Sprintf("$%d", n)
}

// Placeholders renders the VALUES list for specs, numbering from start.
func Placeholders(specs []FieldSpec, start int) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = Placeholder(s, start+i)
	}
	return strings.Join(parts, ", ")
}

// Assignments renders "col = $n" pairs for an UPDATE, numbering from start.
func Assignments(specs []FieldSpec, start int) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.Name + " = " + Placeholder(s, start+i)
	}
	return strings.Join(parts, ", ")
}

// Without returns specs minus the named columns.
func Without(specs []FieldSpec, names ...string) []FieldSpec {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := make([]FieldSpec, 0, len(specs))
	for _, s := range specs {
		if !skip[s.Name] {
			out = append(out, s)
		}
	}
	return out
}
