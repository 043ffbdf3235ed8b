package db

import (
	"context"
	"testing"

	"github.com/JonMunkholm/rezz/internal/db/dbtest"
)

func sampleCursor() *Cursor {
	return NewCursor(
		[]string{"id", "name", "score", "active", "note"},
		[][]*string{
			dbtest.Null(dbtest.Row("1", "alpha", "3.5", "t", ""), 4),
			dbtest.Row("2", "beta", "7", "false", "x"),
		},
	)
}

func TestCursor_StartsBeforeFirstRow(t *testing.T) {
	c := sampleCursor()

	if got := c.GetString(0); got != "" {
		t.Errorf("GetString before Next = %q, want empty", got)
	}
	if !c.IsNull(0) {
		t.Error("IsNull before Next should be true")
	}
	if len(c.CurrentRow()) != 0 {
		t.Error("CurrentRow before Next should be empty")
	}
}

func TestCursor_NextAndReset(t *testing.T) {
	c := sampleCursor()

	var ids []int
	for c.Next() {
		ids = append(ids, c.GetIntByName("id"))
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids = %v, want [1 2]", ids)
	}
	if c.Next() {
		t.Error("Next after exhaustion should stay false")
	}

	c.Reset()
	if !c.Next() {
		t.Fatal("Next after Reset should be true")
	}
	if got := c.GetStringByName("name"); got != "alpha" {
		t.Errorf("name after Reset = %q, want alpha", got)
	}
}

func TestCursor_Counts(t *testing.T) {
	c := sampleCursor()
	if c.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", c.RowCount())
	}
	if c.ColumnCount() != 5 {
		t.Errorf("ColumnCount = %d, want 5", c.ColumnCount())
	}
}

func TestCursor_TypedGetters(t *testing.T) {
	c := sampleCursor()
	c.Next()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int", c.GetIntByName("id"), 1},
		{"double", c.GetDoubleByName("score"), 3.5},
		{"int truncates numeric text", c.GetIntByName("score"), 3},
		{"bool t", c.GetBoolByName("active"), true},
		{"string", c.GetStringByName("name"), "alpha"},
		{"null string", c.GetStringByName("note"), ""},
		{"null int", c.GetIntByName("note"), 0},
		{"missing column string", c.GetStringByName("nope"), ""},
		{"missing column double", c.GetDoubleByName("nope"), 0.0},
		{"missing column bool", c.GetBoolByName("nope"), false},
		{"out of range index", c.GetString(42), ""},
		{"negative index", c.GetInt(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}
}

func TestCursor_GetBoolValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"t", true},
		{"true", true},
		{"1", true},
		{"f", false},
		{"false", false},
		{"0", false},
		{"TRUE", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := NewCursor([]string{"b"}, [][]*string{dbtest.Row(tt.value)})
			c.Next()
			if got := c.GetBool(0); got != tt.want {
				t.Errorf("GetBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCursor_NullVersusEmpty(t *testing.T) {
	c := NewCursor([]string{"a", "b"}, [][]*string{dbtest.Null(dbtest.Row("", ""), 1)})
	c.Next()

	if c.IsNullByName("a") {
		t.Error("empty string should not be NULL")
	}
	if !c.IsNullByName("b") {
		t.Error("nil cell should be NULL")
	}
	if !c.IsNullByName("missing") {
		t.Error("missing column should report NULL")
	}

	if v, ok := c.Lookup("a"); !ok || v != "" {
		t.Errorf("Lookup(a) = %q, %v; want \"\", true", v, ok)
	}
	if _, ok := c.Lookup("b"); ok {
		t.Error("Lookup(b) should report absent")
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("Lookup(missing) should report absent")
	}
}

func TestCursor_FieldLookup(t *testing.T) {
	c := sampleCursor()

	if got := c.FieldIndex("score"); got != 2 {
		t.Errorf("FieldIndex(score) = %d, want 2", got)
	}
	if got := c.FieldIndex("nope"); got != -1 {
		t.Errorf("FieldIndex(nope) = %d, want -1", got)
	}
	if got := c.FieldName(1); got != "name" {
		t.Errorf("FieldName(1) = %q, want name", got)
	}
	if got := c.FieldName(9); got != "" {
		t.Errorf("FieldName(9) = %q, want empty", got)
	}
}

func TestCursor_AllRowsAndCurrentRow(t *testing.T) {
	c := sampleCursor()

	all := c.AllRows()
	if len(all) != 2 {
		t.Fatalf("AllRows len = %d, want 2", len(all))
	}
	if all[0]["note"] != "" || all[1]["note"] != "x" {
		t.Errorf("AllRows notes = %q, %q", all[0]["note"], all[1]["note"])
	}

	c.Next()
	c.Next()
	row := c.CurrentRow()
	if row["name"] != "beta" || row["score"] != "7" {
		t.Errorf("CurrentRow = %v", row)
	}
}

func TestNewCursorFromRows_ClosesRows(t *testing.T) {
	fake := dbtest.NewSession()
	fake.On("select").Return([]string{"n"}, dbtest.Row("1"), dbtest.Row("2"))

	rows, err := fake.Query(context.Background(), "SELECT n FROM t")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	c, err := newCursor(rows)
	if err != nil {
		t.Fatalf("newCursor() error = %v", err)
	}
	if c.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", c.RowCount())
	}
	if rows.Next() {
		t.Error("rows should be closed after newCursor")
	}
}
