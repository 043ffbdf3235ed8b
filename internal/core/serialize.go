package core

import (
	"strconv"
	"strings"
	"time"
)

// listSeparator joins multi-value child collections inside one CSV field.
const listSeparator = ";"

// timestampLayout is the format used for generated timestamps.
const timestampLayout = "2006-01-02 15:04:05"

var jsonEscaper = strings.NewReplacer(
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeJSON prepares s for a JSON string literal. Backslashes become
// forward slashes rather than escapes, so a literal backslash does not
// survive a round trip.
func EscapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\`, "/")
	return jsonEscaper.Replace(s)
}

// EscapeCSV quotes s only when it contains a comma, quote or line break,
// doubling any embedded quotes.
func EscapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JoinCSV escapes each field and joins them with commas.
func JoinCSV(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeCSV(f)
	}
	return strings.Join(escaped, ",")
}

// SplitCSVLine splits one CSV record, honoring quotes and "" escapes.
// Line breaks inside quoted fields are kept, so the caller must pass the
// whole record.
func SplitCSVLine(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	return append(fields, field.String())
}

// CurrentTimestamp returns the local time as "YYYY-MM-DD HH:MM:SS".
func CurrentTimestamp() string {
	return time.Now().Format(timestampLayout)
}

// jsonDoc writes the export envelope: an object holding one named array
// whose elements are flat objects.
type jsonDoc struct {
	b     strings.Builder
	count int
}

func newJSONDoc(root string) *jsonDoc {
	d := &jsonDoc{}
	d.b.WriteString("{\n  \"")
	d.b.WriteString(root)
	d.b.WriteString("\": [\n")
	return d
}

// element appends one object. Fields are written in order.
func (d *jsonDoc) element(fields []jsonField) {
	if d.count > 0 {
		d.b.WriteString(",\n")
	}
	d.count++

	d.b.WriteString("    {\n")
	for i, f := range fields {
		d.b.WriteString("      \"")
		d.b.WriteString(f.key)
		d.b.WriteString("\": ")
		d.b.WriteString(f.raw)
		if i < len(fields)-1 {
			d.b.WriteByte(',')
		}
		d.b.WriteByte('\n')
	}
	d.b.WriteString("    }")
}

func (d *jsonDoc) String() string {
	if d.count > 0 {
		d.b.WriteByte('\n')
	}
	d.b.WriteString("  ]\n}")
	return d.b.String()
}

// jsonField is a key with an already-rendered JSON value.
type jsonField struct {
	key string
	raw string
}

func jsonString(key, v string) jsonField {
	return jsonField{key: key, raw: `"` + EscapeJSON(v) + `"`}
}

func jsonNumber(key string, v float64) jsonField {
	return jsonField{key: key, raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

func jsonInt(key string, v int) jsonField {
	return jsonField{key: key, raw: strconv.Itoa(v)}
}

func jsonBool(key string, v bool) jsonField {
	return jsonField{key: key, raw: strconv.FormatBool(v)}
}

// jsonStrings renders an inline array: ["a", "b"].
func jsonStrings(key string, vs []string) jsonField {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		b.WriteString(EscapeJSON(v))
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return jsonField{key: key, raw: b.String()}
}

// csvDoc accumulates a header line and one line per row, each newline
// terminated.
type csvDoc struct {
	b strings.Builder
}

func newCSVDoc(header []string) *csvDoc {
	d := &csvDoc{}
	d.b.WriteString(strings.Join(header, ","))
	d.b.WriteByte('\n')
	return d
}

// row writes fields escaped.
func (d *csvDoc) row(fields ...string) {
	d.b.WriteString(JoinCSV(fields...))
	d.b.WriteByte('\n')
}

func (d *csvDoc) String() string { return d.b.String() }

func joinList(items []string) string {
	return strings.Join(items, listSeparator)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
