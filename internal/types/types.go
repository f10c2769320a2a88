// =============================================================================
// Financial Dashboard - Shared Types
// =============================================================================
//
// This package contains the record set types shared by the loaders
// (csvparser, xlsxparser), the sales preparation steps and the presentation
// layers (dashboard, xlsxwriter). Keeping them here avoids import cycles
// between the loaders and the sales package.
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
)

// =============================================================================
// FIELD
// =============================================================================

// Field is a single cell of a record set.
// A field is either text (as read from the input file) or numeric (after a
// cleaning step parsed it).
type Field struct {
	// Text is the raw value as it appeared in the input file.
	Text string

	// Number is the parsed value. Only meaningful when Numeric is true.
	Number float64

	// Numeric reports whether Number holds the value of this field.
	Numeric bool
}

// TextField builds a text field.
func TextField(s string) Field {
	return Field{Text: s}
}

// NumberField builds a numeric field, keeping the original text for reference.
func NumberField(raw string, v float64) Field {
	return Field{Text: raw, Number: v, Numeric: true}
}

// String returns the display value of the field.
func (f Field) String() string {
	if f.Numeric {
		return strconv.FormatFloat(f.Number, 'f', -1, 64)
	}
	return f.Text
}

// =============================================================================
// RECORD SET
// =============================================================================

// Row maps a column name to its field.
type Row map[string]Field

// RecordSet is the in-memory table loaded from the input file.
//
// Headers keeps the column order of the source file. Column names are trimmed
// and unique.
type RecordSet struct {
	// Headers contains the column names in file order.
	Headers []string

	// Rows contains the data rows in file order.
	Rows []Row

	// SourceFile is the path the record set was loaded from.
	SourceFile string

	// SkippedLines counts malformed input lines dropped during load.
	SkippedLines int
}

// HasColumn reports whether the record set has a column with the given name.
func (rs *RecordSet) HasColumn(name string) bool {
	for _, h := range rs.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (rs *RecordSet) Len() int {
	return len(rs.Rows)
}

// Head returns a new record set holding the first n rows.
// A negative n is treated as zero.
func (rs *RecordSet) Head(n int) *RecordSet {
	if n < 0 {
		n = 0
	}
	if n > len(rs.Rows) {
		n = len(rs.Rows)
	}
	head := rs.shallowCopy()
	head.Rows = make([]Row, n)
	for i := 0; i < n; i++ {
		head.Rows[i] = rs.Rows[i].Clone()
	}
	return head
}

// Clone returns a deep copy of the record set.
func (rs *RecordSet) Clone() *RecordSet {
	c := rs.shallowCopy()
	c.Rows = make([]Row, len(rs.Rows))
	for i, row := range rs.Rows {
		c.Rows[i] = row.Clone()
	}
	return c
}

func (rs *RecordSet) shallowCopy() *RecordSet {
	headers := make([]string, len(rs.Headers))
	copy(headers, rs.Headers)
	return &RecordSet{
		Headers:      headers,
		SourceFile:   rs.SourceFile,
		SkippedLines: rs.SkippedLines,
	}
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Values returns the display values of the row in header order.
func (r Row) Values(headers []string) []string {
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = r[h].String()
	}
	return values
}

// =============================================================================
// ERRORS
// =============================================================================

// LoadError is returned when the input file cannot be loaded at all: it is
// missing, unreadable, or has no header line.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
