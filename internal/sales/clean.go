// =============================================================================
// Financial Dashboard - Sales Cleaning
// =============================================================================
//
// The sales column of the financial sample is exported as localized currency
// text: "." separates thousands, "," separates decimals and values may carry
// a leading "$". Cleaning turns it into float64 values.
//
// CLEANING STEPS (applied in order to every value):
//   1. trim surrounding whitespace
//   2. remove the leading currency symbol (after an optional minus sign)
//   3. remove "." (thousands separator)
//   4. replace "," with "." (decimal separator)
//   5. parse as float64; the result must be finite
//
// A single value that fails to parse fails the whole column: partial numeric
// data is unusable for the revenue chart.
//
// =============================================================================

package sales

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// Column names the preparer works with.
const (
	SalesColumn   = "Sales"
	SegmentColumn = "Segment"
)

// CurrencySymbol is removed from the front of sales values.
const CurrencySymbol = "$"

// =============================================================================
// ERRORS
// =============================================================================

// ConversionError reports a sales value that could not be parsed as a number.
type ConversionError struct {
	// Column is the column being converted.
	Column string

	// Row is the zero-based data row index of the offending value.
	Row int

	// Value is the offending value as found in the input.
	Value string

	// Err is the underlying parse error.
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("could not convert %q (column %s, row %d) to float: %v", e.Value, e.Column, e.Row+1, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// errNotFinite is returned for values that parse to NaN or an infinity.
var errNotFinite = errors.New("value is not a finite number")

// =============================================================================
// NORMALIZATION STEPS
// =============================================================================

// normalizeStep is one text transformation of the cleaning chain.
type normalizeStep func(string) string

// salesSteps is the cleaning chain applied before parsing.
var salesSteps = []normalizeStep{
	strings.TrimSpace,
	stripCurrencySymbol,
	func(s string) string { return strings.ReplaceAll(s, ".", "") },
	func(s string) string { return strings.ReplaceAll(s, ",", ".") },
}

// stripCurrencySymbol removes a leading "$", keeping a leading minus sign.
func stripCurrencySymbol(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	s = strings.TrimPrefix(s, CurrencySymbol)
	return sign + strings.TrimSpace(s)
}

// NormalizeCurrency applies the cleaning chain to a value without parsing it.
//
// Example: " $1.234,56 " becomes "1234.56".
func NormalizeCurrency(value string) string {
	for _, step := range salesSteps {
		value = step(value)
	}
	return value
}

// ParseCurrency normalizes a localized currency value and parses it.
//
// Example: "$1.234,56" returns 1234.56.
func ParseCurrency(value string) (float64, error) {
	normalized := NormalizeCurrency(value)
	if hasBasePrefix(normalized) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: normalized, Err: strconv.ErrSyntax}
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// hasBasePrefix reports whether s is written in Go's hexadecimal float
// syntax, which localized amounts never use.
func hasBasePrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// =============================================================================
// COLUMN CLEANING
// =============================================================================

// CleanSalesColumn returns a copy of the record set with the "Sales" column
// converted to numeric fields.
//
// RETURNS:
//   - The input unchanged when there is no "Sales" column.
//   - A new record set with every Sales field numeric.
//   - A *ConversionError for the first value that cannot be parsed. No record
//     set is returned in that case.
//
// Fields that are already numeric (for example numbers read from a workbook)
// are kept as they are.
func CleanSalesColumn(rs *types.RecordSet) (*types.RecordSet, error) {
	if !rs.HasColumn(SalesColumn) {
		return rs, nil
	}

	cleaned := rs.Clone()
	for i, row := range cleaned.Rows {
		field := row[SalesColumn]
		if field.Numeric {
			if math.IsNaN(field.Number) || math.IsInf(field.Number, 0) {
				return nil, &ConversionError{Column: SalesColumn, Row: i, Value: field.Text, Err: errNotFinite}
			}
			continue
		}

		v, err := ParseCurrency(field.Text)
		if err != nil {
			return nil, &ConversionError{Column: SalesColumn, Row: i, Value: field.Text, Err: err}
		}
		row[SalesColumn] = types.NumberField(field.Text, v)
	}

	return cleaned, nil
}
