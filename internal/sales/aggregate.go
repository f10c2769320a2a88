package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// SegmentTotal is the summed sales value of one segment.
type SegmentTotal struct {
	Segment string  `json:"segment"`
	Revenue float64 `json:"revenue"`
	Rows    int     `json:"rows"`
}

// Aggregate is the revenue per segment, ordered by ascending revenue.
//
// Available is false when the record set lacks the "Segment" or the "Sales"
// column; Segments is empty in that case and callers show a warning instead
// of a chart.
type Aggregate struct {
	Available bool           `json:"available"`
	Segments  []SegmentTotal `json:"segments"`
}

// Unavailable is the aggregate returned when a required column is missing.
func Unavailable() *Aggregate {
	return &Aggregate{Available: false, Segments: []SegmentTotal{}}
}

// Total returns the revenue summed over every segment.
func (a *Aggregate) Total() float64 {
	total := decimal.Zero
	for _, s := range a.Segments {
		total = total.Add(decimal.NewFromFloat(s.Revenue))
	}
	f, _ := total.Float64()
	return f
}

// Max returns the largest segment revenue, or zero for an empty aggregate.
func (a *Aggregate) Max() float64 {
	if len(a.Segments) == 0 {
		return 0
	}
	// Segments are sorted ascending.
	return a.Segments[len(a.Segments)-1].Revenue
}

// Lookup returns the total of a segment.
func (a *Aggregate) Lookup(segment string) (float64, bool) {
	for _, s := range a.Segments {
		if s.Segment == segment {
			return s.Revenue, true
		}
	}
	return 0, false
}

// AggregateBySegment sums the sales of every segment.
//
// GROUPING LOGIC:
//   Rows are grouped by exact string equality of the "Segment" field. Rows
//   with an empty segment are left out. Sums are accumulated as decimals and
//   the groups are ordered by ascending revenue, ties by segment label.
//
// RETURNS:
//   - Unavailable() when "Segment" or "Sales" is missing.
//   - A *ConversionError if a Sales field is still text and cannot be parsed
//     (the record set was not cleaned first).
func AggregateBySegment(rs *types.RecordSet) (*Aggregate, error) {
	if !rs.HasColumn(SegmentColumn) || !rs.HasColumn(SalesColumn) {
		return Unavailable(), nil
	}

	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int)

	for i, row := range rs.Rows {
		segment := row[SegmentColumn].Text
		if segment == "" {
			continue
		}

		v, err := salesValue(row[SalesColumn], i)
		if err != nil {
			return nil, err
		}

		sums[segment] = sums[segment].Add(decimal.NewFromFloat(v))
		counts[segment]++
	}

	segments := make([]SegmentTotal, 0, len(sums))
	for segment, sum := range sums {
		revenue, _ := sum.Float64()
		segments = append(segments, SegmentTotal{
			Segment: segment,
			Revenue: revenue,
			Rows:    counts[segment],
		})
	}

	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Revenue != segments[j].Revenue {
			return segments[i].Revenue < segments[j].Revenue
		}
		return segments[i].Segment < segments[j].Segment
	})

	return &Aggregate{Available: true, Segments: segments}, nil
}

// salesValue returns the numeric value of a sales field.
func salesValue(field types.Field, row int) (float64, error) {
	if field.Numeric {
		return field.Number, nil
	}
	v, err := ParseCurrency(field.Text)
	if err != nil {
		return 0, &ConversionError{Column: SalesColumn, Row: row, Value: field.Text, Err: err}
	}
	return v, nil
}
