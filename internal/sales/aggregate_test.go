package sales

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

func TestAggregateBySegment(t *testing.T) {
	rs := recordSet([]string{"Segment", "Sales"},
		[]string{"A", "$1.000,00"},
		[]string{"A", "$500,00"},
		[]string{"B", "$200,50"},
	)
	cleaned, err := CleanSalesColumn(rs)
	require.NoError(t, err)

	agg, err := AggregateBySegment(cleaned)
	require.NoError(t, err)

	want := &Aggregate{
		Available: true,
		Segments: []SegmentTotal{
			{Segment: "B", Revenue: 200.5, Rows: 1},
			{Segment: "A", Revenue: 1500, Rows: 2},
		},
	}
	if diff := cmp.Diff(want, agg); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1700.5, agg.Total())
	assert.Equal(t, 1500.0, agg.Max())

	v, ok := agg.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, 200.5, v)
	_, ok = agg.Lookup("C")
	assert.False(t, ok)
}

func TestAggregateBySegmentIdempotent(t *testing.T) {
	rs := recordSet([]string{"Segment", "Sales"},
		[]string{"Government", "$0,10"},
		[]string{"Government", "$0,20"},
		[]string{"Enterprise", "$0,30"},
		[]string{"Channel Partners", "$0,30"},
	)
	cleaned, err := CleanSalesColumn(rs)
	require.NoError(t, err)

	first, err := AggregateBySegment(cleaned)
	require.NoError(t, err)
	second, err := AggregateBySegment(cleaned)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("aggregation is not idempotent (-first +second):\n%s", diff)
	}

	// Decimal sums: 0.1 + 0.2 is exactly 0.3, so all three segments tie and
	// are ordered by label.
	require.Len(t, first.Segments, 3)
	assert.Equal(t, []string{"Channel Partners", "Enterprise", "Government"},
		[]string{first.Segments[0].Segment, first.Segments[1].Segment, first.Segments[2].Segment})
	assert.Equal(t, 0.3, first.Segments[2].Revenue)
}

func TestAggregateBySegmentUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
	}{
		{"missing segment", []string{"Country", "Sales"}},
		{"missing sales", []string{"Segment", "Country"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := recordSet(tt.headers, []string{"x", "$1,00"})

			agg, err := AggregateBySegment(rs)
			require.NoError(t, err)
			assert.False(t, agg.Available)
			assert.Empty(t, agg.Segments)
		})
	}
}

func TestAggregateBySegmentSkipsEmptySegment(t *testing.T) {
	rs := recordSet([]string{"Segment", "Sales"},
		[]string{"", "$5,00"},
		[]string{"A", "$1,00"},
	)
	cleaned, err := CleanSalesColumn(rs)
	require.NoError(t, err)

	agg, err := AggregateBySegment(cleaned)
	require.NoError(t, err)
	require.Len(t, agg.Segments, 1)
	assert.Equal(t, "A", agg.Segments[0].Segment)
}

func TestAggregateBySegmentUncleaned(t *testing.T) {
	rs := recordSet([]string{"Segment", "Sales"},
		[]string{"A", "$1,00"},
		[]string{"A", "oops"},
	)

	_, err := AggregateBySegment(rs)
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 1, convErr.Row)
}

func TestLoadHeadersOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Segment;Sales\n"), 0o644))

	rs, err := Load(path, DefaultDelimiter)
	require.NoError(t, err)
	assert.Zero(t, rs.Head(5).Len())

	cleaned, err := CleanSalesColumn(rs)
	require.NoError(t, err)
	agg, err := AggregateBySegment(cleaned)
	require.NoError(t, err)
	assert.True(t, agg.Available)
	assert.Empty(t, agg.Segments)
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	_, err := LoadWithOptions(filepath.Join(t.TempDir(), "missing.xlsx"), LoadOptions{})

	var loadErr *types.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Path, "missing.xlsx")
}
