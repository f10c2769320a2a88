package csvparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

func TestRead(t *testing.T) {
	input := " Segment ;Country; Sales \n" +
		"Government;Canada;$1.500,00\n" +
		"Midmarket;France;$200,50\n"

	rs, err := Read(strings.NewReader(input), ";")
	require.NoError(t, err)

	assert.Equal(t, []string{"Segment", "Country", "Sales"}, rs.Headers)
	want := []types.Row{
		{"Segment": types.TextField("Government"), "Country": types.TextField("Canada"), "Sales": types.TextField("$1.500,00")},
		{"Segment": types.TextField("Midmarket"), "Country": types.TextField("France"), "Sales": types.TextField("$200,50")},
	}
	if diff := cmp.Diff(want, rs.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, rs.SkippedLines)
}

func TestReadMalformedLines(t *testing.T) {
	input := "Segment;Country;Sales\n" +
		"Government;Canada;$1,00\n" +
		"Midmarket;France;$2,00;extra\n" +
		"\n" +
		";;\n" +
		"Enterprise;Mexico\n" +
		"Channel Partners;Germany;$3,00\n"

	rs, err := Read(strings.NewReader(input), ";")
	require.NoError(t, err)

	require.Equal(t, 2, rs.Len())
	assert.Equal(t, "Government", rs.Rows[0]["Segment"].Text)
	assert.Equal(t, "Channel Partners", rs.Rows[1]["Segment"].Text)
	// Long, all-delimiter and short lines; the blank line is not counted.
	assert.Equal(t, 3, rs.SkippedLines)
}

func TestReadHeadersOnly(t *testing.T) {
	rs, err := Read(strings.NewReader("Segment;Sales\n"), ";")
	require.NoError(t, err)
	assert.Equal(t, []string{"Segment", "Sales"}, rs.Headers)
	assert.Zero(t, rs.Len())
	assert.NotNil(t, rs.Rows)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader("\n\n"), ";")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header line")
}

func TestReadDelimiters(t *testing.T) {
	tests := []struct {
		delimiter string
		input     string
	}{
		{"comma", "A,B\n1,2\n"},
		{",", "A,B\n1,2\n"},
		{"tab", "A\tB\n1\t2\n"},
		{"pipe", "A|B\n1|2\n"},
		{"", "A;B\n1;2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.delimiter, func(t *testing.T) {
			rs, err := Read(strings.NewReader(tt.input), tt.delimiter)
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B"}, rs.Headers)
			require.Equal(t, 1, rs.Len())
			assert.Equal(t, "2", rs.Rows[0]["B"].Text)
		})
	}
}

func TestCleanHeaders(t *testing.T) {
	got := CleanHeaders([]string{"\ufeffSegment", " Sales ", "", "Sales", "Sales.1", "Sales"})
	want := []string{"Segment", "Sales", "Unnamed: 2", "Sales.1", "Sales.1.1", "Sales.2"}
	assert.Equal(t, want, got)
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte("Segment;Sales\nGovernment;$1,00\n"), 0o644))

	rs, err := Parse(path, ";")
	require.NoError(t, err)
	assert.Equal(t, path, rs.SourceFile)
	assert.Equal(t, 1, rs.Len())
}

func TestParseMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Parse(path, ";")

	var loadErr *types.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
