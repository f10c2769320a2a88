package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		ext    string
		params map[string]string
		want   string
	}{
		{"timestamp", "receita_{timestamp}.xlsx", ".xlsx", nil, "receita_20240115_103045.xlsx"},
		{"date and time", "receita_{date}_{time}", ".xlsx", nil, "receita_20240115_103045.xlsx"},
		{"params", "receita_{source}.xlsx", ".xlsx", map[string]string{"source": "ms-financial-sample"}, "receita_ms-financial-sample.xlsx"},
		{"extension case", "REPORT.XLSX", ".xlsx", nil, "REPORT.XLSX"},
		{"path separators", "{source}.xlsx", ".xlsx", map[string]string{"source": "../../etc/passwd"}, "passwd.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, tt.ext, now, tt.params))
		})
	}
}

func TestGenerateOutputFileNameUUID(t *testing.T) {
	name := GenerateOutputFileName("export_{uuid}", ".xlsx", time.Now(), nil)
	assert.Regexp(t, regexp.MustCompile(`^export_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.xlsx$`), name)

	other := GenerateOutputFileName("export_{uuid}", ".xlsx", time.Now(), nil)
	assert.NotEqual(t, name, other)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	assert.DirExists(t, dir)
	require.NoError(t, EnsureDir(dir))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, EnsureDir(filepath.Join(file, "sub")))
}

func TestFileExists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	assert.False(t, FileExists(file))
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.True(t, FileExists(file))
}
