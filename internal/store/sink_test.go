package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanobs/bog/internal/table"
)

func sampleTable() *table.Table {
	t := table.New("buoy_id", "time", "wave_height")
	t.Append(133, int64(1), 0.5)
	t.Append(133, int64(2), 0.625)
	return t
}

func TestFileSinkWritesTSV(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, '\t')

	path, err := sink.Save(context.Background(), "buoys_133", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "buoys_133.tsv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "buoy_id\ttime\twave_height\n133\t1\t0.5\n133\t2\t0.625\n", string(data))
}

func TestFileSinkWritesCSV(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, ',')

	path, err := sink.Save(context.Background(), "buoys_133", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "buoys_133.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "buoy_id,time,wave_height\n133,1,0.5\n133,2,0.625\n", string(data))
}

func TestFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "buoys")
	sink := NewFileSink(dir, 0) // zero comma falls back to tab

	path, err := sink.Save(context.Background(), "current_buoys_1700000000", sampleTable())
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, ".tsv", filepath.Ext(path))
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil is empty", nil, ""},
		{"string passes through", "operational", "operational"},
		{"int", 133, "133"},
		{"int64", int64(1700000000), "1700000000"},
		{"float drops trailing zeros", 0.50, "0.5"},
		{"whole float", 10.0, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(tt.in))
		})
	}
}
