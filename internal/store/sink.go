// Package store persists finished result tables. Persistence is a
// collaborator of the retrieval pipeline, not part of it: the pipeline hands
// a named table to a Sink and does not care where it lands.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oceanobs/bog/internal/table"
)

// Sink writes one artifact. Save returns the location the artifact landed
// at (a file path, a database key).
type Sink interface {
	Save(ctx context.Context, name string, t *table.Table) (string, error)
}

// FileSink writes delimiter-separated files into a directory. A tab comma
// produces .tsv artifacts, anything else .csv.
type FileSink struct {
	dir   string
	comma rune
}

// NewFileSink returns a sink writing into dir, creating it on first save.
func NewFileSink(dir string, comma rune) *FileSink {
	if comma == 0 {
		comma = '\t'
	}
	return &FileSink{dir: dir, comma: comma}
}

func (s *FileSink) Save(_ context.Context, name string, t *table.Table) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	ext := ".csv"
	if s.comma == '\t' {
		ext = ".tsv"
	}
	path := filepath.Join(s.dir, name+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = s.comma

	if err := w.Write(t.Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			if i < len(row) {
				record[i] = formatCell(row[i])
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush artifact: %w", err)
	}
	return path, nil
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Compile-time interface implementation check
var _ Sink = (*FileSink)(nil)
