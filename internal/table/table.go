// Package table holds the in-memory tabular results assembled from buoy
// series. Tables are plain column-ordered row sets; the alignment and
// concatenation here are pure transforms with no session or network state.
package table

import (
	"sort"

	"github.com/oceanobs/bog/internal/models"
)

// Table is an ordered result set: named columns and rows in insertion order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds one row. Short rows are padded with nil so every row spans all
// columns.
func (t *Table) Append(row ...any) {
	for len(row) < len(t.Columns) {
		row = append(row, nil)
	}
	t.Rows = append(t.Rows, row)
}

// NumRows reports the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// Rename replaces a column name in place. Unknown names are ignored.
func (t *Table) Rename(old, new string) {
	for i, name := range t.Columns {
		if name == old {
			t.Columns[i] = new
			return
		}
	}
}

// PrependColumn inserts a constant-valued column at position zero.
func (t *Table) PrependColumn(name string, value any) {
	t.Columns = append([]string{name}, t.Columns...)
	for i, row := range t.Rows {
		t.Rows[i] = append([]any{value}, row...)
	}
}

// Column returns the index of a column, or -1.
func (t *Table) Column(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// AlignSeries inner-joins independently sampled variable series on their
// timestamps: only timestamps present in every series survive, so no
// requested-variable column in the result has a missing value. Zero overlap
// yields an empty table, which is allowed. Columns are "time" followed by
// the given variable order; rows are ordered by ascending time.
func AlignSeries(series map[string][]models.SeriesPoint, order []string) *Table {
	t := New(append([]string{"time"}, order...)...)
	if len(order) == 0 {
		return t
	}

	byTime := make([]map[int64]float64, len(order))
	for i, name := range order {
		points := series[name]
		byTime[i] = make(map[int64]float64, len(points))
		for _, p := range points {
			byTime[i][p.Time] = p.Value
		}
	}

	var times []int64
	for ts := range byTime[0] {
		shared := true
		for _, m := range byTime[1:] {
			if _, ok := m[ts]; !ok {
				shared = false
				break
			}
		}
		if shared {
			times = append(times, ts)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	for _, ts := range times {
		row := make([]any, 0, len(order)+1)
		row = append(row, ts)
		for _, m := range byTime {
			row = append(row, m[ts])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Concat appends tables in the given order with a fresh row index. Columns
// are unioned in first-seen order; cells absent from a source table are nil.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, src := range tables {
		for _, col := range src.Columns {
			if out.Column(col) < 0 {
				out.Columns = append(out.Columns, col)
			}
		}
	}

	for _, src := range tables {
		idx := make([]int, len(out.Columns))
		for i, col := range out.Columns {
			idx[i] = src.Column(col)
		}
		for _, row := range src.Rows {
			merged := make([]any, len(out.Columns))
			for i, j := range idx {
				if j >= 0 && j < len(row) {
					merged[i] = row[j]
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
