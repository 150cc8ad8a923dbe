package frame

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrColumnNotFound is returned when a named column is not part of the frame.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrLengthMismatch is returned when columns are not row-aligned.
	ErrLengthMismatch = errors.New("column length mismatch")
)

// Frame is an ordered set of uniquely named, row-aligned columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a frame from columns. Columns are used as-is, not copied.
func New(columns ...*Column) (*Frame, error) {
	f := &Frame{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, exists := f.index[col.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name())
		}
		if i == 0 {
			f.rows = col.Len()
		} else if col.Len() != f.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, col.Name(), col.Len(), f.rows)
		}
		f.index[col.Name()] = len(f.columns)
		f.columns = append(f.columns, col)
	}
	return f, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns ...*Column) *Frame {
	f, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.columns) }

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) { return f.rows, len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name()
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (f *Frame) Columns() []*Column {
	return slices.Clone(f.columns)
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// ColumnAt returns the i-th column.
func (f *Frame) ColumnAt(i int) *Column { return f.columns[i] }

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// ColumnsOfKind returns the names of all columns whose dtype belongs to kind,
// in column order.
func (f *Frame) ColumnsOfKind(kind Kind) []string {
	var names []string
	for _, col := range f.columns {
		if col.Kind() == kind {
			names = append(names, col.Name())
		}
	}
	return names
}

// Replace swaps the column with the same name for col, in place.
func (f *Frame) Replace(col *Column) error {
	i, ok := f.index[col.Name()]
	if !ok {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, col.Name())
	}
	if col.Len() != f.rows {
		return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, col.Name(), col.Len(), f.rows)
	}
	f.columns[i] = col
	return nil
}

// Drop returns a new frame without the named columns. Every name must exist.
// The remaining columns are shared with f.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	skip := make(map[string]bool, len(names))
	for _, name := range names {
		if !f.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		skip[name] = true
	}
	kept := make([]*Column, 0, len(f.columns))
	for _, col := range f.columns {
		if !skip[col.Name()] {
			kept = append(kept, col)
		}
	}
	return f.withColumns(kept), nil
}

// Select returns a new frame with the named columns in the given order.
// The columns are shared with f.
func (f *Frame) Select(names ...string) (*Frame, error) {
	picked := make([]*Column, 0, len(names))
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		picked = append(picked, col)
	}
	return New(picked...)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	cols := make([]*Column, len(f.columns))
	for i, col := range f.columns {
		cols[i] = col.Clone()
	}
	return f.withColumns(cols)
}

// Head returns a copy of the first n rows.
func (f *Frame) Head(n int) *Frame {
	return f.rowSlice(0, min(max(n, 0), f.rows))
}

// Tail returns a copy of the last n rows.
func (f *Frame) Tail(n int) *Frame {
	n = min(max(n, 0), f.rows)
	return f.rowSlice(f.rows-n, f.rows)
}

func (f *Frame) rowSlice(start, end int) *Frame {
	cols := make([]*Column, len(f.columns))
	for i, col := range f.columns {
		cols[i] = col.Slice(start, end)
	}
	out := f.withColumns(cols)
	out.rows = end - start
	return out
}

// MemoryUsage returns the deep memory footprint of all columns in bytes.
func (f *Frame) MemoryUsage() int64 {
	var n int64
	for _, col := range f.columns {
		n += col.MemoryUsage()
	}
	return n
}

// withColumns builds a frame from columns already known to be valid.
func (f *Frame) withColumns(cols []*Column) *Frame {
	out := &Frame{columns: cols, index: make(map[string]int, len(cols)), rows: f.rows}
	for i, col := range cols {
		out.index[col.Name()] = i
	}
	return out
}

// Concat appends the rows of frames to one another. All frames must have the
// same column names and dtypes in the same order.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return New()
	}
	cols := frames[0].Clone().columns
	for _, next := range frames[1:] {
		if !slices.Equal(next.Names(), frames[0].Names()) {
			return nil, fmt.Errorf("concat: column names differ: %v vs %v", frames[0].Names(), next.Names())
		}
		for i, col := range next.columns {
			if col.DType() != cols[i].DType() {
				return nil, fmt.Errorf("concat: column %q has dtype %s, expected %s", col.Name(), col.DType(), cols[i].DType())
			}
			cols[i] = appendColumn(cols[i], col)
		}
	}
	return New(cols...)
}
