package frame

import (
	"math"
	"slices"
	"strconv"
)

// stringHeaderSize is the in-memory size of a Go string header.
const stringHeaderSize = 16

// Column is a named, single-typed sequence of values.
//
// Integer columns cannot hold nulls. Float columns use NaN as the null marker.
// String and Bool columns carry a validity mask; a nil mask means every value
// is present.
type Column struct {
	name  string
	dtype DType
	data  any
	valid []bool
}

// NewInts creates an integer column. The dtype follows the element width.
func NewInts[T int8 | int16 | int32 | int64](name string, values []T) *Column {
	return &Column{name: name, dtype: dtypeOf(values), data: values}
}

// NewFloats creates a floating point column. NaN values are nulls.
func NewFloats[T float32 | float64](name string, values []T) *Column {
	return &Column{name: name, dtype: dtypeOf(values), data: values}
}

// NewStrings creates a string column. valid may be nil when no value is null.
func NewStrings(name string, values []string, valid []bool) *Column {
	return &Column{name: name, dtype: String, data: values, valid: normalizeMask(valid)}
}

// NewBools creates a boolean column. valid may be nil when no value is null.
func NewBools(name string, values []bool, valid []bool) *Column {
	return &Column{name: name, dtype: Bool, data: values, valid: normalizeMask(valid)}
}

// normalizeMask drops an all-true mask so "no nulls" has one representation.
func normalizeMask(valid []bool) []bool {
	for _, ok := range valid {
		if !ok {
			return valid
		}
	}
	return nil
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// DType returns the element type.
func (c *Column) DType() DType { return c.dtype }

// Kind returns the type tag of the element type.
func (c *Column) Kind() Kind { return c.dtype.Kind() }

// Data returns the backing slice ([]int8 … []bool). Callers must not modify it.
func (c *Column) Data() any { return c.data }

// Len returns the number of values.
func (c *Column) Len() int {
	switch d := c.data.(type) {
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []string:
		return len(d)
	case []bool:
		return len(d)
	}
	return 0
}

// Int returns the i-th value of an integer column widened to int64.
func (c *Column) Int(i int) int64 {
	switch d := c.data.(type) {
	case []int8:
		return int64(d[i])
	case []int16:
		return int64(d[i])
	case []int32:
		return int64(d[i])
	case []int64:
		return d[i]
	}
	panic("frame: Int called on " + c.dtype.String() + " column " + strconv.Quote(c.name))
}

// Float returns the i-th value of a numeric column as float64.
func (c *Column) Float(i int) float64 {
	switch d := c.data.(type) {
	case []float32:
		return float64(d[i])
	case []float64:
		return d[i]
	case []int8, []int16, []int32, []int64:
		return float64(c.Int(i))
	}
	panic("frame: Float called on " + c.dtype.String() + " column " + strconv.Quote(c.name))
}

// Str returns the i-th value of a string column. Null values return "".
func (c *Column) Str(i int) string {
	d, ok := c.data.([]string)
	if !ok {
		panic("frame: Str called on " + c.dtype.String() + " column " + strconv.Quote(c.name))
	}
	if c.IsNull(i) {
		return ""
	}
	return d[i]
}

// IsNull reports whether the i-th value is missing.
func (c *Column) IsNull(i int) bool {
	switch d := c.data.(type) {
	case []float32:
		return d[i] != d[i]
	case []float64:
		return math.IsNaN(d[i])
	case []string, []bool:
		return c.valid != nil && !c.valid[i]
	}
	return false
}

// NullCount returns the number of missing values.
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Value returns the i-th value in its native Go type, or nil when missing.
func (c *Column) Value(i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch d := c.data.(type) {
	case []int8:
		return d[i]
	case []int16:
		return d[i]
	case []int32:
		return d[i]
	case []int64:
		return d[i]
	case []float32:
		return d[i]
	case []float64:
		return d[i]
	case []string:
		return d[i]
	case []bool:
		return d[i]
	}
	return nil
}

// Format renders the i-th value for reports.
func (c *Column) Format(i int) string {
	if c.IsNull(i) {
		return "NaN"
	}
	switch d := c.data.(type) {
	case []float32:
		return strconv.FormatFloat(float64(d[i]), 'g', 6, 32)
	case []float64:
		return strconv.FormatFloat(d[i], 'g', 6, 64)
	case []string:
		return d[i]
	case []bool:
		if d[i] {
			return "True"
		}
		return "False"
	}
	return strconv.FormatInt(c.Int(i), 10)
}

// Ints returns a widened copy of an integer column.
func (c *Column) Ints() []int64 {
	out := make([]int64, c.Len())
	for i := range out {
		out[i] = c.Int(i)
	}
	return out
}

// Floats returns the values of a numeric column as float64.
func (c *Column) Floats() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.Float(i)
	}
	return out
}

// Valid returns a copy of the validity mask, or nil when nothing is missing.
func (c *Column) Valid() []bool {
	return slices.Clone(c.valid)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	return &Column{
		name:  c.name,
		dtype: c.dtype,
		data:  cloneData(c.data),
		valid: slices.Clone(c.valid),
	}
}

// Rename returns a deep copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	out := c.Clone()
	out.name = name
	return out
}

// Slice returns a copy of rows [start, end).
func (c *Column) Slice(start, end int) *Column {
	out := &Column{name: c.name, dtype: c.dtype, data: sliceData(c.data, start, end)}
	if c.valid != nil {
		out.valid = normalizeMask(slices.Clone(c.valid[start:end]))
	}
	return out
}

// MemoryUsage returns the deep memory footprint of the column in bytes.
// String payloads are counted in full.
func (c *Column) MemoryUsage() int64 {
	n := int64(c.Len()) * int64(c.dtype.Size())
	if d, ok := c.data.([]string); ok {
		for _, s := range d {
			n += int64(len(s))
		}
	}
	return n + int64(len(c.valid))
}

// Equal reports whether two columns have the same name, dtype and values.
// Nulls compare equal to nulls.
func (c *Column) Equal(o *Column) bool {
	if c.name != o.name || c.dtype != o.dtype || c.Len() != o.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) != o.IsNull(i) {
			return false
		}
		if !c.IsNull(i) && c.Value(i) != o.Value(i) {
			return false
		}
	}
	return true
}

func cloneData(data any) any {
	switch d := data.(type) {
	case []int8:
		return slices.Clone(d)
	case []int16:
		return slices.Clone(d)
	case []int32:
		return slices.Clone(d)
	case []int64:
		return slices.Clone(d)
	case []float32:
		return slices.Clone(d)
	case []float64:
		return slices.Clone(d)
	case []string:
		return slices.Clone(d)
	case []bool:
		return slices.Clone(d)
	}
	return data
}

func sliceData(data any, start, end int) any {
	switch d := data.(type) {
	case []int8:
		return slices.Clone(d[start:end])
	case []int16:
		return slices.Clone(d[start:end])
	case []int32:
		return slices.Clone(d[start:end])
	case []int64:
		return slices.Clone(d[start:end])
	case []float32:
		return slices.Clone(d[start:end])
	case []float64:
		return slices.Clone(d[start:end])
	case []string:
		return slices.Clone(d[start:end])
	case []bool:
		return slices.Clone(d[start:end])
	}
	return data
}

// appendColumn concatenates b onto a. Both must share the dtype.
func appendColumn(a, b *Column) *Column {
	out := &Column{name: a.name, dtype: a.dtype}
	switch d := a.data.(type) {
	case []int8:
		out.data = slices.Concat(d, b.data.([]int8))
	case []int16:
		out.data = slices.Concat(d, b.data.([]int16))
	case []int32:
		out.data = slices.Concat(d, b.data.([]int32))
	case []int64:
		out.data = slices.Concat(d, b.data.([]int64))
	case []float32:
		out.data = slices.Concat(d, b.data.([]float32))
	case []float64:
		out.data = slices.Concat(d, b.data.([]float64))
	case []string:
		out.data = slices.Concat(d, b.data.([]string))
	case []bool:
		out.data = slices.Concat(d, b.data.([]bool))
	}
	if a.valid != nil || b.valid != nil {
		out.valid = normalizeMask(slices.Concat(maskOrTrue(a), maskOrTrue(b)))
	}
	return out
}

func maskOrTrue(c *Column) []bool {
	if c.valid != nil {
		return c.valid
	}
	m := make([]bool, c.Len())
	for i := range m {
		m[i] = true
	}
	return m
}
