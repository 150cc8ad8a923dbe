package fileloader

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// arrowColumns accumulates Arrow arrays into per-column value lists. Column
// dtypes come from the Arrow schema, not from the values, so batches or parts
// with different null patterns end up with the same frame dtypes.
type arrowColumns struct {
	schema *arrow.Schema
	values [][]any
}

func newArrowColumns(schema *arrow.Schema) *arrowColumns {
	return &arrowColumns{
		schema: schema,
		values: make([][]any, schema.NumFields()),
	}
}

// compatible reports whether schema has the same field names and types as
// the first schema seen. Metadata is ignored.
func (ac *arrowColumns) compatible(schema *arrow.Schema) error {
	if schema.NumFields() != ac.schema.NumFields() {
		return fmt.Errorf("schema has %d fields, expected %d", schema.NumFields(), ac.schema.NumFields())
	}
	for i, f := range schema.Fields() {
		want := ac.schema.Field(i)
		if f.Name != want.Name || !arrow.TypeEqual(f.Type, want.Type) {
			return fmt.Errorf("field %d is %s: %s, expected %s: %s", i, f.Name, f.Type, want.Name, want.Type)
		}
	}
	return nil
}

func (ac *arrowColumns) appendArray(j int, arr arrow.Array) {
	for i := 0; i < arr.Len(); i++ {
		ac.values[j] = append(ac.values[j], arrowValue(arr, i))
	}
}

func (ac *arrowColumns) appendRecord(rec arrow.Record) {
	for j := range ac.values {
		ac.appendArray(j, rec.Column(j))
	}
}

func (ac *arrowColumns) appendTable(tbl arrow.Table) {
	for j := range ac.values {
		for _, chunk := range tbl.Column(j).Data().Chunks() {
			ac.appendArray(j, chunk)
		}
	}
}

func (ac *arrowColumns) frame() (*frame.Frame, error) {
	fields := ac.schema.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	names = NormalizeHeaders(names)

	cols := make([]*frame.Column, len(fields))
	for j, f := range fields {
		cols[j] = arrowColumn(names[j], f.Type, ac.values[j])
	}
	return frame.New(cols...)
}

// arrowColumn builds a frame column of the dtype matching an Arrow type.
// Integer columns holding nulls become float64 with NaN; unsigned types widen
// to the next signed width. Types without a counterpart become strings.
func arrowColumn(name string, dt arrow.DataType, values []any) *frame.Column {
	if dict, ok := dt.(*arrow.DictionaryType); ok {
		dt = dict.ValueType
	}
	switch dt.ID() {
	case arrow.INT8:
		return arrowInts(name, values, frame.Int8)
	case arrow.INT16, arrow.UINT8:
		return arrowInts(name, values, frame.Int16)
	case arrow.INT32, arrow.UINT16:
		return arrowInts(name, values, frame.Int32)
	case arrow.INT64, arrow.UINT32:
		return arrowInts(name, values, frame.Int64)
	case arrow.UINT64:
		for _, v := range values {
			if u, ok := v.(uint64); ok && u > math.MaxInt64 {
				return frame.NewFloats(name, arrowFloats[float64](values))
			}
		}
		return arrowInts(name, values, frame.Int64)
	case arrow.FLOAT32:
		return frame.NewFloats(name, arrowFloats[float32](values))
	case arrow.FLOAT64:
		return frame.NewFloats(name, arrowFloats[float64](values))
	case arrow.BOOL:
		out := make([]bool, len(values))
		valid := make([]bool, len(values))
		for i, v := range values {
			out[i], valid[i] = v.(bool)
		}
		return frame.NewBools(name, out, valid)
	}

	out := make([]string, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		valid[i] = true
		if s, ok := v.(string); ok {
			out[i] = s
		} else {
			out[i] = fmt.Sprint(v)
		}
	}
	return frame.NewStrings(name, out, valid)
}

func arrowInts(name string, values []any, dtype frame.DType) *frame.Column {
	out := make([]int64, len(values))
	for i, v := range values {
		n, ok := arrowInt(v)
		if !ok {
			return frame.NewFloats(name, arrowFloats[float64](values))
		}
		out[i] = n
	}
	return frame.IntsAs(name, out, dtype)
}

func arrowInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

// arrowFloats converts numeric values to T, with NaN for nulls.
func arrowFloats[T float32 | float64](values []any) []T {
	out := make([]T, len(values))
	for i, v := range values {
		switch n := v.(type) {
		case float32:
			out[i] = T(n)
		case float64:
			out[i] = T(n)
		case uint64:
			out[i] = T(n)
		default:
			if iv, ok := arrowInt(v); ok {
				out[i] = T(iv)
			} else {
				out[i] = T(math.NaN())
			}
		}
	}
	return out
}

// arrowValue returns element i of arr as a Go value, or nil when it is null.
// Types without a native counterpart are rendered as text.
func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int8:
		return a.Value(i)
	case *array.Int16:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return a.Value(i)
	case *array.Uint16:
		return a.Value(i)
	case *array.Uint32:
		return a.Value(i)
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Dictionary:
		return arrowValue(a.Dictionary(), a.GetValueIndex(i))
	}
	return arr.ValueStr(i)
}
