package frame

import (
	"math"
)

// float32Tolerance is the absolute difference allowed when narrowing a
// float64 value to float32 (about seven significant digits).
const float32Tolerance = 5e-4

// DowncastInteger returns col narrowed to the smallest signed integer width
// (int8, int16, int32, int64) that holds its observed minimum and maximum.
// Empty columns narrow to int8. Non-integer columns are returned unchanged.
func DowncastInteger(col *Column) *Column {
	if col.Kind() != KindInteger {
		return col
	}
	lo, hi := int64(0), int64(0)
	for i := 0; i < col.Len(); i++ {
		v := col.Int(i)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	target := SmallestIntType(lo, hi)
	if target == col.DType() {
		return col
	}
	return convertInts(col, target)
}

// SmallestIntType returns the narrowest signed integer dtype covering [lo, hi].
func SmallestIntType(lo, hi int64) DType {
	switch {
	case lo >= math.MinInt8 && hi <= math.MaxInt8:
		return Int8
	case lo >= math.MinInt16 && hi <= math.MaxInt16:
		return Int16
	case lo >= math.MinInt32 && hi <= math.MaxInt32:
		return Int32
	default:
		return Int64
	}
}

// IntsAs builds an integer column of the given width from int64 values.
// The caller guarantees every value fits.
func IntsAs(name string, values []int64, dtype DType) *Column {
	return convertInts(NewInts(name, values), dtype)
}

func convertInts(col *Column, target DType) *Column {
	n := col.Len()
	switch target {
	case Int8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(col.Int(i))
		}
		return NewInts(col.Name(), out)
	case Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(col.Int(i))
		}
		return NewInts(col.Name(), out)
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(col.Int(i))
		}
		return NewInts(col.Name(), out)
	default:
		return NewInts(col.Name(), col.Ints())
	}
}

// DowncastFloat returns col as float32 when every value survives the
// narrowing within float32Tolerance, otherwise as float64. NaN matches NaN
// and infinities match infinities of the same sign; a finite value that
// overflows float32 does not match. Non-float columns are returned unchanged.
func DowncastFloat(col *Column) *Column {
	if col.Kind() != KindFloat || col.DType() == Float32 {
		return col
	}
	values := col.Data().([]float64)
	narrowed := make([]float32, len(values))
	for i, v := range values {
		narrowed[i] = float32(v)
		if !closeEnough(float64(narrowed[i]), v) {
			return col
		}
	}
	return NewFloats(col.Name(), narrowed)
}

func closeEnough(a, b float64) bool {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.IsNaN(a) && math.IsNaN(b)
	case math.IsInf(a, 0) || math.IsInf(b, 0):
		return a == b
	}
	return math.Abs(a-b) <= float32Tolerance
}
