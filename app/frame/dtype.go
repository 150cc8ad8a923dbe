// Package frame provides the in-memory table used by the dataset loader: typed,
// named columns aligned by row, with the width metadata needed to shrink them.
package frame

// DType is the physical element type of a column.
type DType int

// Supported element types. Integer and float widths are ordered narrowest first.
const (
	Int8 DType = iota
	Int16
	Int32
	Int64
	Float32
	Float64
	String
	Bool
)

// Kind groups element types the way column selection needs them.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindOther
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// Kind returns the type tag used to select columns of a given family.
func (dt DType) Kind() Kind {
	switch dt {
	case Int8, Int16, Int32, Int64:
		return KindInteger
	case Float32, Float64:
		return KindFloat
	case String:
		return KindString
	default:
		return KindOther
	}
}

// Size returns the width in bytes of one element. Strings report the size of
// the string header; their payload is accounted separately.
func (dt DType) Size() int {
	switch dt {
	case Int8, Bool:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	case String:
		return stringHeaderSize
	default:
		return 0
	}
}

// String returns the dtype name as printed in reports. String columns are
// reported as "object" to match the usual dataframe vocabulary.
func (dt DType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "object"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// dtypeOf infers the DType of a backing slice.
func dtypeOf(data any) DType {
	switch data.(type) {
	case []int8:
		return Int8
	case []int16:
		return Int16
	case []int32:
		return Int32
	case []int64:
		return Int64
	case []float32:
		return Float32
	case []float64:
		return Float64
	case []string:
		return String
	case []bool:
		return Bool
	default:
		panic("frame: unsupported column data type")
	}
}
