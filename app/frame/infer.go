package frame

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// naTokens are the cell values read as missing from text sources.
var naTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"null": true, "NULL": true, "None": true, "<NA>": true, "#N/A": true, "#NA": true, "#N/A N/A": true,
	"1.#IND": true, "1.#QNAN": true, "-1.#IND": true, "-1.#QNAN": true,
}

// IsNA reports whether a text cell is read as a missing value.
func IsNA(cell string) bool {
	return naTokens[strings.TrimSpace(cell)]
}

func parseBool(cell string) (bool, bool) {
	switch cell {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// InferStrings builds a column from text cells.
//
// All integers become Int64. Integers mixed with nulls or decimals become
// Float64 with NaN for nulls. Booleans without nulls become Bool. Anything
// else stays a String column with a validity mask.
func InferStrings(name string, cells []string) *Column {
	isInt, isFloat, isBool := true, true, true
	nulls := 0
	for _, raw := range cells {
		cell := strings.TrimSpace(raw)
		if IsNA(cell) {
			nulls++
			continue
		}
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat && !isInt {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(cell); !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}

	switch {
	case nulls == len(cells) && len(cells) > 0:
		// An all-missing column carries no type information.
		return NewFloats(name, nanSlice(len(cells)))
	case isInt && nulls == 0:
		values := make([]int64, len(cells))
		for i, raw := range cells {
			values[i], _ = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		}
		return NewInts(name, values)
	case isInt || isFloat:
		values := make([]float64, len(cells))
		for i, raw := range cells {
			cell := strings.TrimSpace(raw)
			if IsNA(cell) {
				values[i] = math.NaN()
				continue
			}
			values[i], _ = strconv.ParseFloat(cell, 64)
		}
		return NewFloats(name, values)
	case isBool && nulls == 0:
		values := make([]bool, len(cells))
		for i, raw := range cells {
			values[i], _ = parseBool(strings.TrimSpace(raw))
		}
		return NewBools(name, values, nil)
	}

	values := make([]string, len(cells))
	valid := make([]bool, len(cells))
	for i, cell := range cells {
		if IsNA(cell) {
			continue
		}
		values[i] = cell
		valid[i] = true
	}
	return NewStrings(name, values, valid)
}

// InferValues builds a column from decoded values (JSON, pickle, SQL rows).
//
// Integer-like values become Int64 (Float64 when nulls are present), floats
// or mixed numbers become Float64, booleans without nulls become Bool and
// strings become String. Values of any other type are rendered with fmt.
func InferValues(name string, values []any) *Column {
	isInt, isNum, isBool, isStr := true, true, true, true
	nulls := 0
	for _, v := range values {
		if v == nil {
			nulls++
			continue
		}
		_, intOK := asInt(v)
		_, numOK := asFloat(v)
		_, boolOK := v.(bool)
		_, strOK := v.(string)
		isInt = isInt && intOK
		isNum = isNum && numOK
		isBool = isBool && boolOK
		isStr = isStr && strOK
	}

	switch {
	case nulls == len(values) && len(values) > 0:
		return NewFloats(name, nanSlice(len(values)))
	case isInt && nulls == 0:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i], _ = asInt(v)
		}
		return NewInts(name, out)
	case isNum:
		out := make([]float64, len(values))
		for i, v := range values {
			if v == nil {
				out[i] = math.NaN()
				continue
			}
			out[i], _ = asFloat(v)
		}
		return NewFloats(name, out)
	case isBool && nulls == 0:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return NewBools(name, out, nil)
	}

	out := make([]string, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		valid[i] = true
		if s, ok := v.(string); ok && isStr {
			out[i] = s
			continue
		}
		out[i] = formatValue(v)
	}
	return NewStrings(name, out, valid)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
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
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case *big.Int:
		if n.IsInt64() {
			return n.Int64(), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
