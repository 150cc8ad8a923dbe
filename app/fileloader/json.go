package fileloader

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/ohler55/ojg/oj"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// JSON file reading functions.
//
// The layout of the document is detected from its shape:
//
//	records  [{"a": 1, "b": "x"}, {"a": 2, "b": "y"}]
//	values   [[1, "x"], [2, "y"]]                      columns named 0, 1, ...
//	split    {"columns": ["a", "b"], "data": [[1, "x"], [2, "y"]]}
//	columns  {"a": {"0": 1, "1": 2}, "b": {"0": "x", "1": "y"}}
//
// Columns keep the order in which they first appear in the document, and so
// do the rows of the columns layout unless every row label is an integer, in
// which case rows are sorted by label.
// Nested objects and arrays inside a cell are kept as compact JSON text.

// ReadJSON reads a JSON document, decompressing it when needed.
func ReadJSON(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	data, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ParseJSON builds a frame from an in-memory JSON document.
func ParseJSON(data []byte) (*frame.Frame, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	switch v := doc.(type) {
	case []any:
		if len(v) == 0 {
			return frame.New()
		}
		switch v[0].(type) {
		case map[string]any:
			return jsonRecords(v, keyOrder(data, 2))
		case []any:
			return jsonValues(nil, v)
		}
		return frameFromValues([]string{"0"}, [][]any{cellValues(v)})
	case map[string]any:
		if cols, ok := v["columns"].([]any); ok {
			if rows, ok := v["data"].([]any); ok {
				names := make([]string, len(cols))
				for i, c := range cols {
					names[i] = fmt.Sprint(c)
				}
				return jsonValues(names, rows)
			}
		}
		return jsonColumns(v, keyOrder(data, 1), keyOrder(data, 2))
	}
	return nil, fmt.Errorf("unexpected JSON document of type %T", doc)
}

func jsonRecords(records []any, names []string) (*frame.Frame, error) {
	columns := make([][]any, len(names))
	for j := range columns {
		columns[j] = make([]any, len(records))
	}
	for i, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d is a %T, not an object", i, r)
		}
		for j, name := range names {
			columns[j][i] = cellValue(rec[name])
		}
	}
	return frameFromValues(names, columns)
}

// jsonValues reads rows of positional values. Without names the columns are
// numbered.
func jsonValues(names []string, rows []any) (*frame.Frame, error) {
	width := len(names)
	for i, r := range rows {
		row, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is a %T, not an array", i, r)
		}
		if names == nil && len(row) > width {
			width = len(row)
		}
		if names != nil && len(row) > width {
			return nil, fmt.Errorf("expected %d fields in row %d, saw %d", width, i+1, len(row))
		}
	}
	if names == nil {
		names = positionalHeaders(width)
	}

	columns := make([][]any, width)
	for j := range columns {
		columns[j] = make([]any, len(rows))
	}
	for i, r := range rows {
		for j, v := range r.([]any) {
			columns[j][i] = cellValue(v)
		}
	}
	return frameFromValues(names, columns)
}

// jsonColumns reads an object of columns, each an object keyed by row label
// or an array of values.
func jsonColumns(doc map[string]any, names, rowKeys []string) (*frame.Frame, error) {
	seen := make(map[string]bool, len(rowKeys))
	for _, k := range rowKeys {
		seen[k] = true
	}
	for _, name := range names {
		switch col := doc[name].(type) {
		case map[string]any:
		case []any:
			for i := range col {
				if k := strconv.Itoa(i); !seen[k] {
					seen[k] = true
					rowKeys = append(rowKeys, k)
				}
			}
		default:
			return nil, fmt.Errorf("column %q holds a scalar; an index is required", name)
		}
	}

	sortNumericKeys(rowKeys)

	columns := make([][]any, len(names))
	for j, name := range names {
		columns[j] = make([]any, len(rowKeys))
		switch col := doc[name].(type) {
		case map[string]any:
			for i, k := range rowKeys {
				columns[j][i] = cellValue(col[k])
			}
		case []any:
			for i, k := range rowKeys {
				if p, err := strconv.Atoi(k); err == nil && p >= 0 && p < len(col) {
					columns[j][i] = cellValue(col[p])
				}
			}
		}
	}
	return frameFromValues(names, columns)
}

// sortNumericKeys orders row labels numerically when every label is an
// integer, and leaves them in document order otherwise.
func sortNumericKeys(keys []string) {
	nums := make(map[string]int64, len(keys))
	for _, k := range keys {
		n, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return
		}
		nums[k] = n
	}
	slices.SortStableFunc(keys, func(a, b string) int { return cmp.Compare(nums[a], nums[b]) })
}

// cellValue keeps scalars and renders containers as JSON text.
func cellValue(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return oj.JSON(v)
	}
	return v
}

func cellValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = cellValue(v)
	}
	return out
}

// keyOrder returns the distinct object keys found at the given nesting depth,
// in document order. Depth 1 is the keys of the top-level object.
func keyOrder(data []byte, depth int) []string {
	type level struct {
		object    bool
		expectKey bool
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var stack []level
	seen := make(map[string]bool)
	var keys []string

	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}

		if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
			if d, ok := tok.(json.Delim); ok && d == '}' {
				stack = stack[:n-1]
				valueDone()
				continue
			}
			key, _ := tok.(string)
			if n == depth && !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			stack[n-1].expectKey = false
			continue
		}

		switch tok {
		case json.Delim('{'):
			stack = append(stack, level{object: true, expectKey: true})
		case json.Delim('['):
			stack = append(stack, level{})
		case json.Delim(']'):
			stack = stack[:len(stack)-1]
			valueDone()
		default:
			valueDone()
		}
	}
}
