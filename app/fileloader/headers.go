package fileloader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// excelColumnName converts a 0-based index to Excel-style column name.
// Examples: 0 -> A, 1 -> B, 25 -> Z, 26 -> AA, 27 -> AB, 701 -> ZZ, 702 -> AAA
func excelColumnName(index int) string {
	result := ""
	index++ // Convert to 1-based for the algorithm

	for index > 0 {
		index-- // Adjust for 0-based letter indexing
		result = string(rune('A'+index%26)) + result
		index /= 26
	}

	return result
}

// NormalizeHeaders makes header cells usable as column names.
//
// Rules:
//   - Empty or whitespace-only headers become Unnamed_A, Unnamed_B, ..., Unnamed_AA, ...
//   - Repeated names get a ".1", ".2", ... suffix in order of appearance
//   - Other headers are preserved as-is
//
// Example:
//
//	Input:  ["name", "", "age", "name", "  "]
//	Output: ["name", "Unnamed_A", "age", "name.1", "Unnamed_B"]
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	emptyCount := 0

	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed_" + excelColumnName(emptyCount)
			emptyCount++
		}
		name := h
		for n := 1; taken[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		taken[name] = true
		normalized[i] = name
	}

	return normalized
}

// positionalHeaders returns "0", "1", ... for sources without a header row.
func positionalHeaders(n int) []string {
	header := make([]string, n)
	for i := range header {
		header[i] = strconv.Itoa(i)
	}
	return header
}

// frameFromRecords builds a frame from a header and text rows, inferring one
// dtype per column. Short rows are padded with missing values; a row longer
// than the header is an error.
func frameFromRecords(header []string, rows [][]string) (*frame.Frame, error) {
	header = NormalizeHeaders(header)
	cells := make([][]string, len(header))
	for j := range cells {
		cells[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("expected %d fields in row %d, saw %d", len(header), i+1, len(row))
		}
		for j, cell := range row {
			cells[j][i] = cell
		}
	}
	cols := make([]*frame.Column, len(header))
	for j, name := range header {
		cols[j] = frame.InferStrings(name, cells[j])
	}
	return frame.New(cols...)
}

// frameFromValues builds a frame from decoded column values.
func frameFromValues(names []string, columns [][]any) (*frame.Frame, error) {
	names = NormalizeHeaders(names)
	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		cols[j] = frame.InferValues(name, columns[j])
	}
	return frame.New(cols...)
}
