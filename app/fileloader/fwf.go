package fileloader

import (
	"context"
	"fmt"
	"strings"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// fwfInferRows is how many leading lines are scanned to infer column spans.
const fwfInferRows = 100

// ReadFWF reads fixed-width text. Column spans are inferred from the first
// lines of the file: each maximal run of character positions that is
// non-blank on at least one line is a column. The first line is the header.
func ReadFWF(ctx context.Context, path string) (*frame.Frame, error) {
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
	return ParseFWF(string(data))
}

// ParseFWF parses fixed-width text held in memory.
func ParseFWF(text string) (*frame.Frame, error) {
	var lines [][]rune
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, []rune(line))
	}
	if len(lines) == 0 {
		return nil, ErrNoColumns
	}

	spans := inferSpans(lines[:min(len(lines), fwfInferRows)])
	header := cutSpans(lines[0], spans)
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, cutSpans(line, spans))
	}
	return frameFromRecords(header, rows)
}

type span struct{ start, end int }

func inferSpans(lines [][]rune) []span {
	width := 0
	for _, line := range lines {
		width = max(width, len(line))
	}
	used := make([]bool, width)
	for _, line := range lines {
		for i, r := range line {
			if r != ' ' && r != '\t' {
				used[i] = true
			}
		}
	}

	var spans []span
	for i := 0; i < width; i++ {
		if !used[i] {
			continue
		}
		start := i
		for i < width && used[i] {
			i++
		}
		spans = append(spans, span{start, i})
	}
	return spans
}

func cutSpans(line []rune, spans []span) []string {
	cells := make([]string, len(spans))
	for j, s := range spans {
		if s.start >= len(line) {
			continue
		}
		cells[j] = strings.TrimSpace(string(line[s.start:min(s.end, len(line))]))
	}
	return cells
}
