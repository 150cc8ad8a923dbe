package fileloader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// CSV file reading functions.
// The first record is the header; every later record is a data row.

// ReadCSV reads a comma separated file, decompressing it when needed.
func ReadCSV(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	rc, _, err := OpenText(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseDelimited(ctx, rc, ',')
}

// parseDelimited reads delimited records from r. Blank lines are skipped and
// a UTF-8 byte order mark before the header is dropped.
func parseDelimited(ctx context.Context, r io.Reader, comma rune) (*frame.Frame, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	// Allow variable number of fields per record; short rows are padded later
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		if len(rows)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return frameFromRecords(header, rows)
}
