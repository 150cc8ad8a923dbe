package fileloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/kshedden/datareader"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// Stata and SAS files are decoded by datareader into one Series per column.

// ReadStata reads a Stata .dta file. Value labels and strLs are substituted
// and dates are converted.
func ReadStata(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rdr, err := datareader.NewStataReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read Stata header: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	series, err := rdr.Read(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read Stata data: %w", err)
	}
	if series == nil {
		return emptyFrame(rdr.ColumnNames())
	}
	return frameFromSeries(series)
}

// ReadSAS reads a SAS sas7bdat file with trailing blanks trimmed from
// strings and dates converted.
func ReadSAS(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rdr, err := datareader.NewSAS7BDATReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read SAS header: %w", err)
	}
	rdr.TrimStrings = true
	rdr.ConvertDates = true
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	series, err := rdr.Read(-1)
	if errors.Is(err, io.EOF) {
		return emptyFrame(rdr.ColumnNames())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read SAS data: %w", err)
	}
	return frameFromSeries(series)
}

func frameFromSeries(series []*datareader.Series) (*frame.Frame, error) {
	names := make([]string, len(series))
	for j, s := range series {
		names[j] = s.Name
	}
	names = NormalizeHeaders(names)

	cols := make([]*frame.Column, len(series))
	for j, s := range series {
		col, err := seriesColumn(names[j], s.Data(), s.Missing())
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}
	return frame.New(cols...)
}

// seriesColumn converts decoded series data. Integer data with missing
// entries becomes float64 with NaN, as numeric columns carry nulls as NaN.
func seriesColumn(name string, data any, missing []bool) (*frame.Column, error) {
	isMissing := func(i int) bool { return missing != nil && missing[i] }
	anyMissing := false
	for _, m := range missing {
		anyMissing = anyMissing || m
	}

	switch v := data.(type) {
	case []float64:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = x
			if isMissing(i) {
				out[i] = math.NaN()
			}
		}
		return frame.NewFloats(name, out), nil
	case []float32:
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = x
			if isMissing(i) {
				out[i] = float32(math.NaN())
			}
		}
		return frame.NewFloats(name, out), nil
	case []int8:
		return intSeries(name, v, isMissing, anyMissing), nil
	case []int16:
		return intSeries(name, v, isMissing, anyMissing), nil
	case []int32:
		return intSeries(name, v, isMissing, anyMissing), nil
	case []int64:
		return intSeries(name, v, isMissing, anyMissing), nil
	case []uint64:
		values := make([]any, len(v))
		for i, x := range v {
			if !isMissing(i) {
				values[i] = x
			}
		}
		return frame.InferValues(name, values), nil
	case []string:
		valid := make([]bool, len(v))
		for i := range v {
			valid[i] = !isMissing(i)
		}
		return frame.NewStrings(name, v, valid), nil
	case []time.Time:
		values := make([]any, len(v))
		for i, x := range v {
			if !isMissing(i) {
				values[i] = x
			}
		}
		return frame.InferValues(name, values), nil
	}
	return nil, fmt.Errorf("column %s: unsupported series type %T", name, data)
}

func intSeries[T int8 | int16 | int32 | int64](name string, v []T, isMissing func(int) bool, anyMissing bool) *frame.Column {
	if !anyMissing {
		return frame.NewInts(name, v)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
		if isMissing(i) {
			out[i] = math.NaN()
		}
	}
	return frame.NewFloats(name, out)
}

// emptyFrame builds a zero-row frame with float64 columns.
func emptyFrame(names []string) (*frame.Frame, error) {
	names = NormalizeHeaders(names)
	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		cols[j] = frame.NewFloats(name, []float64{})
	}
	return frame.New(cols...)
}
