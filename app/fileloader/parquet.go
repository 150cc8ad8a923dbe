package fileloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadParquet reads a Parquet file. When path is a directory, every
// *.parquet file below it is read in lexical path order and the parts are
// concatenated; all parts must share one schema.
func ReadParquet(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return readParquetParts(ctx, []string{path})
	}

	parts, err := doublestar.FilepathGlob(filepath.Join(path, "**", "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("failed to list parquet parts: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no parquet files found in %s", path)
	}
	slices.Sort(parts)
	return readParquetParts(ctx, parts)
}

// readParquetParts reads every part into one set of columns, so the frame
// dtypes follow the shared schema rather than the values of a single part.
func readParquetParts(ctx context.Context, parts []string) (*frame.Frame, error) {
	var cols *arrowColumns
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		if cols, err = readParquetFile(ctx, part, cols); err != nil {
			if len(parts) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("part %s: %w", part, err)
		}
	}
	return cols.frame()
}

// readParquetFile appends the rows of one file to cols, which is created from
// the file schema when nil.
func readParquetFile(ctx context.Context, path string, cols *arrowColumns) (*arrowColumns, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem := memory.DefaultAllocator
	tbl, err := pqarrow.ReadTable(ctx, file, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	if cols == nil {
		cols = newArrowColumns(tbl.Schema())
	} else if err := cols.compatible(tbl.Schema()); err != nil {
		return nil, err
	}
	cols.appendTable(tbl)
	return cols, nil
}
