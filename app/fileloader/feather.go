package fileloader

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadFeather reads a Feather (Arrow IPC file format) file record batch by
// record batch.
func ReadFeather(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r, err := ipc.NewFileReader(file, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer r.Close()

	cols := newArrowColumns(r.Schema())
	for i := 0; i < r.NumRecords(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// The record is only valid until the next call to Record
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		cols.appendRecord(rec)
	}
	return cols.frame()
}
