package fileloader

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadXLSX reads the first sheet of an Excel workbook. The first row is the
// header. Cells are read as raw values so number formats do not leak into
// the data.
func ReadXLSX(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoColumns
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frameFromRecords(rows[0], rows[1:])
}
