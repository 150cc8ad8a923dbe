package fileloader

import (
	"context"
	"errors"
	"fmt"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ErrNoColumns is returned when a source holds no header or no table at all.
var ErrNoColumns = errors.New("no columns to parse from file")

// ctxCheckInterval is how many rows a streaming reader consumes between
// context checks.
const ctxCheckInterval = 4096

// ReaderFunc reads the file at path into a frame.
type ReaderFunc func(ctx context.Context, path string) (*frame.Frame, error)

var readers = map[Format]ReaderFunc{
	FormatCSV:       ReadCSV,
	FormatXLSX:      ReadXLSX,
	FormatJSON:      ReadJSON,
	FormatParquet:   ReadParquet,
	FormatFeather:   ReadFeather,
	FormatHTML:      ReadHTML,
	FormatPickle:    ReadPickle,
	FormatSQL:       ReadSQL,
	FormatHDF:       ReadHDF,
	FormatStata:     ReadStata,
	FormatSAS:       ReadSAS,
	FormatSPSS:      ReadSPSS,
	FormatFWF:       ReadFWF,
	FormatClipboard: ReadClipboard,
}

// Load picks the reader from the extension of path and reads the file.
// An unknown extension yields an *UnsupportedFormatError before any I/O.
func Load(ctx context.Context, path string) (*frame.Frame, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, FormatUnknown, err
	}
	f, err := Read(ctx, format, path)
	if err != nil {
		return nil, format, err
	}
	return f, format, nil
}

// Read reads path with the reader registered for format.
func Read(ctx context.Context, format Format, path string) (*frame.Frame, error) {
	read, ok := readers[format]
	if !ok {
		return nil, &UnsupportedFormatError{Path: path, Extension: format.String()}
	}
	f, err := read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", format, path, err)
	}
	return f, nil
}
