package fileloader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is matched by every UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// UnsupportedFormatError is returned when a path's extension names none of
// the supported formats.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("file type %q of %q not supported: refer to the fileloader package documentation for supported file types",
		e.Extension, e.Path)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Extension returns the text after the last "." of path, lower-cased. A path
// without a "." is its own extension, so "clipboard" selects the clipboard.
func Extension(path string) string {
	ext := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = path[i+1:]
	}
	return strings.ToLower(ext)
}

// DetectFormat determines the format from the file extension.
//
// Supported extensions are listed in the package documentation. Anything
// else yields an *UnsupportedFormatError.
func DetectFormat(path string) (Format, error) {
	ext := Extension(path)
	if f, ok := formatExtensions[ext]; ok {
		return f, nil
	}
	return FormatUnknown, &UnsupportedFormatError{Path: path, Extension: ext}
}
