package fileloader

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression format of a file
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

// String returns the string representation of CompressionType
func (ct CompressionType) String() string {
	switch ct {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// Magic byte signatures for compression detection
var (
	// Gzip magic bytes: 1f 8b
	gzipMagic = []byte{0x1f, 0x8b}
	// Bzip2 magic bytes: 42 5a 68 ("BZh")
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	// XZ magic bytes: fd 37 7a 58 5a 00
	xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DetectCompression identifies the compression of a stream from its first bytes.
func DetectCompression(header []byte) CompressionType {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(header, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(header, xzMagic):
		return CompressionXZ
	}
	return CompressionNone
}

// OpenText opens a text file, decompressing it on the fly when it starts with
// a known compression signature. The caller must close the returned reader.
func OpenText(path string) (io.ReadCloser, CompressionType, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CompressionNone, err
	}

	// XZ has the longest magic (6 bytes)
	br := bufio.NewReader(f)
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		f.Close()
		return nil, CompressionNone, err
	}

	compression := DetectCompression(header)
	var reader io.Reader
	switch compression {
	case CompressionGzip:
		gzReader, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, compression, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		reader = gzReader
	case CompressionBzip2:
		reader = bzip2.NewReader(br)
	case CompressionXZ:
		xzReader, err := xz.NewReader(br)
		if err != nil {
			f.Close()
			return nil, compression, fmt.Errorf("failed to create xz reader: %w", err)
		}
		reader = xzReader
	default:
		reader = br
	}
	return &decompressingReadCloser{reader: reader, file: f}, compression, nil
}

// ReadText reads a whole text file, decompressing it when needed.
func ReadText(path string) ([]byte, error) {
	rc, _, err := OpenText(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// decompressingReadCloser wraps a decompressing reader and the underlying file
type decompressingReadCloser struct {
	reader io.Reader
	file   *os.File
}

func (d *decompressingReadCloser) Read(p []byte) (n int, err error) {
	return d.reader.Read(p)
}

func (d *decompressingReadCloser) Close() error {
	// Close the gzip reader if it's a Closer
	if closer, ok := d.reader.(io.Closer); ok {
		closer.Close()
	}
	return d.file.Close()
}
