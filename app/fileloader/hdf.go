//go:build !nohdf5

package fileloader

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/hdf5"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadHDF reads an HDF5 file. Every one-dimensional dataset in the root
// group becomes a column, in link order; other objects are skipped. All
// columns must have the same length.
//
// Integer and float datasets are read at their stored width and string
// datasets must be fixed-length.
//
// Building with the nohdf5 tag drops the libhdf5 dependency and makes this
// reader return an error.
func ReadHDF(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("failed to open HDF5 file: %w", err)
	}
	defer f.Close()

	n, err := f.NumObjects()
	if err != nil {
		return nil, err
	}

	var cols []*frame.Column
	for i := uint(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		typ, err := f.ObjectTypeByIndex(i)
		if err != nil {
			return nil, err
		}
		if typ != hdf5.H5G_DATASET {
			continue
		}
		name, err := f.ObjectNameByIndex(i)
		if err != nil {
			return nil, err
		}
		col, err := readHDFDataset(f, name)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		if col != nil {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no one-dimensional datasets found: %w", ErrNoColumns)
	}
	return frame.New(cols...)
}

// readHDFDataset returns nil for datasets that are not one-dimensional.
func readHDFDataset(f *hdf5.File, name string) (*frame.Column, error) {
	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, nil
	}

	dtype, err := ds.Datatype()
	if err != nil {
		return nil, err
	}
	defer dtype.Close()

	n := int(dims[0])
	switch dtype.Class() {
	case hdf5.T_INTEGER:
		switch dtype.Size() {
		case 1:
			return readHDFInts[int8](ds, name, n)
		case 2:
			return readHDFInts[int16](ds, name, n)
		case 4:
			return readHDFInts[int32](ds, name, n)
		case 8:
			return readHDFInts[int64](ds, name, n)
		}
	case hdf5.T_FLOAT:
		switch dtype.Size() {
		case 4:
			values := make([]float32, n)
			if err := ds.Read(&values); err != nil {
				return nil, err
			}
			return frame.NewFloats(name, values), nil
		case 8:
			values := make([]float64, n)
			if err := ds.Read(&values); err != nil {
				return nil, err
			}
			return frame.NewFloats(name, values), nil
		}
	case hdf5.T_STRING:
		return readHDFStrings(ds, name, n, int(dtype.Size()))
	}
	return nil, fmt.Errorf("unsupported HDF5 type (class %d, size %d)", dtype.Class(), dtype.Size())
}

// readHDFInts reads into a buffer of the dataset's own width; the library
// copies raw file values without conversion.
func readHDFInts[T int8 | int16 | int32 | int64](ds *hdf5.Dataset, name string, n int) (*frame.Column, error) {
	values := make([]T, n)
	if err := ds.Read(&values); err != nil {
		return nil, err
	}
	return frame.NewInts(name, values), nil
}

// readHDFStrings reads fixed-length, NUL padded strings.
func readHDFStrings(ds *hdf5.Dataset, name string, n, width int) (*frame.Column, error) {
	buf := make([]byte, n*width)
	if err := ds.Read(&buf); err != nil {
		return nil, err
	}
	return hdfStrings(name, buf, n, width), nil
}

// hdfStrings splits buf into n cells of width bytes. Stored strings stay
// strings even when they look numeric.
func hdfStrings(name string, buf []byte, n, width int) *frame.Column {
	values := make([]string, n)
	for i := range values {
		values[i] = strings.TrimRight(string(buf[i*width:(i+1)*width]), "\x00 ")
	}
	return frame.NewStrings(name, values, nil)
}
