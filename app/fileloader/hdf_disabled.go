//go:build nohdf5

package fileloader

import (
	"context"
	"errors"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadHDF is unavailable in builds tagged nohdf5.
func ReadHDF(ctx context.Context, path string) (*frame.Frame, error) {
	return nil, errors.New("HDF5 support not compiled in (built with nohdf5)")
}
