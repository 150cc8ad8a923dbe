package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// fileHashKey is the fixed HighwayHash key used for content hashes.
var fileHashKey = []byte("car price table cache key\x00\x00\x00\x00\x00\x00\x00")

// ErrNotRegularFile is returned by FileKey for directories and devices,
// whose content cannot be hashed as a single stream.
var ErrNotRegularFile = errors.New("not a regular file")

// FileKey returns the cache key of a file: a HighwayHash of its content
// followed by the name of the format it is read as.
func FileKey(path, format string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash, err := highwayhash.New(fileHashKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)) + "|" + format, nil
}
