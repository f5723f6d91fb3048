// Package blob stores uploaded PDF bytes on local disk or in an S3-compatible
// object store.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/notepid/pdf24/internal/config"
)

// ErrNotFound is returned by Get for an unknown key.
var ErrNotFound = errors.New("blob not found")

// PutOptions describe an object being stored. Size is -1 when unknown.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored object.
type Info struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage streams objects in and out by key.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, Info, error)
	Delete(ctx context.Context, key string) error
}

// Open builds the storage selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(cfg.LocalDir)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
