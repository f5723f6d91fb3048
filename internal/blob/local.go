package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Local keeps objects as files in a single directory.
type Local struct {
	dir  string
	keys *confiner
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	c, err := newConfiner(dir)
	if err != nil {
		return nil, err
	}
	return &Local{dir: dir, keys: c}, nil
}

// Put writes r to a temporary file and renames it into place.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Info, error) {
	path, err := l.keys.resolve(key)
	if err != nil {
		return Info{}, err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return Info{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Info{}, fmt.Errorf("write blob %s: %w", key, err)
	}
	if opt.Size >= 0 && n != opt.Size {
		return Info{}, fmt.Errorf("write blob %s: got %d bytes, expected %d", key, n, opt.Size)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Info{}, fmt.Errorf("store blob %s: %w", key, err)
	}
	return Info{Key: key, Size: n, ContentType: opt.ContentType}, nil
}

func (l *Local) Get(ctx context.Context, key string) (io.ReadCloser, Info, error) {
	path, err := l.keys.resolve(key)
	if err != nil {
		return nil, Info{}, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Info{}, fmt.Errorf("get blob %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("get blob %s: %w", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Info{}, fmt.Errorf("stat blob %s: %w", key, err)
	}
	return f, Info{Key: key, Size: st.Size()}, nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	path, err := l.keys.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
