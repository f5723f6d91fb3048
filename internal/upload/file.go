package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// PDFMimeType is the only accepted content type.
	PDFMimeType = "application/pdf"
	// MaxSize is the largest accepted upload, 50 MiB.
	MaxSize int64 = 50 * 1024 * 1024
)

var (
	ErrNotPDF    = errors.New("Select a PDF.")
	ErrTooLarge  = errors.New("Max 50 MB.")
	ErrNoFile    = errors.New("Select a file first.")
	ErrTransport = errors.New("Upload failed.")
)

// File is a picked local file.
type File struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

// SizeLabel renders the size for display, e.g. "2.0 MiB".
func (f File) SizeLabel() string {
	if f.Size < 0 {
		return ""
	}
	return humanize.IBytes(uint64(f.Size))
}

// Open stats path and sniffs its content type.
func Open(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return File{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mt.String(),
	}, nil
}

// Validate applies the type rule and then the size rule.
func Validate(f File) error {
	if f.MIMEType != PDFMimeType {
		return ErrNotPDF
	}
	if f.Size > MaxSize {
		return ErrTooLarge
	}
	return nil
}

// Pick opens and validates path in one step. Files that cannot be read are
// reported as ErrNotPDF; the underlying error is joined for logging.
func Pick(path string) (File, error) {
	f, err := Open(path)
	if err != nil {
		return File{}, errors.Join(ErrNotPDF, err)
	}
	if err := Validate(f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Message returns the user-facing text for a validation or submission error.
func Message(err error) string {
	for _, known := range []error{ErrNotPDF, ErrTooLarge, ErrNoFile, ErrTransport} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
