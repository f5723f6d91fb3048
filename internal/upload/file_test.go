package upload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdfHeader = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"

func writeFile(t *testing.T, name, content string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	if size > int64(len(content)) {
		require.NoError(t, f.Truncate(size))
	}
	require.NoError(t, f.Close())
	return path
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name string
		file File
		want error
	}{
		{"small pdf", File{MIMEType: PDFMimeType, Size: 2 << 20}, nil},
		{"exactly max", File{MIMEType: PDFMimeType, Size: MaxSize}, nil},
		{"one byte over", File{MIMEType: PDFMimeType, Size: MaxSize + 1}, ErrTooLarge},
		{"empty pdf", File{MIMEType: PDFMimeType, Size: 0}, nil},
		{"text file", File{MIMEType: "text/plain; charset=utf-8", Size: 10}, ErrNotPDF},
		{"huge non-pdf checks type first", File{MIMEType: "image/png", Size: MaxSize * 4}, ErrNotPDF},
		{"no type", File{Size: 1}, ErrNotPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.file))
		})
	}
}

func TestValidateMessages(t *testing.T) {
	assert.Equal(t, "Select a PDF.", Message(Validate(File{MIMEType: "text/plain"})))
	assert.Equal(t, "Max 50 MB.", Message(Validate(File{MIMEType: PDFMimeType, Size: MaxSize + 1})))
	assert.Equal(t, "", Message(nil))
}

func TestOpenSniffsPDF(t *testing.T) {
	path := writeFile(t, "report.pdf", pdfHeader, 2<<20)

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", f.Name)
	assert.Equal(t, int64(2<<20), f.Size)
	assert.Equal(t, PDFMimeType, f.MIMEType)
	assert.Equal(t, "2.0 MiB", f.SizeLabel())
}

func TestPickRejectsRenamedText(t *testing.T) {
	path := writeFile(t, "fake.pdf", "just some words, not a pdf\n", 0)

	_, err := Pick(path)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestPickRejectsOversizedPDF(t *testing.T) {
	path := writeFile(t, "big.pdf", pdfHeader, MaxSize+1)

	_, err := Pick(path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPickMissingFile(t *testing.T) {
	_, err := Pick(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotPDF))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "Select a PDF.", Message(err))
}

func TestPickDirectory(t *testing.T) {
	_, err := Pick(t.TempDir())
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestVisibility(t *testing.T) {
	v, err := ParseVisibility("PRIVATE")
	require.NoError(t, err)
	assert.Equal(t, Private, v)
	assert.Equal(t, Public, v.Toggle())

	_, err = ParseVisibility("secret")
	assert.Error(t, err)
}

func TestOutcomeConstructors(t *testing.T) {
	assert.Equal(t, Outcome{Kind: Succeeded, ShareURL: "/d/abc"}, Success("/d/abc"))
	assert.Equal(t, RateLimited, Limited().Kind)
	assert.Equal(t, Outcome{Kind: Rejected, Message: "bad"}, Rejection("bad"))

	f := Failure(errors.New("dial tcp: refused"))
	assert.Equal(t, TransportFailure, f.Kind)
	assert.Equal(t, "Upload failed.", f.Message)
	assert.EqualError(t, f.Err, "dial tcp: refused")
}
