package catalog

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/upload"
)

// Entry is one stored PDF.
type Entry struct {
	ID            string
	Name          string
	BlobKey       string
	SizeBytes     int64
	ContentType   string
	Visibility    upload.Visibility
	UploaderIP    string
	DownloadCount int
	UploadedAt    time.Time
}

// Link is the path the document is served from.
func (e *Entry) Link() string {
	return "/d/" + e.ID
}

// Document renders e as a listing record.
func (e *Entry) Document() document.Document {
	d := document.New(e.ID, e.Name, e.Link(), e.UploadedAt.UnixMilli(), "", "")
	d.Size = humanize.IBytes(uint64(e.SizeBytes))
	return d
}
