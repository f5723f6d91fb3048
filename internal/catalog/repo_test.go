package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notepid/pdf24/internal/db"
	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/upload"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "pdf24.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return NewRepo(d.DB)
}

func add(t *testing.T, r *Repo, name string, vis upload.Visibility, at time.Time) *Entry {
	t.Helper()
	e := &Entry{Name: name, BlobKey: name + ".blob", SizeBytes: 2048, Visibility: vis, UploadedAt: at}
	require.NoError(t, r.Add(context.Background(), e))
	return e
}

func TestAddAndGet(t *testing.T) {
	r := newRepo(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := add(t, r, "report.pdf", upload.Private, at)
	require.NotEmpty(t, e.ID)

	got, err := r.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Name)
	assert.Equal(t, upload.Private, got.Visibility)
	assert.Equal(t, upload.PDFMimeType, got.ContentType)
	assert.True(t, at.Equal(got.UploadedAt))
}

func TestGetMissing(t *testing.T) {
	r := newRepo(t)
	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRejectsBadVisibility(t *testing.T) {
	r := newRepo(t)
	err := r.Add(context.Background(), &Entry{Name: "x.pdf", BlobKey: "x", Visibility: "secret"})
	assert.Error(t, err)
}

func TestListPublicNewestFirst(t *testing.T) {
	r := newRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	add(t, r, "old.pdf", upload.Public, base)
	add(t, r, "hidden.pdf", upload.Private, base.Add(2*time.Hour))
	add(t, r, "new.pdf", upload.Public, base.Add(time.Hour))

	entries, err := r.ListPublic(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new.pdf", entries[0].Name)
	assert.Equal(t, "old.pdf", entries[1].Name)

	limited, err := r.ListPublic(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListPublicEmpty(t *testing.T) {
	entries, err := newRepo(t).ListPublic(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDownloadsAndDelete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	e := add(t, r, "a.pdf", upload.Public, time.Now())

	require.NoError(t, r.IncrementDownloads(ctx, e.ID))
	require.NoError(t, r.IncrementDownloads(ctx, e.ID))
	got, err := r.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.DownloadCount)

	require.NoError(t, r.Delete(ctx, e.ID))
	assert.ErrorIs(t, r.IncrementDownloads(ctx, e.ID), ErrNotFound)
}

func TestCount(t *testing.T) {
	r := newRepo(t)
	add(t, r, "a.pdf", upload.Public, time.Now())
	add(t, r, "b.pdf", upload.Private, time.Now())
	add(t, r, "c.pdf", upload.Private, time.Now())

	counts, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts[upload.Public])
	assert.Equal(t, 2, counts[upload.Private])
}

func TestEntryDocument(t *testing.T) {
	at := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	e := &Entry{ID: "abc", Name: "Report.pdf", SizeBytes: 2 << 20, UploadedAt: at}
	d := e.Document()

	assert.Equal(t, "/d/abc", d.Link)
	assert.Equal(t, "2.0 MiB", d.Size)
	assert.Equal(t, at.UnixMilli(), d.Time)
	assert.Equal(t, document.StampTime, d.Stamp.Kind)
}
