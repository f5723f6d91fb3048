package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notepid/pdf24/internal/upload"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Repo handles database operations for stored documents.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepo creates a new document repository.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, now: time.Now}
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.NewString()
}

const entryColumns = `id, name, blob_key, size_bytes, content_type, visibility, uploader_ip, download_count, uploaded_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	e := &Entry{}
	var vis string
	var millis int64
	if err := s.Scan(&e.ID, &e.Name, &e.BlobKey, &e.SizeBytes, &e.ContentType,
		&vis, &e.UploaderIP, &e.DownloadCount, &millis); err != nil {
		return nil, err
	}
	e.Visibility = upload.Visibility(vis)
	e.UploadedAt = time.UnixMilli(millis).UTC()
	return e, nil
}

// Add records a new document. A missing id or upload time is filled in.
func (r *Repo) Add(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.UploadedAt.IsZero() {
		e.UploadedAt = r.now().UTC()
	}
	if e.ContentType == "" {
		e.ContentType = upload.PDFMimeType
	}
	if _, err := upload.ParseVisibility(string(e.Visibility)); err != nil {
		return fmt.Errorf("add document %s: %w", e.ID, err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, blob_key, size_bytes, content_type, visibility, uploader_ip, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.BlobKey, e.SizeBytes, e.ContentType, string(e.Visibility), e.UploaderIP, e.UploadedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("add document %s: %w", e.ID, err)
	}
	return nil
}

// Get returns a single document by id regardless of visibility.
func (r *Repo) Get(ctx context.Context, id string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM documents WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return e, nil
}

// ListPublic returns public documents, newest first. A limit of zero or less
// means no limit.
func (r *Repo) ListPublic(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM documents
		WHERE visibility = 'public'
		ORDER BY uploaded_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list public documents: %w", err)
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// IncrementDownloads bumps the download counter of a document.
func (r *Repo) IncrementDownloads(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE documents SET download_count = download_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment downloads %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("increment downloads %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a document record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Count returns the number of stored documents per visibility.
func (r *Repo) Count(ctx context.Context) (map[upload.Visibility]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT visibility, COUNT(*) FROM documents GROUP BY visibility`)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := map[upload.Visibility]int{upload.Public: 0, upload.Private: 0}
	for rows.Next() {
		var vis string
		var n int
		if err := rows.Scan(&vis, &n); err != nil {
			return nil, err
		}
		counts[upload.Visibility(vis)] = n
	}
	return counts, rows.Err()
}
