package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/blob"
	"github.com/notepid/pdf24/internal/catalog"
	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/upload"
)

// Response bodies the client shows verbatim.
const (
	msgLimited     = "Upload limit exceeded"
	msgTooLarge    = "File too large"
	msgMissingFile = "Missing pdf file"
	msgMissingVis  = "Missing visibility"
	msgBadVis      = "Invalid visibility"
	msgNotPDF      = "Only PDF files are allowed"
	msgStoreFailed = "Could not store file"
)

// multipartOverhead is the slack allowed on top of the file for headers and
// the visibility field.
const multipartOverhead = 64 << 10

// sniffLen is how much of the file is read to detect its type.
const sniffLen = 3072

func (s *Server) health(c *gin.Context) {
	counts, err := s.docs.Count(c.Request.Context())
	if err != nil {
		s.log.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "documents": counts})
}

func (s *Server) listPublic(c *gin.Context) {
	entries, err := s.docs.ListPublic(c.Request.Context(), 0)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Could not list documents")
		return
	}
	docs := make([]document.Document, 0, len(entries))
	for _, e := range entries {
		d := e.Document()
		d.Link = s.link(e)
		docs = append(docs, d)
	}
	c.JSON(http.StatusOK, docs)
}

func (s *Server) uploadPDF(c *gin.Context) {
	ip := c.ClientIP()
	if !s.quota.Allow(ip) {
		s.metrics.uploads.WithLabelValues("rate_limited").Inc()
		c.String(http.StatusTooManyRequests, msgLimited)
		return
	}
	c.Header("X-RateLimit-Remaining", strconv.Itoa(s.quota.Remaining(ip)))

	limit := s.cfg.MaxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		s.reject(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.reject(c, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		s.reject(c, http.StatusBadRequest, msgMissingFile)
		return
	}
	defer file.Close()

	if header.Size > s.cfg.MaxUploadBytes {
		s.reject(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}

	raw := c.Request.FormValue("visibility")
	if strings.TrimSpace(raw) == "" {
		s.reject(c, http.StatusBadRequest, msgMissingVis)
		return
	}
	vis, err := upload.ParseVisibility(raw)
	if err != nil {
		s.reject(c, http.StatusBadRequest, msgBadVis)
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.reject(c, http.StatusBadRequest, msgMissingFile)
		return
	}
	if !mimetype.Detect(head[:n]).Is(upload.PDFMimeType) {
		s.reject(c, http.StatusUnsupportedMediaType, msgNotPDF)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = c.Error(err)
		s.reject(c, http.StatusInternalServerError, msgStoreFailed)
		return
	}

	ctx := c.Request.Context()
	name := cleanName(header.Filename)
	id := catalog.NewID()
	key := id + ".pdf"

	info, err := s.blobs.Put(ctx, key, file, blob.PutOptions{
		Size:        header.Size,
		ContentType: upload.PDFMimeType,
		Metadata:    map[string]string{"filename": name},
	})
	if err != nil {
		_ = c.Error(err)
		s.reject(c, http.StatusInternalServerError, msgStoreFailed)
		return
	}

	e := &catalog.Entry{
		ID:          id,
		Name:        name,
		BlobKey:     key,
		SizeBytes:   info.Size,
		ContentType: upload.PDFMimeType,
		Visibility:  vis,
		UploaderIP:  ip,
	}
	if err := s.docs.Add(ctx, e); err != nil {
		_ = c.Error(err)
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.log.Warn("orphaned blob", zap.String("key", key), zap.Error(derr))
		}
		s.reject(c, http.StatusInternalServerError, msgStoreFailed)
		return
	}

	s.metrics.uploads.WithLabelValues("stored").Inc()
	s.metrics.bytes.Add(float64(info.Size))
	s.log.Info("document stored",
		zap.String("id", id),
		zap.String("name", name),
		zap.Int64("size", info.Size),
		zap.String("visibility", string(vis)),
	)
	c.JSON(http.StatusOK, gin.H{"url": s.link(e)})
}

// link is the document path, made absolute when a public URL is configured.
func (s *Server) link(e *catalog.Entry) string {
	if s.cfg.PublicURL == "" {
		return e.Link()
	}
	return strings.TrimRight(s.cfg.PublicURL, "/") + e.Link()
}

func (s *Server) reject(c *gin.Context, status int, msg string) {
	s.metrics.uploads.WithLabelValues("rejected").Inc()
	c.String(status, msg)
}

func (s *Server) download(c *gin.Context) {
	ctx := c.Request.Context()
	e, err := s.docs.Get(ctx, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Could not load document")
		return
	}

	rc, info, err := s.blobs.Get(ctx, e.BlobKey)
	if errors.Is(err, blob.ErrNotFound) {
		s.log.Warn("document without blob", zap.String("id", e.ID), zap.String("key", e.BlobKey))
		c.String(http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Could not load document")
		return
	}
	defer rc.Close()

	if err := s.docs.IncrementDownloads(ctx, e.ID); err != nil {
		s.log.Warn("download counter", zap.String("id", e.ID), zap.Error(err))
	}

	c.DataFromReader(http.StatusOK, info.Size, e.ContentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("inline", map[string]string{"filename": e.Name}),
	})
}

func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || strings.TrimSpace(name) == "" {
		return "document.pdf"
	}
	return name
}
