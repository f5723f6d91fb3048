package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/upload"
)

// maxBody bounds how much of a response is read into memory.
const maxBody = 1 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to the document backend.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

// New creates a client for the backend at base. A nil http client means
// http.DefaultClient, a nil logger discards output.
func New(base string, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc, log: log}
}

func (c *Client) endpoint(path string) string {
	return c.base + path
}

// ListPublic fetches every public document.
func (c *Client) ListPublic(ctx context.Context) ([]document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/public"), nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list public documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	docs, err := document.DecodeFrom(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	c.log.Debug("listing fetched", zap.Int("count", len(docs)))
	return docs, nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload submits intent and classifies the response. It never returns an
// error: every failure is expressed as an Outcome.
func (c *Client) Upload(ctx context.Context, intent upload.Intent) upload.Outcome {
	out := c.send(ctx, intent)
	fields := []zap.Field{
		zap.String("file", intent.File.Name),
		zap.Int64("size", intent.File.Size),
		zap.String("visibility", string(intent.Visibility)),
		zap.Stringer("outcome", out.Kind),
	}
	if out.Err != nil {
		fields = append(fields, zap.Error(out.Err))
	}
	c.log.Info("upload finished", fields...)
	return out
}

func (c *Client) send(ctx context.Context, intent upload.Intent) upload.Outcome {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload"), pr)
	if err != nil {
		pr.Close()
		return upload.Failure(fmt.Errorf("build upload request: %w", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	go func() {
		pw.CloseWithError(writeForm(mw, intent))
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return upload.Failure(fmt.Errorf("post upload: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return upload.Limited()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return upload.Failure(fmt.Errorf("read upload response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upload.Rejection(string(body))
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return upload.Failure(fmt.Errorf("decode upload response: %w", err))
	}
	if out.URL == "" {
		return upload.Failure(fmt.Errorf("upload response has no url"))
	}
	return upload.Success(out.URL)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeForm(mw *multipart.Writer, intent upload.Intent) error {
	f, err := os.Open(intent.File.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", intent.File.Path, err)
	}
	defer f.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="pdf"; filename="%s"`, quoteEscaper.Replace(intent.File.Name)))
	h.Set("Content-Type", upload.PDFMimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create pdf part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy pdf: %w", err)
	}

	if err := mw.WriteField("visibility", string(intent.Visibility)); err != nil {
		return fmt.Errorf("write visibility: %w", err)
	}
	return mw.Close()
}
