package browser

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/upload"
)

// ErrBusy is returned when the selection is changed during an upload.
var ErrBusy = errors.New("upload in progress")

// Phase is the resting state of the upload orchestrator. Outcomes are
// recorded separately in Last.
type Phase int

const (
	Idle Phase = iota
	FileSelected
	Uploading
)

func (p Phase) String() string {
	switch p {
	case FileSelected:
		return "file_selected"
	case Uploading:
		return "uploading"
	default:
		return "idle"
	}
}

// UploadFinishedMsg carries the outcome of one submission.
type UploadFinishedMsg struct {
	Attempt uint64
	Intent  upload.Intent
	Outcome upload.Outcome
}

// Uploader drives selection, validation and submission of one file at a time.
type Uploader struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger

	open       bool
	file       *upload.File
	visibility upload.Visibility
	phase      Phase
	err        string
	last       upload.Outcome
	attempt    uint64
}

func newUploader(b Backend, timeout time.Duration, log *zap.Logger) *Uploader {
	return &Uploader{backend: b, timeout: timeout, log: log, visibility: upload.Public}
}

// Open shows the upload panel.
func (u *Uploader) Open() {
	u.open = true
}

// Close hides the upload panel and discards the intent. An upload in flight
// keeps running and its outcome is still applied.
func (u *Uploader) Close() {
	u.open = false
	if u.phase == Uploading {
		return
	}
	u.file = nil
	u.err = ""
	u.phase = Idle
}

// Choose opens the file at path, validates it and selects it.
func (u *Uploader) Choose(path string) error {
	if u.phase == Uploading {
		return ErrBusy
	}
	f, err := upload.Pick(path)
	if err != nil {
		u.log.Info("file pick rejected", zap.String("path", path), zap.Error(err))
		u.err = upload.Message(err)
		return err
	}
	return u.Select(f)
}

// Select validates f and makes it the active selection. A file that fails
// validation leaves the previous selection in place.
func (u *Uploader) Select(f upload.File) error {
	if u.phase == Uploading {
		return ErrBusy
	}
	if err := upload.Validate(f); err != nil {
		u.err = upload.Message(err)
		return err
	}
	u.err = ""
	u.file = &f
	u.phase = FileSelected
	return nil
}

// SetVisibility changes the visibility used by the next submission.
func (u *Uploader) SetVisibility(v upload.Visibility) {
	u.visibility = v
}

// ToggleVisibility flips between public and private.
func (u *Uploader) ToggleVisibility() {
	u.visibility = u.visibility.Toggle()
}

// CanSubmit reports whether Submit would start an upload.
func (u *Uploader) CanSubmit() bool {
	return u.file != nil && u.phase != Uploading
}

// submit moves to Uploading and returns the command that performs the upload.
// It returns nil when an upload is already in flight or nothing is selected.
func (u *Uploader) submit() tea.Cmd {
	if u.phase == Uploading {
		return nil
	}
	if u.file == nil {
		u.err = upload.ErrNoFile.Error()
		return nil
	}
	u.phase = Uploading
	u.err = ""
	u.attempt++

	attempt := u.attempt
	intent := upload.Intent{File: *u.file, Visibility: u.visibility}
	backend, timeout := u.backend, u.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return UploadFinishedMsg{Attempt: attempt, Intent: intent, Outcome: backend.Upload(ctx, intent)}
	}
}

// finish records msg. It returns false for a message that does not belong to
// the upload in flight.
func (u *Uploader) finish(msg UploadFinishedMsg) bool {
	if u.phase != Uploading || msg.Attempt != u.attempt {
		return false
	}
	u.last = msg.Outcome
	switch msg.Outcome.Kind {
	case upload.Succeeded:
		u.open = false
		u.file = nil
		u.err = ""
		u.phase = Idle
	case upload.RateLimited:
		u.phase = FileSelected
	case upload.Rejected:
		u.phase = FileSelected
		u.err = msg.Outcome.Message
	default:
		u.phase = FileSelected
		u.err = upload.ErrTransport.Error()
	}
	return true
}

func (u *Uploader) IsOpen() bool                  { return u.open }
func (u *Uploader) Phase() Phase                  { return u.phase }
func (u *Uploader) Visibility() upload.Visibility { return u.visibility }
func (u *Uploader) Err() string                   { return u.err }
func (u *Uploader) Last() upload.Outcome          { return u.last }

// File returns the active selection.
func (u *Uploader) File() (upload.File, bool) {
	if u.file == nil {
		return upload.File{}, false
	}
	return *u.file, true
}
