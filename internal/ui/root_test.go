package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notepid/pdf24/internal/app"
	"github.com/notepid/pdf24/internal/browser"
	"github.com/notepid/pdf24/internal/config"
	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/upload"
)

type stubBackend struct {
	docs    []document.Document
	outcome upload.Outcome
	lists   int
}

func (s *stubBackend) ListPublic(context.Context) ([]document.Document, error) {
	s.lists++
	return s.docs, nil
}

func (s *stubBackend) Upload(context.Context, upload.Intent) upload.Outcome {
	return s.outcome
}

type fixture struct {
	root    *rootModel
	backend *stubBackend
	opened  []string
	copied  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{backend: &stubBackend{docs: []document.Document{
		document.New("1", "Quarterly report.pdf", "/d/1", 1_700_000_000_000, "", ""),
		document.New("2", "Invoice.pdf", "https://cdn.example.com/2.pdf", 1_600_000_000_000, "", ""),
	}}}

	cfg := config.Default()
	resolver := document.LinkResolver{APIBase: "https://api.example.com"}
	a := &app.App{
		Config:   cfg,
		Resolver: resolver,
		Browser: browser.New(f.backend, browser.Options{
			Resolver: resolver,
			Clipboard: func(s string) error {
				f.copied = append(f.copied, s)
				return nil
			},
			After: func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil },
		}),
		Open: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
	}
	f.root = NewRootModel(a).(*rootModel)
	f.root.panel.dir = t.TempDir()
	f.root.search.Cursor.SetMode(cursor.CursorStatic)
	f.run(f.root.Init())
	f.root.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return f
}

// run executes cmd and feeds the results back, skipping spinner ticks.
func (f *fixture) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			f.run(c)
		}
	default:
		_, next := f.root.Update(msg)
		f.run(next)
	}
}

func (f *fixture) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := f.root.Update(msg)
		f.run(cmd)
	}
}

func titles(f *fixture) []string {
	var out []string
	for _, it := range f.root.docs.Items() {
		out = append(out, it.(docItem).Title())
	}
	return out
}

func TestRootLoadsListing(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"Quarterly report", "Invoice"}, titles(f))
	assert.Contains(t, f.root.View(), "Quarterly report")
	assert.Contains(t, f.root.View(), "Newest First")
}

func TestRootSortToggle(t *testing.T) {
	f := newFixture(t)
	f.press("s")
	assert.Equal(t, []string{"Invoice", "Quarterly report"}, titles(f))
	assert.Contains(t, f.root.View(), "Oldest First")
}

func TestRootSearch(t *testing.T) {
	f := newFixture(t)
	f.press("/", "i", "n", "v")
	assert.Equal(t, modeSearch, f.root.mode)
	assert.Equal(t, []string{"Invoice"}, titles(f))

	f.press("enter")
	assert.Equal(t, modeBrowse, f.root.mode)
	assert.Equal(t, "inv", f.root.browser.Search())

	f.press("/", "esc")
	assert.Equal(t, "", f.root.browser.Search())
	assert.Len(t, titles(f), 2)
}

func TestRootSearchNoMatches(t *testing.T) {
	f := newFixture(t)
	f.press("/", "z", "z", "enter")
	assert.Empty(t, titles(f))
	assert.Contains(t, f.root.View(), "No documents found.")
}

func TestRootOpenAndCopyLink(t *testing.T) {
	f := newFixture(t)
	f.press("enter")
	require.Len(t, f.opened, 1)
	assert.Equal(t, "https://api.example.com/d/1", f.opened[0])

	f.press("y")
	assert.Equal(t, []string{"https://api.example.com/d/1"}, f.copied)
	assert.Contains(t, f.root.View(), "Link copied")
}

func TestRootOpenFailureShown(t *testing.T) {
	f := newFixture(t)
	f.root.app.Open = func(string) error { return errors.New("no handler") }

	_, cmd := f.root.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.NotContains(t, f.root.View(), "no handler")

	f.run(cmd)
	assert.Contains(t, f.root.View(), "no handler")

	f.press("s")
	assert.NotContains(t, f.root.View(), "no handler")
}

func TestRootSubmitWithoutFile(t *testing.T) {
	f := newFixture(t)
	f.press("u")
	assert.Equal(t, modeUpload, f.root.mode)

	f.press("enter")
	assert.Contains(t, f.root.View(), "Select a file first.")

	f.press("v")
	assert.Equal(t, upload.Private, f.root.browser.Upload.Visibility())

	f.press("esc")
	assert.Equal(t, modeBrowse, f.root.mode)
	assert.False(t, f.root.browser.Upload.IsOpen())
}

func TestRootUploadSuccess(t *testing.T) {
	f := newFixture(t)
	f.backend.outcome = upload.Success("/d/abc")
	f.press("u")
	require.NoError(t, f.root.browser.Upload.Select(upload.File{
		Path: "/tmp/new.pdf", Name: "new.pdf", Size: 1024, MIMEType: upload.PDFMimeType,
	}))
	assert.Contains(t, f.root.View(), "new.pdf")

	f.press("enter")

	assert.Equal(t, modeBrowse, f.root.mode)
	assert.Equal(t, 2, f.backend.lists)
	assert.Contains(t, f.root.View(), "https://api.example.com/d/abc")

	f.press("c")
	assert.Equal(t, []string{"https://api.example.com/d/abc"}, f.copied)

	f.press("x")
	assert.NotContains(t, f.root.View(), "https://api.example.com/d/abc")
}

func TestRootRateLimitBanner(t *testing.T) {
	f := newFixture(t)
	f.backend.outcome = upload.Limited()
	f.press("u")
	require.NoError(t, f.root.browser.Upload.Select(upload.File{
		Name: "new.pdf", Size: 1024, MIMEType: upload.PDFMimeType,
	}))
	f.press("enter")

	assert.Equal(t, modeUpload, f.root.mode)
	view := f.root.View()
	assert.Contains(t, view, "Upload limit exceeded (2 files/day)")
	assert.Contains(t, view, "Upload refused: daily limit reached.")
	assert.Contains(t, view, "new.pdf")
	assert.Equal(t, 1, f.backend.lists)
}

func TestRootFilePickerCancel(t *testing.T) {
	f := newFixture(t)
	f.press("u")

	_, cmd := f.root.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	assert.NotNil(t, cmd)
	assert.True(t, f.root.panel.picking)
	assert.Contains(t, f.root.View(), "Choose a PDF")

	f.press("esc")
	assert.False(t, f.root.panel.picking)
	assert.Equal(t, modeUpload, f.root.mode)
}

func TestRootQuit(t *testing.T) {
	f := newFixture(t)
	_, cmd := f.root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
