package browser

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/upload"
)

// Backend is the document service as seen by the client.
type Backend interface {
	ListPublic(ctx context.Context) ([]document.Document, error)
	Upload(ctx context.Context, intent upload.Intent) upload.Outcome
}

// Options configures a Model.
type Options struct {
	Resolver       document.LinkResolver
	Order          document.SortOrder
	UploadTimeout  time.Duration
	ListingTimeout time.Duration
	Log            *zap.Logger

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
	// After schedules a timer message; defaults to tea.Tick.
	After func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// CopiedMsg reports the result of a clipboard write.
type CopiedMsg struct {
	Text string
	Err  error
}

// Model is the complete client state. It is only changed from the bubbletea
// update goroutine: through the action methods and through Update.
type Model struct {
	Listing *Listing
	Upload  *Uploader
	Notices *Notifier

	resolver  document.LinkResolver
	clipboard func(string) error
	log       *zap.Logger

	search string
	order  document.SortOrder
	view   []document.Document
}

// New creates the client state around backend.
func New(backend Backend, opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	order := opts.Order
	if order == "" {
		order = document.Newest
	}
	m := &Model{
		Listing:   newListing(backend, opts.ListingTimeout, log.Named("listing")),
		Upload:    newUploader(backend, opts.UploadTimeout, log.Named("upload")),
		Notices:   newNotifier(opts.After),
		resolver:  opts.Resolver,
		clipboard: opts.Clipboard,
		log:       log,
		order:     order,
	}
	m.rearrange()
	return m
}

// Init performs the initial listing fetch.
func (m *Model) Init() tea.Cmd {
	return m.Listing.Refresh()
}

// Update applies an asynchronous result or timer message.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListingLoadedMsg:
		if m.Listing.apply(msg) {
			m.rearrange()
		}
		return nil
	case UploadFinishedMsg:
		return m.finishUpload(msg)
	case CopiedMsg:
		if msg.Err != nil {
			m.log.Warn("clipboard write failed", zap.Error(msg.Err))
			return m.Notices.flash("Copy failed")
		}
		return m.Notices.flash("Link copied")
	}
	m.Notices.update(msg)
	return nil
}

// Submit starts uploading the selected file. Re-entrant calls are ignored.
func (m *Model) Submit() tea.Cmd {
	cmd := m.Upload.submit()
	if cmd != nil {
		m.Notices.DismissShare()
	}
	return cmd
}

func (m *Model) finishUpload(msg UploadFinishedMsg) tea.Cmd {
	if !m.Upload.finish(msg) {
		m.log.Debug("ignoring stale upload result", zap.Uint64("attempt", msg.Attempt))
		return nil
	}
	switch msg.Outcome.Kind {
	case upload.Succeeded:
		m.Notices.clearRateLimit()
		cmds := []tea.Cmd{m.Notices.share(msg.Outcome.ShareURL)}
		if msg.Intent.Visibility == upload.Public {
			cmds = append(cmds, m.Listing.Refresh())
		}
		return tea.Batch(cmds...)
	case upload.RateLimited:
		return m.Notices.rateLimited()
	}
	return nil
}

// SetSearch changes the search term and recomputes the visible list.
func (m *Model) SetSearch(s string) {
	if s == m.search {
		return
	}
	m.search = s
	m.rearrange()
}

// SetOrder changes the sort order and recomputes the visible list.
func (m *Model) SetOrder(o document.SortOrder) {
	if o == m.order {
		return
	}
	m.order = o
	m.rearrange()
}

// ToggleOrder flips between newest and oldest first.
func (m *Model) ToggleOrder() {
	m.SetOrder(m.order.Toggle())
}

func (m *Model) rearrange() {
	m.view = document.Arrange(m.Listing.Documents(), m.search, m.order)
}

func (m *Model) Search() string            { return m.search }
func (m *Model) Order() document.SortOrder { return m.order }

// Visible is the filtered and sorted list.
func (m *Model) Visible() []document.Document {
	return m.view
}

// Link resolves a document link for opening.
func (m *Model) Link(d document.Document) string {
	return m.resolver.ToAbsolute(d.Link)
}

// ShareLink is the absolute form of the current share URL, or "".
func (m *Model) ShareLink() string {
	if m.Notices.ShareURL() == "" {
		return ""
	}
	return m.resolver.ToAbsolute(m.Notices.ShareURL())
}

// CopyShare copies the share link to the clipboard.
func (m *Model) CopyShare() tea.Cmd {
	return m.copy(m.ShareLink())
}

// CopyLink copies the absolute link of d to the clipboard.
func (m *Model) CopyLink(d document.Document) tea.Cmd {
	return m.copy(m.Link(d))
}

func (m *Model) copy(text string) tea.Cmd {
	if text == "" || m.clipboard == nil {
		return nil
	}
	write := m.clipboard
	return func() tea.Msg {
		return CopiedMsg{Text: text, Err: write(text)}
	}
}
