package browser

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/document"
)

// ListingLoadedMsg carries the result of one listing fetch.
type ListingLoadedMsg struct {
	Seq  uint64
	Docs []document.Document
	Err  error
}

// Listing owns the authoritative list of public documents.
type Listing struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger

	docs    []document.Document
	issued  uint64
	applied uint64
}

func newListing(b Backend, timeout time.Duration, log *zap.Logger) *Listing {
	return &Listing{backend: b, timeout: timeout, log: log, docs: []document.Document{}}
}

// Refresh starts a fetch tagged with the next sequence number.
func (l *Listing) Refresh() tea.Cmd {
	l.issued++
	seq := l.issued
	backend, timeout := l.backend, l.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		docs, err := backend.ListPublic(ctx)
		return ListingLoadedMsg{Seq: seq, Docs: docs, Err: err}
	}
}

// apply replaces the list with msg unless a newer response was already applied.
// It reports whether the list changed.
func (l *Listing) apply(msg ListingLoadedMsg) bool {
	if msg.Seq <= l.applied {
		l.log.Debug("discarding stale listing", zap.Uint64("seq", msg.Seq), zap.Uint64("applied", l.applied))
		return false
	}
	l.applied = msg.Seq
	if msg.Err != nil {
		l.log.Warn("listing fetch failed", zap.Uint64("seq", msg.Seq), zap.Error(msg.Err))
		l.docs = []document.Document{}
		return true
	}
	docs := msg.Docs
	if docs == nil {
		docs = []document.Document{}
	}
	l.docs = docs
	return true
}

// Documents returns the current list. Callers must not modify it.
func (l *Listing) Documents() []document.Document {
	return l.docs
}

// Loading reports whether the newest issued fetch has not landed yet.
func (l *Listing) Loading() bool {
	return l.applied < l.issued
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
