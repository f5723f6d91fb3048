package browser

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	ShareTTL  = 6 * time.Second
	AlertTTL  = 4 * time.Second
	StatusTTL = 2 * time.Second
)

// ShareExpiredMsg, AlertExpiredMsg and StatusExpiredMsg are timer expiries.
// Gen ties each expiry to the notification it was armed for.
type ShareExpiredMsg struct{ Gen uint64 }
type AlertExpiredMsg struct{ Gen uint64 }
type StatusExpiredMsg struct{ Gen uint64 }

// Notifier holds the transient feedback surfaces.
type Notifier struct {
	after func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	shareURL string
	shareGen uint64

	banner   bool
	alert    bool
	alertGen uint64

	status    string
	statusGen uint64
}

func newNotifier(after func(time.Duration, func(time.Time) tea.Msg) tea.Cmd) *Notifier {
	if after == nil {
		after = tea.Tick
	}
	return &Notifier{after: after}
}

// share shows url and arms its auto-dismiss timer.
func (n *Notifier) share(url string) tea.Cmd {
	n.shareURL = url
	n.shareGen++
	gen := n.shareGen
	return n.after(ShareTTL, func(time.Time) tea.Msg { return ShareExpiredMsg{Gen: gen} })
}

// DismissShare clears the share notification.
func (n *Notifier) DismissShare() {
	n.shareURL = ""
}

// rateLimited raises the banner and re-arms the transient alert.
func (n *Notifier) rateLimited() tea.Cmd {
	n.banner = true
	n.alert = true
	n.alertGen++
	gen := n.alertGen
	return n.after(AlertTTL, func(time.Time) tea.Msg { return AlertExpiredMsg{Gen: gen} })
}

// clearRateLimit drops both the banner and the alert.
func (n *Notifier) clearRateLimit() {
	n.banner = false
	n.alert = false
}

// DismissAlert hides the transient alert; the banner stays.
func (n *Notifier) DismissAlert() {
	n.alert = false
}

func (n *Notifier) flash(text string) tea.Cmd {
	n.status = text
	n.statusGen++
	gen := n.statusGen
	return n.after(StatusTTL, func(time.Time) tea.Msg { return StatusExpiredMsg{Gen: gen} })
}

// update handles timer expiries. Expiries from an older generation are ignored.
func (n *Notifier) update(msg tea.Msg) {
	switch msg := msg.(type) {
	case ShareExpiredMsg:
		if msg.Gen == n.shareGen {
			n.shareURL = ""
		}
	case AlertExpiredMsg:
		if msg.Gen == n.alertGen {
			n.alert = false
		}
	case StatusExpiredMsg:
		if msg.Gen == n.statusGen {
			n.status = ""
		}
	}
}

// ShareURL is the share link exactly as returned by the backend, or "".
func (n *Notifier) ShareURL() string { return n.shareURL }

// Banner reports whether the persistent rate-limit banner is showing.
func (n *Notifier) Banner() bool { return n.banner }

// Alert reports whether the transient rate-limit alert is showing.
func (n *Notifier) Alert() bool { return n.alert }

// Status is the short-lived status line text.
func (n *Notifier) Status() string { return n.status }
