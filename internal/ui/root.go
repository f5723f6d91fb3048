package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notepid/pdf24/internal/app"
	"github.com/notepid/pdf24/internal/browser"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeUpload
)

type rootModel struct {
	app     *app.App
	browser *browser.Model

	width  int
	height int

	mode mode

	docs   list.Model
	search textinput.Model
	spin   spinner.Model
	panel  *uploadPanel
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func NewRootModel(a *app.App) tea.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Public documents"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "name contains..."
	ti.CharLimit = 120

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	return &rootModel{
		app:     a,
		browser: a.Browser,
		mode:    modeBrowse,
		docs:    l,
		search:  ti,
		spin:    sp,
		panel:   newUploadPanel(a.Browser, dir),
	}
}

func (m *rootModel) Init() tea.Cmd {
	return tea.Batch(m.browser.Init(), m.spin.Tick)
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.err = nil
		cmd := m.handleKey(msg)
		m.afterChange()
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case openedMsg:
		m.err = msg.err
		return m, nil
	}

	cmds := []tea.Cmd{m.browser.Update(msg)}
	if m.panel.picking {
		cmds = append(cmds, m.panel.Update(msg))
	}
	m.afterChange()
	return m, tea.Batch(cmds...)
}

func (m *rootModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeUpload:
		return m.panel.Update(msg)
	default:
		return m.updateBrowse(msg)
	}
}

func (m *rootModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		m.mode = modeSearch
		return m.search.Focus()
	case "s":
		m.browser.ToggleOrder()
		return nil
	case "u":
		m.browser.Upload.Open()
		m.mode = modeUpload
		return nil
	case "r":
		return m.browser.Listing.Refresh()
	case "c":
		return m.browser.CopyShare()
	case "x":
		m.browser.Notices.DismissShare()
		m.browser.Notices.DismissAlert()
		return nil
	case "y":
		if it, ok := m.docs.SelectedItem().(docItem); ok {
			return m.browser.CopyLink(it.doc)
		}
		return nil
	case "enter":
		if it, ok := m.docs.SelectedItem().(docItem); ok {
			return m.open(m.browser.Link(it.doc))
		}
		return nil
	}

	var cmd tea.Cmd
	m.docs, cmd = m.docs.Update(msg)
	return cmd
}

// openedMsg reports the result of handing a link to the desktop.
type openedMsg struct {
	url string
	err error
}

// open runs the URL handler off the update loop since it waits for the
// launcher to exit.
func (m *rootModel) open(url string) tea.Cmd {
	open := m.app.Open
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

func (m *rootModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeBrowse
		return nil
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.browser.SetSearch("")
		m.mode = modeBrowse
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.browser.SetSearch(m.search.Value())
	return cmd
}

// afterChange brings the widgets in line with the browser state.
func (m *rootModel) afterChange() {
	if m.mode == modeUpload && !m.browser.Upload.IsOpen() {
		m.panel.stopPick()
		m.mode = modeBrowse
	}
	m.docs.SetItems(docItems(m.browser.Visible()))
}

func (m *rootModel) resize() {
	m.docs.SetSize(m.width, max(m.height-8, 3))
	m.search.Width = max(m.width-10, 10)
	m.panel.SetSize(m.width, m.height-4)
}

func (m *rootModel) View() string {
	var b strings.Builder

	quota := m.app.Config.Client.QuotaLabel
	b.WriteString(titleStyle.Render("PDF24") + dimStyle.Render("  "+m.browser.Order().Label()+" • upload limit "+quota) + "\n")

	n := m.browser.Notices
	if n.Banner() {
		b.WriteString(bannerStyle.Render("Upload limit exceeded ("+quota+")") + "\n")
	}
	if n.Alert() {
		b.WriteString(errStyle.Render("Upload refused: daily limit reached. Try again tomorrow.") + "\n")
	}
	if link := m.browser.ShareLink(); link != "" {
		b.WriteString(okStyle.Render("Uploaded: ") + link + dimStyle.Render("  (c copy, x dismiss)") + "\n")
	}
	if m.mode == modeSearch || m.browser.Search() != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.mode == modeUpload:
		b.WriteString(m.panel.View(m.spin.View()))
	case m.browser.Listing.Loading() && len(m.browser.Visible()) == 0:
		b.WriteString(m.spin.View() + " Loading documents...")
	case len(m.browser.Visible()) == 0:
		b.WriteString(dimStyle.Render("No documents found."))
	default:
		b.WriteString(m.docs.View())
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("Error: ") + m.err.Error() + "\n")
	}
	if s := n.Status(); s != "" {
		b.WriteString(okStyle.Render(s) + "\n")
	}
	if m.mode == modeBrowse {
		b.WriteString(dimStyle.Render("/ search • s sort • u upload • enter open • y copy link • r reload • q quit"))
	}
	return b.String()
}
