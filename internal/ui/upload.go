package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/notepid/pdf24/internal/browser"
	"github.com/notepid/pdf24/internal/upload"
)

// uploadPanel is the upload form shown over the document list.
type uploadPanel struct {
	model *browser.Model

	width  int
	height int

	form    *huh.Form
	picking bool
	path    string
	dir     string
}

func newUploadPanel(m *browser.Model, dir string) *uploadPanel {
	return &uploadPanel{model: m, dir: dir}
}

func (p *uploadPanel) SetSize(w, h int) {
	p.width, p.height = w, h
	if p.form != nil {
		p.form = p.form.WithWidth(w).WithHeight(h - 4)
	}
}

func (p *uploadPanel) startPick() tea.Cmd {
	p.path = ""
	p.picking = true
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewFilePicker().
				Title("Choose a PDF").
				Description("Max 50 MB").
				CurrentDirectory(p.dir).
				AllowedTypes([]string{".pdf", ".PDF"}).
				Value(&p.path).
				Picking(true),
		),
	).WithShowHelp(true)
	if p.width > 0 {
		p.form = p.form.WithWidth(p.width).WithHeight(p.height - 4)
	}
	return p.form.Init()
}

func (p *uploadPanel) stopPick() {
	p.picking = false
	p.form = nil
}

func (p *uploadPanel) Update(msg tea.Msg) tea.Cmd {
	if p.picking {
		return p.updatePicker(msg)
	}

	up := p.model.Upload
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc", "q":
		up.Close()
	case "f":
		if up.Phase() != browser.Uploading {
			return p.startPick()
		}
	case "v":
		up.ToggleVisibility()
	case "enter":
		return p.model.Submit()
	}
	return nil
}

func (p *uploadPanel) updatePicker(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		p.stopPick()
		return nil
	}

	updated, cmd := p.form.Update(msg)
	f, ok := updated.(*huh.Form)
	if !ok {
		p.stopPick()
		return nil
	}
	p.form = f

	switch p.form.State {
	case huh.StateCompleted:
		path := p.path
		p.stopPick()
		if path != "" {
			p.dir = filepath.Dir(path)
			_ = p.model.Upload.Choose(path)
		}
		return nil
	case huh.StateAborted:
		p.stopPick()
		return nil
	}
	return cmd
}

func (p *uploadPanel) View(spin string) string {
	if p.picking && p.form != nil {
		return p.form.View() + "\n\n" + dimStyle.Render("(esc cancel)")
	}

	up := p.model.Upload
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upload PDF") + "\n\n")

	if f, ok := up.File(); ok {
		fmt.Fprintf(&b, "File:       %s (%s)\n", f.Name, f.SizeLabel())
	} else {
		b.WriteString("File:       " + dimStyle.Render("none selected") + "\n")
	}
	fmt.Fprintf(&b, "Visibility: %s\n", visibilityLabel(up.Visibility()))

	if up.Phase() == browser.Uploading {
		b.WriteString("\n" + spin + " Uploading...\n")
	}
	if msg := up.Err(); msg != "" {
		b.WriteString("\n" + errStyle.Render(msg) + "\n")
	}

	hint := "(f choose file, v visibility, enter upload, esc close)"
	if !up.CanSubmit() {
		hint = "(f choose file, v visibility, esc close)"
	}
	b.WriteString("\n" + dimStyle.Render(hint))
	return b.String()
}

func visibilityLabel(v upload.Visibility) string {
	if v == upload.Private {
		return "Private (link only)"
	}
	return "Public (listed)"
}
