package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/notepid/pdf24/internal/document"
)

type docItem struct {
	doc document.Document
}

func (i docItem) Title() string { return i.doc.DisplayName() }

func (i docItem) Description() string {
	var parts []string
	if d := i.doc.DisplayDate(); d != "" {
		parts = append(parts, d)
	}
	if i.doc.Size != "" {
		parts = append(parts, i.doc.Size)
	}
	return strings.Join(parts, " • ")
}

func (i docItem) FilterValue() string { return i.doc.Name }

func docItems(docs []document.Document) []list.Item {
	items := make([]list.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, docItem{doc: d})
	}
	return items
}
