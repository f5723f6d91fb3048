package document

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortOrder selects the direction of the listing.
type SortOrder string

const (
	Newest SortOrder = "newest"
	Oldest SortOrder = "oldest"
)

// ParseSortOrder accepts "newest" or "oldest".
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case Newest:
		return Newest, nil
	case Oldest:
		return Oldest, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Toggle flips between newest and oldest.
func (o SortOrder) Toggle() SortOrder {
	if o == Oldest {
		return Newest
	}
	return Oldest
}

// Label is the human readable name of the order.
func (o SortOrder) Label() string {
	if o == Oldest {
		return "Oldest First"
	}
	return "Newest First"
}

// Filter keeps documents whose name contains search, ignoring case.
// The result is a new slice; docs is never modified.
func Filter(docs []Document, search string) []Document {
	needle := strings.ToLower(search)
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders docs in place by resolved timestamp. Equal stamps keep their
// relative order.
func Sort(docs []Document, order SortOrder) {
	slices.SortStableFunc(docs, func(a, b Document) int {
		if order == Oldest {
			return cmp.Compare(a.Stamp.Millis, b.Stamp.Millis)
		}
		return cmp.Compare(b.Stamp.Millis, a.Stamp.Millis)
	})
}

// Arrange derives the displayed list from the full list, a search term and an order.
func Arrange(docs []Document, search string, order SortOrder) []Document {
	out := Filter(docs, search)
	Sort(out, order)
	return out
}
