package document

import (
	"net/url"
	"strings"
)

// DefaultOrigin is the placeholder origin used when nothing else is configured.
const DefaultOrigin = "http://localhost:3000"

// LinkResolver turns backend links into absolute URLs.
type LinkResolver struct {
	// APIBase is the configured backend base URL. It may be empty.
	APIBase string
	// Origin stands in for the page origin when APIBase is unusable.
	Origin string
}

// Base returns the base URL relative links are joined onto.
func (r LinkResolver) Base() string {
	base := strings.TrimSpace(r.APIBase)
	if base == "" || base == "/" || strings.TrimRight(base, "/") == DefaultOrigin {
		base = r.Origin
		if base == "" {
			base = DefaultOrigin
		}
	}
	return base
}

// ToAbsolute returns link unchanged when it already names a network location,
// otherwise joins it onto Base with exactly one slash between them.
func (r LinkResolver) ToAbsolute(link string) string {
	if IsAbsolute(link) {
		return link
	}
	return strings.TrimRight(r.Base(), "/") + "/" + strings.TrimLeft(link, "/")
}

// IsAbsolute reports whether link carries both a scheme and a host.
func IsAbsolute(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
