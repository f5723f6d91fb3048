package document

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// StampKind records which date field a Stamp was resolved from.
type StampKind int

const (
	StampNone StampKind = iota
	StampTime
	StampDate
	StampUploadDate
)

func (k StampKind) String() string {
	switch k {
	case StampTime:
		return "time"
	case StampDate:
		return "date"
	case StampUploadDate:
		return "uploadDate"
	default:
		return "none"
	}
}

// Stamp is the single comparable instant of a document, in epoch milliseconds.
// Millis is 0 for undated documents and for date strings that do not parse.
type Stamp struct {
	Kind   StampKind
	Millis int64
}

// Instant converts the stamp to a time.Time in UTC.
func (s Stamp) Instant() time.Time {
	return time.UnixMilli(s.Millis).UTC()
}

// Resolve picks the timestamp in strict priority order: time, then date,
// then uploadDate. The first present field wins even when it fails to parse.
func Resolve(epochMillis int64, date, uploadDate string) Stamp {
	switch {
	case epochMillis != 0:
		return Stamp{Kind: StampTime, Millis: epochMillis}
	case strings.TrimSpace(date) != "":
		return Stamp{Kind: StampDate, Millis: parseDate(date)}
	case strings.TrimSpace(uploadDate) != "":
		return Stamp{Kind: StampUploadDate, Millis: parseDate(uploadDate)}
	default:
		return Stamp{}
	}
}

// jsDateLayouts are the Date.toString family, tried before dateparse.
var jsDateLayouts = []string{
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05",
	"Mon Jan 2 2006",
	"Jan 2 2006 15:04:05",
	"Jan 2 2006 15:04",
	"Jan 2 2006",
}

func parseDate(s string) int64 {
	s = strings.TrimSpace(s)
	js := s
	// Date.toString appends "(Zone Name)".
	if i := strings.Index(js, " ("); i > 0 && strings.HasSuffix(js, ")") {
		js = js[:i]
	}
	for _, layout := range jsDateLayouts {
		if t, err := time.ParseInLocation(layout, js, time.UTC); err == nil {
			return t.UnixMilli()
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.UnixMilli()
	}
	return 0
}
