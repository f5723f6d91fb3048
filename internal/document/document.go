package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Document is one PDF record as listed by the backend.
type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Link       string `json:"link"`
	Size       string `json:"size,omitempty"`
	Time       int64  `json:"time,omitempty"`
	Date       string `json:"date,omitempty"`
	UploadDate string `json:"uploadDate,omitempty"`

	// Stamp is resolved from Time, Date and UploadDate when the record is decoded.
	Stamp Stamp `json:"-"`
}

// UnmarshalJSON decodes a backend record and resolves its timestamp.
func (d *Document) UnmarshalJSON(data []byte) error {
	type raw Document
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*d = Document(r)
	d.Stamp = Resolve(d.Time, d.Date, d.UploadDate)
	return nil
}

// New builds a document and resolves its timestamp the same way decoding does.
func New(id, name, link string, epochMillis int64, date, uploadDate string) Document {
	return Document{
		ID:         id,
		Name:       name,
		Link:       link,
		Time:       epochMillis,
		Date:       date,
		UploadDate: uploadDate,
		Stamp:      Resolve(epochMillis, date, uploadDate),
	}
}

// DisplayName is the name without a trailing .pdf extension.
func (d Document) DisplayName() string {
	if len(d.Name) >= 4 && strings.EqualFold(d.Name[len(d.Name)-4:], ".pdf") {
		return d.Name[:len(d.Name)-4]
	}
	return d.Name
}

// DisplayDate renders the field the stamp was resolved from. Undated
// records render as an empty string.
func (d Document) DisplayDate() string {
	if d.Stamp.Millis == 0 {
		return ""
	}
	t := d.Stamp.Instant().Local()
	switch d.Stamp.Kind {
	case StampTime:
		return t.Format("02 Jan 2006, 3:04 pm")
	default:
		return t.Format("02 Jan 2006")
	}
}

// Decode parses a JSON array of documents. A JSON null decodes to an empty list.
func Decode(data []byte) ([]Document, error) {
	return DecodeFrom(bytes.NewReader(data))
}

// DecodeFrom streams a JSON array of documents from r. Anything after the
// array other than whitespace is an error.
func DecodeFrom(r io.Reader) ([]Document, error) {
	dec := json.NewDecoder(r)
	var docs []Document
	if err := dec.Decode(&docs); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after document list")
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}
