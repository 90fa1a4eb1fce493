package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"input-mapper/internal/connector"
	"input-mapper/pkg/colorutil"
)

// Document colours.
const (
	DefaultColor       = "#192752"
	DefaultImportColor = "#242424"
	DefaultTitle       = "Untitled"
)

// ErrInvalidDocument is returned for documents that parse but cannot be
// loaded.
var ErrInvalidDocument = errors.New("invalid mapping document")

// DocumentLabel is a label as written to a document file.
type DocumentLabel struct {
	ID      string  `json:"id,omitempty" msgpack:"id,omitempty"`
	Key     string  `json:"key" msgpack:"key"`
	Text    string  `json:"text" msgpack:"text"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	TargetX float64 `json:"targetX" msgpack:"targetX"`
	TargetY float64 `json:"targetY" msgpack:"targetY"`
}

// Document is the exportable unit: title, device, colours, line style and
// the ordered labels.
type Document struct {
	Title          string           `json:"title" msgpack:"title"`
	Type           string           `json:"type" msgpack:"type"`
	Color          string           `json:"color,omitempty" msgpack:"color,omitempty"`
	SecondaryColor string           `json:"secondaryColor,omitempty" msgpack:"secondaryColor,omitempty"`
	AccentColor    string           `json:"accentColor,omitempty" msgpack:"accentColor,omitempty"`
	Line           *connector.Style `json:"line,omitempty" msgpack:"line,omitempty"`
	Labels         []DocumentLabel  `json:"labels" msgpack:"labels"`
}

// NewDocument captures labels into a document.
func NewDocument(title, deviceType string, labels []Label) *Document {
	doc := &Document{
		Title:  title,
		Type:   deviceType,
		Color:  DefaultColor,
		Labels: make([]DocumentLabel, len(labels)),
	}
	for i, l := range labels {
		doc.Labels[i] = DocumentLabel{
			ID:      l.ID,
			Key:     l.Key,
			Text:    l.Text,
			X:       l.X,
			Y:       l.Y,
			TargetX: l.TargetX,
			TargetY: l.TargetY,
		}
	}
	return doc
}

// ModelLabels converts the document labels for Model.Restore. Ids are
// dropped.
func (d *Document) ModelLabels() []Label {
	out := make([]Label, len(d.Labels))
	for i, dl := range d.Labels {
		out[i] = Label{
			Key:        dl.Key,
			DeviceType: d.Type,
			Text:       dl.Text,
			X:          dl.X,
			Y:          dl.Y,
			TargetX:    dl.TargetX,
			TargetY:    dl.TargetY,
		}
	}
	return out
}

// normalize fills defaults after decoding.
func (d *Document) normalize() error {
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("%w: missing device type", ErrInvalidDocument)
	}
	d.Color = colorutil.NormalizeHex(d.Color, DefaultImportColor)
	if d.SecondaryColor != "" {
		d.SecondaryColor = colorutil.NormalizeHex(d.SecondaryColor, "")
	}
	if d.AccentColor != "" {
		d.AccentColor = colorutil.NormalizeHex(d.AccentColor, "")
	}
	if d.Line != nil {
		s := d.Line.Normalized()
		d.Line = &s
	}
	for i, l := range d.Labels {
		if l.Key == "" {
			return fmt.Errorf("%w: label %d has no key", ErrInvalidDocument, i)
		}
	}
	return nil
}

// EncodeJSON writes the document as indented JSON.
func EncodeJSON(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// DecodeJSON parses a JSON document. A missing colour falls back to
// DefaultImportColor.
func DecodeJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// EncodeBinary writes the document in the compact msgpack form.
func EncodeBinary(d *Document) ([]byte, error) {
	return msgpack.Marshal(d)
}

// DecodeBinary parses a msgpack document.
func DecodeBinary(data []byte) (*Document, error) {
	var d Document
	if err := msgpack.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Format is a document file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatBinary
)

// BinaryExt is the extension of msgpack documents.
const BinaryExt = ".mapk"

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), BinaryExt) {
		return FormatBinary
	}
	return FormatJSON
}

// Encode writes d in format f.
func Encode(d *Document, f Format) ([]byte, error) {
	if f == FormatBinary {
		return EncodeBinary(d)
	}
	return EncodeJSON(d)
}

// Decode parses data in format f.
func Decode(data []byte, f Format) (*Document, error) {
	if f == FormatBinary {
		return DecodeBinary(data)
	}
	return DecodeJSON(data)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName derives a download name from the title: whitespace runs become
// underscores and an empty title becomes DefaultTitle.
func FileName(title, ext string) string {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return whitespace.ReplaceAllString(title, "_") + ext
}
