package app

import (
	"log"

	"input-mapper/internal/mapping"
	"input-mapper/internal/project"
)

// Document captures the session as an exportable document.
func (s *Session) Document() *mapping.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := mapping.NewDocument(s.title, s.deviceType, s.model.Labels())
	doc.Color = s.colors.Body
	doc.SecondaryColor = s.colors.Secondary
	doc.AccentColor = s.colors.Accent
	style := s.style
	doc.Line = &style
	return doc
}

// Import replaces the working document with doc. The device illustration is
// loaded first; if that fails the session is left untouched.
func (s *Session) Import(doc *mapping.Document) error {
	if _, err := s.catalog.Device(doc.Type); err != nil {
		return err
	}
	ill, err := s.loadIllustration(doc.Type)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.model.Restore(doc.ModelLabels(), doc.Type)
	s.title = doc.Title
	s.deviceType = doc.Type
	s.ill = ill
	body := doc.Color
	if body == "" {
		body = mapping.DefaultImportColor
	}
	s.colors = Colors{Body: body, Secondary: doc.SecondaryColor, Accent: doc.AccentColor}
	if doc.Line != nil {
		s.style = doc.Line.Normalized()
	}
	s.dirty = true
	s.modified = false
	stale := s.model.Stale(doc.Type)
	s.mu.Unlock()

	for _, l := range stale {
		log.Printf("Session: imported label %q uses key %q, not on %s", l.Text, l.Key, doc.Type)
	}
	s.Emit(EventDocumentLoaded, doc.Title)
	return nil
}

// ImportData parses data in format f and imports it. Malformed data leaves
// the session untouched.
func (s *Session) ImportData(data []byte, f mapping.Format) error {
	doc, err := mapping.Decode(data, f)
	if err != nil {
		return err
	}
	return s.Import(doc)
}

// EncodeDocument serializes the session in format f.
func (s *Session) EncodeDocument(f mapping.Format) ([]byte, error) {
	return mapping.Encode(s.Document(), f)
}

// Open loads a document file.
func (s *Session) Open(path string) error {
	doc, err := project.Load(path)
	if err != nil {
		return err
	}
	if err := s.Import(doc); err != nil {
		return err
	}
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	return nil
}

// Save writes the document to path and associates the session with it.
func (s *Session) Save(path string) error {
	if err := project.Save(path, s.Document()); err != nil {
		return err
	}
	s.mu.Lock()
	s.path = path
	s.modified = false
	s.mu.Unlock()
	s.Emit(EventDocumentSaved, path)
	s.Emit(EventModified, false)
	return nil
}
