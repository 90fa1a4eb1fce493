// Package project reads and writes mapping documents on disk.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"input-mapper/internal/mapping"
)

// Extensions of the supported document files.
const (
	JSONExt = ".json"
	SVGExt  = ".svg"
	PNGExt  = ".png"
)

// Load reads a document, picking the encoding from the file extension.
func Load(path string) (*mapping.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := mapping.Decode(data, mapping.FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes a document, picking the encoding from the file extension.
func Save(path string, doc *mapping.Document) error {
	data, err := mapping.Encode(doc, mapping.FormatForPath(path))
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data through a temporary file in the same directory so a
// failed write never truncates an existing file.
func WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ExportPath returns where an export of the document titled title goes:
// next to docPath when it is set, otherwise in dir.
func ExportPath(docPath, dir, title, ext string) string {
	if docPath != "" {
		dir = filepath.Dir(docPath)
	}
	return filepath.Join(dir, mapping.FileName(title, ext))
}

// Resolve returns path made absolute against the directory of docPath.
func Resolve(docPath, path string) string {
	if path == "" || filepath.IsAbs(path) || docPath == "" {
		return path
	}
	return filepath.Join(filepath.Dir(docPath), path)
}
