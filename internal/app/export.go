package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"input-mapper/internal/export"
	"input-mapper/internal/mapping"
	"input-mapper/internal/project"
	"input-mapper/internal/scene"
)

func (s *Session) exportOptions() export.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.icons == nil {
		s.icons = export.NewIcons(s.assets)
	}
	return export.Options{Icons: s.icons, Title: s.title}
}

// ExportSVG writes the document as a standalone SVG.
func (s *Session) ExportSVG(ctx context.Context, w io.Writer) error {
	opts := s.exportOptions()
	return s.Export(func(sc *scene.Scene) error {
		return export.WriteSVG(ctx, w, sc, opts)
	})
}

// ExportPNG writes the document as a PNG at the configured raster scale.
func (s *Session) ExportPNG(ctx context.Context, w io.Writer) error {
	opts := s.exportOptions()
	return s.Export(func(sc *scene.Scene) error {
		return export.WritePNG(ctx, w, sc, s.cfg.RasterScale, opts)
	})
}

// ExportFile renders the document in the format named by ext and writes it
// next to the document file, or into dir for an unsaved document. It returns
// the written path.
func (s *Session) ExportFile(ctx context.Context, dir, ext string) (string, error) {
	var buf bytes.Buffer
	var err error
	switch ext {
	case project.SVGExt:
		err = s.ExportSVG(ctx, &buf)
	case project.PNGExt:
		err = s.ExportPNG(ctx, &buf)
	case project.JSONExt, mapping.BinaryExt:
		var data []byte
		data, err = s.EncodeDocument(mapping.FormatForPath(ext))
		buf.Write(data)
	default:
		return "", fmt.Errorf("unsupported export format %q", ext)
	}
	if err != nil {
		return "", err
	}

	path := project.ExportPath(s.Path(), dir, s.Title(), ext)
	if err := project.WriteFile(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
