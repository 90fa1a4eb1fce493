package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"input-mapper/assets"
	"input-mapper/internal/app"
	"input-mapper/internal/catalog"
	"input-mapper/internal/project"
	"input-mapper/internal/scene"
)

func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(assets.FS(), assets.CatalogFile)
}

// openSession loads the document at path into a fresh session.
func openSession(configPath, path string) (*app.Session, error) {
	cfg := app.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	measurer, err := scene.NewFontMeasurer(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	s, err := app.NewSession(cfg, cat, assets.FS(), measurer)
	if err != nil {
		return nil, err
	}
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// formatExt maps a --format value to a file extension.
func formatExt(format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "svg":
		return project.SVGExt, nil
	case "png":
		return project.PNGExt, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg or png)", format)
}

// render writes the session's document as ext to output, or next to the
// document under its title when output is empty.
func render(ctx context.Context, s *app.Session, ext, output string) (string, error) {
	if output == "" {
		return s.ExportFile(ctx, "", ext)
	}
	var buf bytes.Buffer
	var err error
	if ext == project.PNGExt {
		err = s.ExportPNG(ctx, &buf)
	} else {
		err = s.ExportSVG(ctx, &buf)
	}
	if err != nil {
		return "", err
	}
	if err := project.WriteFile(output, buf.Bytes()); err != nil {
		return "", err
	}
	return output, nil
}
