// Package main provides the entry point for the Input Mapper editor.
package main

import (
	"flag"
	"log"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"input-mapper/assets"
	"input-mapper/internal/app"
	"input-mapper/internal/catalog"
	"input-mapper/internal/export"
	"input-mapper/internal/scene"
	"input-mapper/internal/version"
	"input-mapper/ui/mainwindow"
	"input-mapper/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "", "YAML config overriding the editor defaults")
	flag.Parse()

	log.Printf("Starting Input Mapper v%s", version.Version)

	cfg := app.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	appPrefs := prefs.Load()
	appPrefs.ApplyTo(&cfg)

	cat, err := catalog.Load(assets.FS(), assets.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	if _, err := cat.Device(cfg.DefaultDevice); err != nil {
		log.Printf("Prefs: %v; using %s", err, app.DefaultConfig().DefaultDevice)
		cfg.DefaultDevice = app.DefaultConfig().DefaultDevice
	}
	measurer, err := scene.NewFontMeasurer(cfg.FontSize)
	if err != nil {
		log.Fatalf("Failed to load label font: %v", err)
	}
	session, err := app.NewSession(cfg, cat, assets.FS(), measurer)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	fyneApp := fyneapp.NewWithID("io.github.input-mapper")
	fyneApp.Settings().SetTheme(&app.EditorTheme{})

	win := mainwindow.New(fyneApp, session, appPrefs, export.NewIcons(assets.FS()))
	if flag.NArg() > 0 {
		win.OpenFile(flag.Arg(0))
	}

	// Preferences are flushed periodically so a crash loses little.
	go func() {
		for range time.Tick(2 * time.Second) {
			if err := appPrefs.SaveIfChanged(); err != nil {
				log.Printf("Prefs: save: %v", err)
			}
		}
	}()

	win.ShowAndRun()
}
