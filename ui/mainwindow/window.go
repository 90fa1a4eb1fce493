// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"input-mapper/internal/app"
	"input-mapper/internal/export"
	"input-mapper/internal/mapping"
	"input-mapper/internal/project"
	"input-mapper/internal/version"
	"input-mapper/ui/canvas"
	"input-mapper/ui/panels"
	"input-mapper/ui/prefs"
)

const appTitle = "Input Mapper"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	session   *app.Session
	prefs     *prefs.Prefs
	canvas    *canvas.Workspace
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	zoomLabel *widget.Label
}

// New creates the main window for session.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs, icons *export.Icons) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.canvas = canvas.NewWorkspace(session, icons)
	mw.restorePreferences()
	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.updateTitle()

	win.SetCloseIntercept(mw.onClose)
	mw.canvas.Start()
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.sidePanel = panels.NewSidePanel(mw.session, mw.canvas)
	mw.sidePanel.SetWindow(mw.Window)
	mw.sidePanel.OnStatus(mw.updateStatus)

	mw.statusBar = widget.NewLabel("Ready")
	mw.canvas.OnPreview(func(text string) {
		if text == "" {
			text = "Ready"
		}
		mw.updateStatus(text)
	})

	canvasArea := container.NewBorder(
		mw.createToolbar(),
		nil,
		nil,
		nil,
		mw.canvas,
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)

	w := mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1500)
	h := mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 900)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

// createToolbar creates the toolbar with zoom and export controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.zoomLabel = widget.NewLabel("100%")
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.onZoomOut),
		mw.zoomLabel,
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("1:1", mw.onResetZoom),
		widget.NewSeparator(),
		widget.NewButton("Export SVG", func() { mw.onExport(project.SVGExt) }),
		widget.NewButton("Export PNG", func() { mw.onExport(project.PNGExt) }),
		widget.NewButton("Export JSON", func() { mw.onExport(project.JSONExt) }),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", mw.onNew),
		fyne.NewMenuItem("Open...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItem("Save As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export SVG", func() { mw.onExport(project.SVGExt) }),
		fyne.NewMenuItem("Export PNG", func() { mw.onExport(project.PNGExt) }),
		fyne.NewMenuItem("Export JSON", func() { mw.onExport(project.JSONExt) }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Label", mw.onDeleteSelected),
		fyne.NewMenuItem("Clear All", func() {
			dialog.ShowConfirm("Clear All", "Remove every label?", func(ok bool) {
				if ok {
					mw.session.ClearAll()
				}
			}, mw.Window)
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onResetZoom),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDeleteSelected()
		case fyne.KeyEscape:
			mw.canvas.ArmKey("")
			mw.canvas.Select("")
		}
	})
	mw.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case '+', '=':
			mw.onZoomIn()
		case '-':
			mw.onZoomOut()
		case '0':
			mw.onResetZoom()
		}
	})
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventDocumentLoaded, func(interface{}) {
		mw.updateTitle()
		mw.sidePanel.Refresh()
		mw.updateStatus(fmt.Sprintf("Loaded %d label(s)", len(mw.session.Labels())))
	})
	mw.session.On(app.EventDocumentSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
	})
	mw.session.On(app.EventModified, func(interface{}) {
		mw.updateTitle()
	})
	mw.session.On(app.EventZoomChanged, func(data interface{}) {
		if z, ok := data.(float64); ok {
			mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", z*100))
			mw.prefs.SetFloat(prefs.KeyZoom, z)
		}
	})
	mw.session.On(app.EventDeviceChanged, func(data interface{}) {
		if t, ok := data.(string); ok {
			mw.prefs.SetString(prefs.KeyDevice, t)
		}
	})
	mw.session.On(app.EventStyleChanged, func(interface{}) {
		st := mw.session.Style()
		mw.prefs.SetString(prefs.KeyLineStyle, string(st.Dash))
		mw.prefs.SetString(prefs.KeyLineType, string(st.Shape))
		mw.prefs.SetString(prefs.KeyLineEnd, string(st.End))
		mw.prefs.SetString(prefs.KeyLineColor, st.Color)
		mw.prefs.SetFloat(prefs.KeyLineWidth, st.Width)
	})
}

// restorePreferences applies the saved zoom. Device and line style are
// applied to the config before the session is created.
func (mw *MainWindow) restorePreferences() {
	if z := mw.prefs.Float(prefs.KeyZoom); z > 0 {
		if _, err := mw.session.SetZoom(z); err != nil {
			log.Printf("Prefs: zoom: %v", err)
		}
	}
}

// SavePreferences writes the window size and session settings.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.Printf("Prefs: save: %v", err)
	}
}

// OpenFile loads a document given on the command line.
func (mw *MainWindow) OpenFile(path string) {
	if err := mw.session.Open(path); err != nil {
		log.Printf("Failed to open %s: %v", path, err)
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.saveLastDir(path)
}

func (mw *MainWindow) updateTitle() {
	title := appTitle
	if t := mw.session.Title(); t != "" {
		title += " - " + t
	} else if p := mw.session.Path(); p != "" {
		title += " - " + filepath.Base(p)
	}
	if mw.session.Modified() {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
	mw.prefs.SetString(prefs.KeyLastDocument, filePath)
}

func (mw *MainWindow) exportDir() string {
	if dir := mw.prefs.String(prefs.KeyLastDirectory); dir != "" {
		return dir
	}
	return "."
}

// Menu action handlers

func (mw *MainWindow) onNew() {
	discard := func(ok bool) {
		if !ok {
			return
		}
		doc := mapping.NewDocument("", mw.session.DeviceType(), nil)
		st := mw.session.Style()
		doc.Line = &st
		if err := mw.session.Import(doc); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}
	if !mw.session.Modified() {
		discard(true)
		return
	}
	dialog.ShowConfirm("New Document", "Discard unsaved changes?", discard, mw.Window)
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenFile(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.JSONExt, mapping.BinaryExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSave() {
	path := mw.session.Path()
	if path == "" {
		mw.onSaveAs()
		return
	}
	if err := mw.session.Save(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		ext := strings.ToLower(filepath.Ext(path))
		if ext != project.JSONExt && ext != mapping.BinaryExt {
			path += project.JSONExt
		}
		mw.saveLastDir(path)
		if err := mw.session.Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(mapping.FileName(mw.session.Title(), project.JSONExt))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExport(ext string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	path, err := mw.session.ExportFile(ctx, mw.exportDir(), ext)
	if err != nil {
		log.Printf("Export: %v", err)
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Exported " + path)
}

func (mw *MainWindow) onDeleteSelected() {
	if id := mw.canvas.Selected(); id != "" {
		mw.session.RemoveLabel(id)
		mw.canvas.Select("")
	}
}

func (mw *MainWindow) onZoomIn() {
	mw.zoom(mw.session.ZoomIn)
}

func (mw *MainWindow) onZoomOut() {
	mw.zoom(mw.session.ZoomOut)
}

func (mw *MainWindow) onResetZoom() {
	mw.zoom(mw.session.ResetZoom)
}

func (mw *MainWindow) zoom(fn func() (float64, error)) {
	if _, err := fn(); err != nil {
		mw.updateStatus("Zoom: " + err.Error())
	}
}

func (mw *MainWindow) onClose() {
	closeNow := func(ok bool) {
		if !ok {
			return
		}
		mw.canvas.Stop()
		mw.SavePreferences()
		mw.Close()
	}
	if !mw.session.Modified() {
		closeNow(true)
		return
	}
	dialog.ShowConfirm("Quit", "Discard unsaved changes?", closeNow, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Label controller, keyboard and mouse inputs\n"+
			"and export the diagram as SVG or PNG.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
