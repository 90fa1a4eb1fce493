// Package panels provides the editor side panels: the key palette, the
// label editor and the document style controls.
package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"input-mapper/internal/app"
	"input-mapper/internal/mapping"
	"input-mapper/ui/canvas"
)

// SidePanel holds the tabbed panels next to the workspace.
type SidePanel struct {
	session *app.Session
	canvas  *canvas.Workspace
	window  fyne.Window

	palette *PalettePanel
	label   *LabelPanel
	style   *StylePanel

	tabs *container.AppTabs

	onStatus func(text string)
}

// NewSidePanel creates the side panel.
func NewSidePanel(session *app.Session, cvs *canvas.Workspace) *SidePanel {
	sp := &SidePanel{session: session, canvas: cvs}
	sp.palette = NewPalettePanel(session, cvs, sp.status)
	sp.label = NewLabelPanel(session, cvs, sp.status)
	sp.style = NewStylePanel(session, sp.status)

	sp.tabs = container.NewAppTabs(
		container.NewTabItem("Keys", sp.palette.Container()),
		container.NewTabItem("Label", sp.label.Container()),
		container.NewTabItem("Style", sp.style.Container()),
	)

	cvs.OnSelect(func(id string) {
		sp.label.Edit(id)
		sp.tabs.SelectIndex(1)
	})
	cvs.OnDrop(func(l mapping.Label, err error) {
		if err != nil {
			sp.status("Cannot place key: " + err.Error())
			return
		}
		cvs.Select(l.ID)
		sp.label.Edit(l.ID)
		sp.tabs.SelectIndex(1)
		sp.status("Placed " + l.Key)
	})
	return sp
}

// Container returns the panel for embedding in layouts.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.tabs
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.window = w
	sp.style.SetWindow(w)
	sp.label.SetWindow(w)
}

// OnStatus sets the callback for status bar messages.
func (sp *SidePanel) OnStatus(callback func(text string)) {
	sp.onStatus = callback
}

// Refresh re-reads the session into every panel.
func (sp *SidePanel) Refresh() {
	sp.palette.Refresh()
	sp.label.Refresh()
	sp.style.Refresh()
}

func (sp *SidePanel) status(text string) {
	if sp.onStatus != nil {
		sp.onStatus(text)
	}
}
