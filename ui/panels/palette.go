package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"input-mapper/internal/app"
	"input-mapper/internal/catalog"
	"input-mapper/ui/canvas"
)

// PalettePanel lists the keys of the active device. Picking a key arms it;
// the next click on the workspace drops a label there.
type PalettePanel struct {
	session *app.Session
	canvas  *canvas.Workspace
	status  func(string)

	search *widget.Entry
	list   *widget.List
	keys   []catalog.KeyDef

	content fyne.CanvasObject
}

// NewPalettePanel creates the key palette.
func NewPalettePanel(session *app.Session, cvs *canvas.Workspace, status func(string)) *PalettePanel {
	pp := &PalettePanel{session: session, canvas: cvs, status: status}

	pp.search = widget.NewEntry()
	pp.search.SetPlaceHolder("Search keys...")
	pp.search.OnChanged = func(string) { pp.Refresh() }

	pp.list = widget.NewList(
		func() int { return len(pp.keys) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(pp.keys[id].DisplayName())
		},
	)
	pp.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(pp.keys) {
			return
		}
		k := pp.keys[id]
		pp.canvas.ArmKey(k.Key)
		pp.status("Click the workspace to place " + k.DisplayName())
		pp.list.UnselectAll()
	}

	pp.content = container.NewBorder(pp.search, nil, nil, nil, pp.list)

	session.On(app.EventDeviceChanged, func(interface{}) { pp.Refresh() })
	session.On(app.EventDocumentLoaded, func(interface{}) { pp.Refresh() })
	pp.Refresh()
	return pp
}

// Container returns the panel content.
func (pp *PalettePanel) Container() fyne.CanvasObject {
	return pp.content
}

// Refresh reloads the key list for the active device and search text.
func (pp *PalettePanel) Refresh() {
	pp.keys = pp.session.Catalog().Search(pp.session.DeviceType(), pp.search.Text)
	pp.list.Refresh()
}
