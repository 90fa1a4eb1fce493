package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"input-mapper/internal/app"
	"input-mapper/ui/canvas"
)

// LabelPanel edits the text of the selected label and deletes labels.
type LabelPanel struct {
	session *app.Session
	canvas  *canvas.Workspace
	status  func(string)
	window  fyne.Window

	id      string
	loading bool

	keyLabel    *widget.Label
	anchorLabel *widget.Label
	text        *widget.Entry
	deleteBtn   *widget.Button

	content fyne.CanvasObject
}

// NewLabelPanel creates the label editor.
func NewLabelPanel(session *app.Session, cvs *canvas.Workspace, status func(string)) *LabelPanel {
	lp := &LabelPanel{session: session, canvas: cvs, status: status}

	lp.keyLabel = widget.NewLabel("No label selected")
	lp.anchorLabel = widget.NewLabel("")
	lp.text = widget.NewMultiLineEntry()
	lp.text.SetPlaceHolder("Action...")
	lp.text.SetMinRowsVisible(3)
	lp.text.OnChanged = lp.onTextChanged

	lp.deleteBtn = widget.NewButton("Delete Label", lp.onDelete)
	clearBtn := widget.NewButton("Clear All", lp.onClearAll)

	lp.content = container.NewVBox(
		lp.keyLabel,
		lp.text,
		lp.anchorLabel,
		container.NewHBox(lp.deleteBtn, clearBtn),
	)

	session.On(app.EventLabelsChanged, func(interface{}) { lp.Refresh() })
	session.On(app.EventDocumentLoaded, func(interface{}) { lp.Edit("") })
	lp.Refresh()
	return lp
}

// Container returns the panel content.
func (lp *LabelPanel) Container() fyne.CanvasObject {
	return lp.content
}

// SetWindow sets the parent window for dialogs.
func (lp *LabelPanel) SetWindow(w fyne.Window) {
	lp.window = w
}

// Edit switches the editor to label id ("" for none).
func (lp *LabelPanel) Edit(id string) {
	lp.id = id
	lp.loading = true
	if l, ok := lp.session.Label(id); ok {
		lp.text.SetText(l.Text)
	} else {
		lp.text.SetText("")
	}
	lp.loading = false
	lp.Refresh()
}

// Refresh re-reads the edited label.
func (lp *LabelPanel) Refresh() {
	l, ok := lp.session.Label(lp.id)
	if !ok {
		lp.id = ""
		lp.keyLabel.SetText("No label selected")
		lp.anchorLabel.SetText("")
		lp.text.Disable()
		lp.deleteBtn.Disable()
		return
	}
	lp.keyLabel.SetText(fmt.Sprintf("Key: %s (%s)", l.Key, l.DeviceType))
	lp.anchorLabel.SetText(fmt.Sprintf("Anchor: X: %.0f%% Y: %.0f%%", l.TargetX*100, l.TargetY*100))
	lp.text.Enable()
	lp.deleteBtn.Enable()
}

func (lp *LabelPanel) onTextChanged(text string) {
	if lp.loading || lp.id == "" {
		return
	}
	if _, err := lp.session.UpdateText(lp.id, text); err != nil {
		lp.status("Cannot edit label: " + err.Error())
	}
}

func (lp *LabelPanel) onDelete() {
	if lp.id == "" {
		return
	}
	lp.session.RemoveLabel(lp.id)
	lp.canvas.Select("")
	lp.Edit("")
	lp.status("Label deleted")
}

func (lp *LabelPanel) onClearAll() {
	if len(lp.session.Labels()) == 0 {
		return
	}
	confirm := func(ok bool) {
		if !ok {
			return
		}
		lp.session.ClearAll()
		lp.canvas.Select("")
		lp.Edit("")
		lp.status("All labels cleared")
	}
	if lp.window == nil {
		confirm(true)
		return
	}
	dialog.ShowConfirm("Clear All", "Remove every label?", confirm, lp.window)
}
