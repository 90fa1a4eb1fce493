package panels

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"input-mapper/internal/app"
	"input-mapper/internal/connector"
	"input-mapper/pkg/colorutil"
)

// StylePanel edits the document: title, device, colours and line style.
type StylePanel struct {
	session *app.Session
	status  func(string)
	window  fyne.Window
	loading bool

	title  *widget.Entry
	device *widget.Select
	keep   *widget.Check

	dash  *widget.Select
	shape *widget.Select
	end   *widget.Select
	width *widget.Slider

	lineColor *widget.Button
	body      *widget.Button
	secondary *widget.Button
	accent    *widget.Button

	content fyne.CanvasObject
}

// NewStylePanel creates the style controls.
func NewStylePanel(session *app.Session, status func(string)) *StylePanel {
	p := &StylePanel{session: session, status: status}

	p.title = widget.NewEntry()
	p.title.SetPlaceHolder("Untitled")
	p.title.OnChanged = func(s string) {
		if !p.loading {
			session.SetTitle(s)
		}
	}

	p.keep = widget.NewCheck("Keep labels on device change", nil)
	p.keep.SetChecked(true)
	p.device = widget.NewSelect(session.Catalog().Types(), p.onDevice)

	p.dash = widget.NewSelect(names(connector.Dashes), func(string) { p.applyStyle() })
	p.shape = widget.NewSelect(names(connector.Shapes), func(string) { p.applyStyle() })
	p.end = widget.NewSelect(names(connector.Ends), func(string) { p.applyStyle() })
	p.width = widget.NewSlider(1, 10)
	p.width.Step = 0.5
	p.width.OnChanged = func(float64) { p.applyStyle() }

	p.lineColor = widget.NewButton("", func() {
		p.pickColor("Line Colour", session.Style().Color, func(hex string) {
			st := session.Style()
			st.Color = hex
			session.SetStyle(st)
		})
	})
	p.body = widget.NewButton("", func() { p.pickBodyColor(func(c *app.Colors) *string { return &c.Body }) })
	p.secondary = widget.NewButton("", func() { p.pickBodyColor(func(c *app.Colors) *string { return &c.Secondary }) })
	p.accent = widget.NewButton("", func() { p.pickBodyColor(func(c *app.Colors) *string { return &c.Accent }) })
	derive := widget.NewButton("Derive from body", func() {
		c, err := session.Colors().Derived()
		if err == nil {
			err = session.SetColors(c)
		}
		if err != nil && p.window != nil {
			dialog.ShowError(err, p.window)
		}
	})

	p.content = container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Title", p.title),
			widget.NewFormItem("Device", p.device),
		),
		p.keep,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Lines", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Style", p.dash),
			widget.NewFormItem("Type", p.shape),
			widget.NewFormItem("End", p.end),
			widget.NewFormItem("Width", p.width),
			widget.NewFormItem("Colour", p.lineColor),
		),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Device Colours", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Body", p.body),
			widget.NewFormItem("Secondary", p.secondary),
			widget.NewFormItem("Accent", p.accent),
		),
		derive,
	)

	for _, ev := range []app.EventType{app.EventStyleChanged, app.EventColorsChanged, app.EventDeviceChanged, app.EventDocumentLoaded} {
		session.On(ev, func(interface{}) { p.Refresh() })
	}
	p.Refresh()
	return p
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Container returns the panel content.
func (p *StylePanel) Container() fyne.CanvasObject {
	return p.content
}

// SetWindow sets the parent window for dialogs.
func (p *StylePanel) SetWindow(w fyne.Window) {
	p.window = w
}

// Refresh re-reads the session.
func (p *StylePanel) Refresh() {
	p.loading = true
	defer func() { p.loading = false }()

	p.title.SetText(p.session.Title())
	p.device.SetSelected(p.session.DeviceType())

	st := p.session.Style()
	p.dash.SetSelected(string(st.Dash))
	p.shape.SetSelected(string(st.Shape))
	p.end.SetSelected(string(st.End))
	p.width.SetValue(st.Width)
	p.lineColor.SetText(st.Color)

	c := p.session.Colors()
	p.body.SetText(colorText(c.Body))
	p.secondary.SetText(colorText(c.Secondary))
	p.accent.SetText(colorText(c.Accent))
}

func colorText(hex string) string {
	if hex == "" {
		return "(default)"
	}
	return hex
}

func (p *StylePanel) applyStyle() {
	if p.loading {
		return
	}
	p.session.SetStyle(connector.Style{
		Dash:  connector.Dash(p.dash.Selected),
		Shape: connector.Shape(p.shape.Selected),
		End:   connector.End(p.end.Selected),
		Width: p.width.Value,
		Color: p.session.Style().Color,
	})
}

func (p *StylePanel) onDevice(deviceType string) {
	if p.loading || deviceType == p.session.DeviceType() {
		return
	}
	if err := p.session.SetDevice(deviceType, p.keep.Checked); err != nil {
		p.showError(err)
		return
	}
	if stale := p.session.StaleLabels(); len(stale) > 0 {
		p.status(fmt.Sprintf("%d label(s) use keys not on %s", len(stale), deviceType))
	}
}

func (p *StylePanel) pickBodyColor(field func(*app.Colors) *string) {
	c := p.session.Colors()
	p.pickColor("Device Colour", *field(&c), func(hex string) {
		c := p.session.Colors()
		*field(&c) = hex
		if err := p.session.SetColors(c); err != nil {
			p.showError(err)
		}
	})
}

func (p *StylePanel) pickColor(title, current string, apply func(hex string)) {
	if p.window == nil {
		return
	}
	picker := dialog.NewColorPicker(title, "Current: "+colorText(current), func(c color.Color) {
		apply(colorutil.Hex(c))
	}, p.window)
	picker.Advanced = true
	if cur, err := colorutil.ParseHex(current); err == nil {
		picker.SetColor(cur)
	}
	picker.Show()
}

func (p *StylePanel) showError(err error) {
	if p.window != nil {
		dialog.ShowError(err, p.window)
	}
	p.status(err.Error())
}
