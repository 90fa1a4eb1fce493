// Package canvas provides the workspace widget: the live view of a session
// scene with pointer-driven label and anchor dragging, wheel zoom and key
// drops from the palette.
package canvas

import (
	"context"
	"image"
	"image/draw"
	"log"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/font"

	"input-mapper/internal/app"
	"input-mapper/internal/drag"
	"input-mapper/internal/export"
	"input-mapper/internal/mapping"
	"input-mapper/internal/scene"
	"input-mapper/pkg/colorutil"
	"input-mapper/pkg/geometry"
)

// frameInterval paces the frame loop.
const frameInterval = 16 * time.Millisecond

// Viewport fits the workspace into a widget of the given size, preserving
// its aspect ratio and centring it.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// NewViewport fits workspace into size.
func NewViewport(workspace geometry.Size, size fyne.Size) Viewport {
	if workspace.Width <= 0 || workspace.Height <= 0 || size.Width <= 0 || size.Height <= 0 {
		return Viewport{Scale: 1}
	}
	s := math.Min(float64(size.Width)/workspace.Width, float64(size.Height)/workspace.Height)
	return Viewport{
		Scale:   s,
		OffsetX: (float64(size.Width) - workspace.Width*s) / 2,
		OffsetY: (float64(size.Height) - workspace.Height*s) / 2,
	}
}

// ToStage converts a widget position to stage space.
func (v Viewport) ToStage(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(
		(float64(pos.X)-v.OffsetX)/v.Scale,
		(float64(pos.Y)-v.OffsetY)/v.Scale,
	)
}

// Pixels maps stage space to raster pixels for a raster of pixelScale
// pixels per widget unit.
func (v Viewport) Pixels(pixelScale float64) geometry.AffineTransform {
	return geometry.Translation(v.OffsetX*pixelScale, v.OffsetY*pixelScale).
		Compose(geometry.Scale(v.Scale*pixelScale, v.Scale*pixelScale))
}

// Workspace is the editor canvas widget.
type Workspace struct {
	widget.BaseWidget

	session *app.Session
	icons   *export.Icons
	raster  *fynecanvas.Raster

	// dragMu guards drag and is taken before mu. Session listeners run
	// while it may be held, so they only take mu.
	dragMu sync.Mutex
	drag   *drag.Controller

	mu       sync.Mutex
	scene    *scene.Scene
	selected string
	armed    string // palette key waiting for a drop
	pointer  geometry.Point2D

	faceSize float64
	face     font.Face

	stop chan struct{}

	onSelect  func(id string)
	onPreview func(text string)
	onDrop    func(l mapping.Label, err error)
}

var (
	_ desktop.Mouseable = (*Workspace)(nil)
	_ desktop.Hoverable = (*Workspace)(nil)
	_ fyne.Draggable    = (*Workspace)(nil)
	_ fyne.Scrollable   = (*Workspace)(nil)
)

// NewWorkspace creates the widget for session.
func NewWorkspace(session *app.Session, icons *export.Icons) *Workspace {
	ws := &Workspace{
		session: session,
		drag:    drag.New(session),
		icons:   icons,
		scene:   session.Scene(),
	}
	ws.raster = fynecanvas.NewRaster(ws.draw)
	ws.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	ws.ExtendBaseWidget(ws)

	// A drag on a removed label fails its next move and is released there.
	session.On(app.EventLabelsChanged, func(interface{}) {
		ws.mu.Lock()
		defer ws.mu.Unlock()
		if _, exists := session.Label(ws.selected); !exists {
			ws.selected = ""
		}
	})
	session.On(app.EventDocumentLoaded, func(interface{}) {
		ws.Select("")
	})
	return ws
}

// Start runs the frame loop until Stop.
func (ws *Workspace) Start() {
	ws.mu.Lock()
	if ws.stop != nil {
		ws.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	ws.stop = stop
	ws.mu.Unlock()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				// Drag hit tests may rebuild the scene between ticks.
				sc, changed := ws.session.Frame(now)
				ws.mu.Lock()
				stale := ws.scene != sc
				ws.scene = sc
				ws.mu.Unlock()
				if changed || stale {
					ws.raster.Refresh()
				}
			}
		}
	}()
}

// Stop ends the frame loop.
func (ws *Workspace) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.stop != nil {
		close(ws.stop)
		ws.stop = nil
	}
}

// OnSelect sets the callback for a click on a label's text.
func (ws *Workspace) OnSelect(callback func(id string)) {
	ws.onSelect = callback
}

// OnPreview sets the callback receiving the drag coordinate readout; it is
// called with "" when the drag ends.
func (ws *Workspace) OnPreview(callback func(text string)) {
	ws.onPreview = callback
}

// OnDrop sets the callback for a palette key dropped onto the workspace.
func (ws *Workspace) OnDrop(callback func(l mapping.Label, err error)) {
	ws.onDrop = callback
}

// ArmKey makes the next press on the workspace create a label for key.
func (ws *Workspace) ArmKey(key string) {
	ws.mu.Lock()
	ws.armed = key
	ws.mu.Unlock()
}

// Select highlights a label, or clears the highlight for "".
func (ws *Workspace) Select(id string) {
	ws.mu.Lock()
	ws.selected = id
	ws.mu.Unlock()
	ws.raster.Refresh()
}

// Selected returns the highlighted label id.
func (ws *Workspace) Selected() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.selected
}

func (ws *Workspace) viewport() Viewport {
	return NewViewport(ws.session.Config().Workspace, ws.Size())
}

// MouseDown starts a drag, drops an armed key or selects label text.
func (ws *Workspace) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := ws.viewport().ToStage(ev.Position)

	ws.mu.Lock()
	ws.pointer = p
	key := ws.armed
	ws.armed = ""
	ws.mu.Unlock()

	if key != "" {
		l, err := ws.session.DropKey(key, p)
		if err != nil {
			log.Printf("Canvas: drop %s: %v", key, err)
		}
		if ws.onDrop != nil {
			ws.onDrop(l, err)
		}
		return
	}

	ws.dragMu.Lock()
	hit := ws.drag.Press(p)
	ws.dragMu.Unlock()
	switch hit.Kind {
	case scene.HitText, scene.HitLabel:
		ws.Select(hit.LabelID)
		if ws.onSelect != nil && hit.Kind == scene.HitText {
			ws.onSelect(hit.LabelID)
		}
	case scene.HitNone:
		ws.Select("")
	}
}

// MouseUp ends any drag.
func (ws *Workspace) MouseUp(*desktop.MouseEvent) {
	ws.endDrag()
}

// Dragged forwards pointer moves to the drag controller.
func (ws *Workspace) Dragged(ev *fyne.DragEvent) {
	p := ws.viewport().ToStage(ev.Position)
	ws.mu.Lock()
	ws.pointer = p
	ws.mu.Unlock()

	ws.dragMu.Lock()
	err := ws.drag.Move(p)
	preview := ws.drag.Preview()
	if err != nil {
		ws.drag.Release()
	}
	ws.dragMu.Unlock()

	if err != nil {
		log.Printf("Canvas: %v", err)
		preview = ""
	}
	if ws.onPreview != nil {
		ws.onPreview(preview)
	}
}

// DragEnd ends any drag.
func (ws *Workspace) DragEnd() {
	ws.endDrag()
}

func (ws *Workspace) endDrag() {
	ws.dragMu.Lock()
	active := ws.drag.State() != drag.Idle
	ws.drag.Release()
	ws.dragMu.Unlock()
	if active {
		if ws.onPreview != nil {
			ws.onPreview("")
		}
		ws.raster.Refresh()
	}
}

// MouseIn implements desktop.Hoverable.
func (ws *Workspace) MouseIn(*desktop.MouseEvent) {}

// MouseMoved tracks the pointer for the drag readout.
func (ws *Workspace) MouseMoved(ev *desktop.MouseEvent) {
	ws.mu.Lock()
	ws.pointer = ws.viewport().ToStage(ev.Position)
	ws.mu.Unlock()
}

// MouseOut implements desktop.Hoverable.
func (ws *Workspace) MouseOut() {}

// Scrolled zooms with the wheel.
func (ws *Workspace) Scrolled(ev *fyne.ScrollEvent) {
	var err error
	if ev.Scrolled.DY > 0 {
		_, err = ws.session.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		_, err = ws.session.ZoomOut()
	}
	if err != nil {
		log.Printf("Canvas: zoom: %v", err)
	}
}

// draw is the raster drawing function.
func (ws *Workspace) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), image.NewUniform(colorutil.Background), image.Point{}, draw.Src)

	ws.dragMu.Lock()
	ws.mu.Lock()
	sc := ws.scene
	ov := BuildOverlay(sc, ws.selected, ws.drag, ws.pointer)
	ws.mu.Unlock()
	ws.dragMu.Unlock()
	if sc == nil || w == 0 || h == 0 {
		return output
	}

	size := ws.Size()
	pixelScale := 1.0
	if size.Width > 0 {
		pixelScale = float64(w) / float64(size.Width)
	}
	vp := NewViewport(sc.Workspace, size)
	xf := vp.Pixels(pixelScale)
	scale := vp.Scale * pixelScale

	img, err := export.Rasterize(context.Background(), sc, scale, export.Options{Icons: ws.icons})
	if err != nil {
		log.Printf("Canvas: render: %v", err)
		return output
	}
	origin := xf.Apply(geometry.Point2D{})
	at := image.Pt(int(math.Round(origin.X)), int(math.Round(origin.Y)))
	draw.Draw(output, img.Bounds().Add(at), img, image.Point{}, draw.Over)

	drawOverlay(output, ov, xf, scale, ws.previewFace(12*pixelScale))
	return output
}

func (ws *Workspace) previewFace(size float64) font.Face {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.face != nil && ws.faceSize == size {
		return ws.face
	}
	face, err := scene.NewFace(size)
	if err != nil {
		log.Printf("Canvas: %v", err)
		return nil
	}
	if ws.face != nil {
		ws.face.Close()
	}
	ws.face, ws.faceSize = face, size
	return face
}

// MinSize keeps the workspace usable at a quarter of its natural size.
func (ws *Workspace) MinSize() fyne.Size {
	s := ws.session.Config().Workspace
	return fyne.NewSize(float32(s.Width/4), float32(s.Height/4))
}

// CreateRenderer implements fyne.Widget.
func (ws *Workspace) CreateRenderer() fyne.WidgetRenderer {
	return &workspaceRenderer{ws: ws}
}

type workspaceRenderer struct {
	ws *Workspace
}

func (r *workspaceRenderer) Layout(size fyne.Size) {
	r.ws.raster.Resize(size)
}

func (r *workspaceRenderer) MinSize() fyne.Size {
	return r.ws.MinSize()
}

func (r *workspaceRenderer) Refresh() {
	r.ws.raster.Refresh()
}

func (r *workspaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.ws.raster}
}

func (r *workspaceRenderer) Destroy() {
	r.ws.Stop()
}
