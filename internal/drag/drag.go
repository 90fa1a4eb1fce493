// Package drag interprets pointer input against the labels and anchor
// markers of a scene and turns it into model updates.
package drag

import (
	"fmt"
	"math"

	"input-mapper/internal/scene"
	"input-mapper/pkg/geometry"
)

// State is the drag state.
type State int

const (
	Idle State = iota
	DraggingLabel
	DraggingAnchor
)

func (s State) String() string {
	switch s {
	case DraggingLabel:
		return "dragging label"
	case DraggingAnchor:
		return "dragging anchor"
	default:
		return "idle"
	}
}

// Target is what the controller reads geometry from and writes updates to.
// Scene must reflect every update already applied.
type Target interface {
	Scene() *scene.Scene
	UpdatePosition(id string, x, y float64) (bool, error)
	UpdateAnchor(id string, tx, ty float64) (bool, error)
}

// Controller is the single drag state machine of a workspace. Pointer
// positions are in stage space.
type Controller struct {
	target Target

	state   State
	labelID string
	grab    geometry.Point2D // pointer minus label top-left, workspace space

	preview string
}

// New creates an idle controller.
func New(target Target) *Controller {
	return &Controller{target: target}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// LabelID returns the label being dragged, or "".
func (c *Controller) LabelID() string {
	return c.labelID
}

// Preview returns the coordinate readout of the drag in progress.
func (c *Controller) Preview() string {
	return c.preview
}

// Press starts a drag over whatever p hits. Presses while a drag is active
// and presses on a label's text region are ignored. It returns what was hit.
func (c *Controller) Press(p geometry.Point2D) scene.Hit {
	s := c.target.Scene()
	hit := s.HitTest(p)
	if c.state != Idle {
		return hit
	}

	switch hit.Kind {
	case scene.HitAnchor:
		c.state = DraggingAnchor
		c.labelID = hit.LabelID
	case scene.HitLabel:
		v, _ := s.Label(hit.LabelID)
		c.state = DraggingLabel
		c.labelID = hit.LabelID
		c.grab = s.ToWorkspace(p).Sub(v.Label.Position())
	}
	return hit
}

// Move applies a pointer move to the active drag.
func (c *Controller) Move(p geometry.Point2D) error {
	switch c.state {
	case DraggingLabel:
		return c.moveLabel(p)
	case DraggingAnchor:
		return c.moveAnchor(p)
	}
	return nil
}

func (c *Controller) moveLabel(p geometry.Point2D) error {
	s := c.target.Scene()
	pos := s.ToWorkspace(p).Sub(c.grab)
	if _, err := c.target.UpdatePosition(c.labelID, pos.X, pos.Y); err != nil {
		return fmt.Errorf("drag label: %w", err)
	}
	c.preview = fmt.Sprintf("X: %d Y: %d", round(pos.X), round(pos.Y))
	return nil
}

// moveAnchor solves for the logical anchor whose offset marker lands under
// the pointer, then normalizes it over the device box.
func (c *Controller) moveAnchor(p geometry.Point2D) error {
	s := c.target.Scene()
	v, ok := s.Label(c.labelID)
	if !ok {
		return fmt.Errorf("drag anchor: label %s is gone", c.labelID)
	}
	pointer := s.ToWorkspace(p)
	centre := s.ToWorkspace(v.Center())
	logical := geometry.InverseOffset(centre, pointer, s.Layout.MarkerOffset)

	tx, ty := geometry.ToNormalized(logical, s.Device)
	if _, err := c.target.UpdateAnchor(c.labelID, tx, ty); err != nil {
		return fmt.Errorf("drag anchor: %w", err)
	}
	c.preview = fmt.Sprintf("X: %d%% Y: %d%%", round(tx*100), round(ty*100))
	return nil
}

// Release ends any drag, wherever the pointer is.
func (c *Controller) Release() {
	c.state = Idle
	c.labelID = ""
	c.grab = geometry.Point2D{}
	c.preview = ""
}

// Cancel drops a drag whose label disappeared (deleted or cleared).
func (c *Controller) Cancel(id string) {
	if c.labelID == id || id == "" {
		c.Release()
	}
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
