package app

import (
	"math"
	"time"

	"input-mapper/internal/scene"
	"input-mapper/pkg/geometry"
)

// transition is a time window during which the scene is rebuilt every frame,
// optionally interpolating a value. A new transition replaces the old one,
// starting from wherever the old one had got to.
type transition struct {
	start    time.Time
	duration time.Duration
	from, to float64
}

func newTransition(start time.Time, d time.Duration, from, to float64) transition {
	return transition{start: start, duration: d, from: from, to: to}
}

func (t transition) active(now time.Time) bool {
	return t.duration > 0 && now.Before(t.start.Add(t.duration))
}

// value eases from -> to over the window.
func (t transition) value(now time.Time) float64 {
	if !t.active(now) {
		return t.to
	}
	p := float64(now.Sub(t.start)) / float64(t.duration)
	if p < 0 {
		p = 0
	}
	eased := 1 - math.Pow(1-p, 3)
	return t.from + (t.to-t.from)*eased
}

// displayZoom is the zoom drawn at now. Callers hold mu.
func (s *Session) displayZoom(now time.Time) float64 {
	if s.zoomAnim.active(now) {
		return s.zoomAnim.value(now)
	}
	return s.zoom
}

// Animating reports whether a transition window is open at now.
func (s *Session) Animating(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoomAnim.active(now) || s.textAnim.active(now)
}

// build projects the model at zoom. Callers hold mu.
func (s *Session) build(zoom float64) *scene.Scene {
	return scene.Build(scene.Input{
		Labels:       s.model.Labels(),
		Style:        s.style,
		Zoom:         zoom,
		Illustration: s.ill,
		Palette:      s.colors.palette(),
		Layout:       s.cfg.Layout(),
		Measurer:     s.measurer,
		Icons:        s.catalog,
	})
}

// Frame is the single per-frame scheduling point. It rebuilds the scene when
// the model changed since the last frame or while a transition window is
// open (plus once as it closes), and reports whether it did.
func (s *Session) Frame(now time.Time) (*scene.Scene, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	animating := s.zoomAnim.active(now) || s.textAnim.active(now)
	if !s.dirty && !animating && !s.settling && s.scene != nil {
		return s.scene, false
	}
	s.scene = s.build(s.displayZoom(now))
	s.dirty = false
	// One more frame after a window closes draws the end state.
	s.settling = animating
	return s.scene, true
}

// Scene returns a scene reflecting every mutation applied so far.
func (s *Session) Scene() *scene.Scene {
	sc, _ := s.Frame(s.now())
	return sc
}

// Zoom returns the requested zoom (the end value of any zoom transition).
func (s *Session) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// SetZoom requests a zoom level, clamped to [MinZoom, MaxZoom]. The view
// eases to it over the zoom transition window. Zoom is refused while an
// export holds the guard.
func (s *Session) SetZoom(z float64) (float64, error) {
	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		return s.Zoom(), ErrExportInProgress
	}
	z = geometry.ClampZoom(z)
	if z == s.zoom {
		s.mu.Unlock()
		return z, nil
	}
	now := s.now()
	s.zoomAnim = newTransition(now, s.cfg.ZoomTransition, s.displayZoom(now), z)
	s.zoom = z
	s.dirty = true
	s.mu.Unlock()

	s.Emit(EventZoomChanged, z)
	return z, nil
}

// ZoomIn and ZoomOut step the zoom by the configured increment.
func (s *Session) ZoomIn() (float64, error) {
	return s.SetZoom(roundZoom(s.Zoom() + s.cfg.ZoomStep))
}

func (s *Session) ZoomOut() (float64, error) {
	return s.SetZoom(roundZoom(s.Zoom() - s.cfg.ZoomStep))
}

// ResetZoom returns to 100%.
func (s *Session) ResetZoom() (float64, error) {
	return s.SetZoom(1)
}

func roundZoom(z float64) float64 {
	return math.Round(z*100) / 100
}

// Exporting reports whether an export holds the guard.
func (s *Session) Exporting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exporting
}

// Export runs fn on a snapshot of the document projected at zoom 1. The
// live zoom is not touched, and zoom requests are refused until fn returns.
func (s *Session) Export(fn func(*scene.Scene) error) error {
	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		return ErrExportInProgress
	}
	s.exporting = true
	snap := s.build(1)
	s.mu.Unlock()

	s.Emit(EventExportStarted, nil)
	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
		s.Emit(EventExportFinished, nil)
	}()
	return fn(snap)
}
