package app

import (
	"input-mapper/internal/mapping"
	"input-mapper/pkg/geometry"
)

// Labels returns the labels in creation order.
func (s *Session) Labels() []mapping.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Labels()
}

// Label returns one label.
func (s *Session) Label(id string) (mapping.Label, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Get(id)
}

// CreateLabel adds a label for key on the active device at a workspace
// position.
func (s *Session) CreateLabel(key string, pos geometry.Point2D) (mapping.Label, error) {
	s.mu.Lock()
	l, err := s.model.CreateLabel(key, s.deviceType, pos)
	if err == nil {
		s.invalidate()
	}
	s.mu.Unlock()
	if err != nil {
		return l, err
	}
	s.changed(EventLabelsChanged, l.ID)
	return l, nil
}

// DropKey creates a label for a key dropped from the palette at a stage
// space pointer position.
func (s *Session) DropKey(key string, pointer geometry.Point2D) (mapping.Label, error) {
	s.mu.RLock()
	ws := geometry.StageToWorkspace(pointer, s.displayZoom(s.now()), s.cfg.Workspace)
	s.mu.RUnlock()
	return s.CreateLabel(key, ws.Sub(s.cfg.DropOffset))
}

// RemoveLabel deletes a label and its connector. It reports false for an
// unknown id.
func (s *Session) RemoveLabel(id string) bool {
	s.mu.Lock()
	ok := s.model.RemoveLabel(id)
	if ok {
		s.invalidate()
	}
	s.mu.Unlock()
	if ok {
		s.changed(EventLabelsChanged, id)
	}
	return ok
}

// ClearAll removes every label.
func (s *Session) ClearAll() {
	s.mu.Lock()
	s.model.ClearAll()
	s.invalidate()
	s.mu.Unlock()
	s.changed(EventLabelsChanged, nil)
}

// UpdateText changes a label's text and opens a reflow window so the
// connectors follow the resizing box.
func (s *Session) UpdateText(id, text string) (bool, error) {
	s.mu.Lock()
	changed, err := s.model.UpdateText(id, text)
	if changed {
		s.invalidate()
		s.textAnim = newTransition(s.now(), s.cfg.TextTransition, 0, 0)
	}
	s.mu.Unlock()
	if changed {
		s.changed(EventLabelsChanged, id)
	}
	return changed, err
}

// UpdatePosition moves a label (workspace space).
func (s *Session) UpdatePosition(id string, x, y float64) (bool, error) {
	s.mu.Lock()
	changed, err := s.model.UpdatePosition(id, x, y)
	if changed {
		s.invalidate()
	}
	s.mu.Unlock()
	if changed {
		s.changed(EventLabelsChanged, id)
	}
	return changed, err
}

// UpdateAnchor moves a label's anchor (normalized, clamped).
func (s *Session) UpdateAnchor(id string, tx, ty float64) (bool, error) {
	s.mu.Lock()
	changed, err := s.model.UpdateAnchor(id, tx, ty)
	if changed {
		s.invalidate()
	}
	s.mu.Unlock()
	if changed {
		s.changed(EventLabelsChanged, id)
	}
	return changed, err
}
