package mapping

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"input-mapper/pkg/geometry"
)

// Model errors.
var (
	ErrNotFound   = errors.New("label not found")
	ErrUnknownKey = errors.New("key not available on device")
)

// Catalog is the part of the device catalog the model needs.
type Catalog interface {
	HasKey(deviceType, key string) bool
	DefaultAnchor(deviceType, key string) (x, y float64, ok bool)
}

// Model is the authoritative set of labels of one document. It is not safe
// for concurrent use; the owning session serializes access.
type Model struct {
	catalog   Catalog
	workspace geometry.Size
	safe      SafeArea

	labels map[string]*Label
	order  []string

	newID func() string
}

// NewModel creates an empty model for a workspace of the given size.
func NewModel(catalog Catalog, workspace geometry.Size) *Model {
	return &Model{
		catalog:   catalog,
		workspace: workspace,
		safe:      DefaultSafeArea,
		labels:    make(map[string]*Label),
		newID:     newLabelID,
	}
}

func newLabelID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SetWorkspace changes the workspace size used for placement clamping.
// Existing labels are not moved.
func (m *Model) SetWorkspace(size geometry.Size) {
	m.workspace = size
}

// Workspace returns the workspace size.
func (m *Model) Workspace() geometry.Size {
	return m.workspace
}

// SetSafeArea replaces the placement insets.
func (m *Model) SetSafeArea(a SafeArea) {
	m.safe = a
}

// uniqueID draws ids until one is unused.
func (m *Model) uniqueID() string {
	for {
		id := m.newID()
		if _, taken := m.labels[id]; !taken {
			return id
		}
	}
}

// CreateLabel adds a label for key at pos (clamped into the safe area). The
// anchor starts at the catalog default for the key, or the device centre.
func (m *Model) CreateLabel(key, deviceType string, pos geometry.Point2D) (Label, error) {
	if !m.catalog.HasKey(deviceType, key) {
		return Label{}, fmt.Errorf("%w: %s/%s", ErrUnknownKey, deviceType, key)
	}
	tx, ty, ok := m.catalog.DefaultAnchor(deviceType, key)
	if !ok {
		tx, ty = 0.5, 0.5
	}
	p := m.safe.Clamp(pos, m.workspace)

	l := &Label{
		ID:         m.uniqueID(),
		Key:        key,
		DeviceType: deviceType,
		X:          p.X,
		Y:          p.Y,
		TargetX:    geometry.Clamp01(tx),
		TargetY:    geometry.Clamp01(ty),
	}
	m.insert(l)
	return *l, nil
}

func (m *Model) insert(l *Label) {
	m.labels[l.ID] = l
	m.order = append(m.order, l.ID)
}

// RemoveLabel deletes a label and its anchor marker. It reports false, and
// does nothing, when id is unknown.
func (m *Model) RemoveLabel(id string) bool {
	if _, ok := m.labels[id]; !ok {
		return false
	}
	delete(m.labels, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// ClearAll removes every label.
func (m *Model) ClearAll() {
	m.labels = make(map[string]*Label)
	m.order = nil
}

// UpdateText sets a label's text. It reports whether the text changed.
func (m *Model) UpdateText(id, text string) (bool, error) {
	l, ok := m.labels[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if l.Text == text {
		return false, nil
	}
	l.Text = text
	return true, nil
}

// UpdatePosition moves a label's top-left corner. Non-finite coordinates
// keep the current value.
func (m *Model) UpdatePosition(id string, x, y float64) (bool, error) {
	l, ok := m.labels[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	x, y = finiteOr(x, l.X), finiteOr(y, l.Y)
	if l.X == x && l.Y == y {
		return false, nil
	}
	l.X, l.Y = x, y
	return true, nil
}

// UpdateAnchor sets a label's anchor, clamped to [0,1] on both axes.
func (m *Model) UpdateAnchor(id string, tx, ty float64) (bool, error) {
	l, ok := m.labels[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tx, ty = geometry.Clamp01(tx), geometry.Clamp01(ty)
	if l.TargetX == tx && l.TargetY == ty {
		return false, nil
	}
	l.TargetX, l.TargetY = tx, ty
	return true, nil
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Get returns a copy of the label with the given id.
func (m *Model) Get(id string) (Label, bool) {
	l, ok := m.labels[id]
	if !ok {
		return Label{}, false
	}
	return *l, true
}

// Len returns the number of labels.
func (m *Model) Len() int {
	return len(m.order)
}

// Labels returns copies of all labels in creation order.
func (m *Model) Labels() []Label {
	out := make([]Label, len(m.order))
	for i, id := range m.order {
		out[i] = *m.labels[id]
	}
	return out
}

// Restore replaces the label set with labels, as on import. Every label gets
// a fresh id; incoming ids are not trusted. Keys are not validated against
// the catalog, but unknown ones are logged. Labels without a device type
// take deviceType.
func (m *Model) Restore(labels []Label, deviceType string) []Label {
	m.ClearAll()
	for _, in := range labels {
		l := in
		l.ID = m.uniqueID()
		if l.DeviceType == "" {
			l.DeviceType = deviceType
		}
		if !m.catalog.HasKey(l.DeviceType, l.Key) {
			log.Printf("Mapping: key %q is not available on %s", l.Key, l.DeviceType)
		}
		l.X, l.Y = finiteOr(l.X, 0), finiteOr(l.Y, 0)
		l.TargetX, l.TargetY = geometry.Clamp01(l.TargetX), geometry.Clamp01(l.TargetY)
		m.insert(&l)
	}
	return m.Labels()
}

// Stale returns the labels whose key is not in deviceType's key set.
func (m *Model) Stale(deviceType string) []Label {
	var out []Label
	for _, id := range m.order {
		if l := m.labels[id]; !m.catalog.HasKey(deviceType, l.Key) {
			out = append(out, *l)
		}
	}
	return out
}
