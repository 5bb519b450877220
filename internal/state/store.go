package state

import (
	"fmt"
	"slices"
)

// DefaultLayer is the layer every fresh or cleared store starts with.
const DefaultLayer = "default"

// Store is the authoritative shape collection. Shapes live in one map keyed by
// id; the creation history and the layers only hold ids, so every view is
// derived from the same data and cannot drift apart.
//
// Store is not safe for concurrent use. It belongs to the UI goroutine.
type Store struct {
	shapes  map[string]Shape
	history []string
	layers  map[string]*Layer
	order   []string // layer names, bottom to top
	active  string
}

// NewStore returns a store holding only the empty default layer.
func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

// Clear drops every shape and resets to a single active default layer.
func (s *Store) Clear() {
	s.shapes = make(map[string]Shape)
	s.history = nil
	s.layers = map[string]*Layer{
		DefaultLayer: {Name: DefaultLayer, Visible: true},
	}
	s.order = []string{DefaultLayer}
	s.active = DefaultLayer
}

// Add commits sh to its layer and to the end of the history.
func (s *Store) Add(sh Shape) error {
	l, ok := s.layers[sh.Layer]
	if !ok {
		return fmt.Errorf("add %s: %w: %q", sh.ID, ErrInvalidLayer, sh.Layer)
	}
	if _, exists := s.shapes[sh.ID]; exists {
		return fmt.Errorf("add %s: %w: duplicate id", sh.ID, ErrInvalidState)
	}
	s.shapes[sh.ID] = sh
	s.history = append(s.history, sh.ID)
	l.IDs = append(l.IDs, sh.ID)
	return nil
}

// Remove deletes the shape from the map, the history and its layer.
func (s *Store) Remove(id string) (Shape, error) {
	sh, ok := s.shapes[id]
	if !ok {
		return Shape{}, fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	delete(s.shapes, id)
	s.history = deleteID(s.history, id)
	if l, ok := s.layers[sh.Layer]; ok {
		l.IDs = deleteID(l.IDs, id)
	}
	return sh, nil
}

// Replace swaps old out for next. next lands at the end of the history and
// on top of its layer.
func (s *Store) Replace(oldID string, next Shape) error {
	if _, ok := s.layers[next.Layer]; !ok {
		return fmt.Errorf("replace %s: %w: %q", oldID, ErrInvalidLayer, next.Layer)
	}
	if _, ok := s.shapes[oldID]; !ok {
		return fmt.Errorf("replace %s: %w", oldID, ErrNotFound)
	}
	if _, dup := s.shapes[next.ID]; dup && next.ID != oldID {
		return fmt.Errorf("replace %s: %w: duplicate id %s", oldID, ErrInvalidState, next.ID)
	}
	if _, err := s.Remove(oldID); err != nil {
		return err
	}
	return s.Add(next)
}

func deleteID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// Get looks a shape up by id.
func (s *Store) Get(id string) (Shape, bool) {
	sh, ok := s.shapes[id]
	return sh, ok
}

// Last returns the most recently committed or rotated shape.
func (s *Store) Last() (Shape, bool) {
	if len(s.history) == 0 {
		return Shape{}, false
	}
	return s.shapes[s.history[len(s.history)-1]], true
}

// Len is the number of committed shapes.
func (s *Store) Len() int { return len(s.shapes) }

// History returns every shape in creation order.
func (s *Store) History() []Shape {
	out := make([]Shape, 0, len(s.history))
	for _, id := range s.history {
		out = append(out, s.shapes[id])
	}
	return out
}

// Visible returns the shapes of visible layers in z-order: layers bottom to
// top, each layer in insertion order.
func (s *Store) Visible() []Shape {
	out := make([]Shape, 0, len(s.shapes))
	for _, name := range s.order {
		l := s.layers[name]
		if !l.Visible {
			continue
		}
		for _, id := range l.IDs {
			out = append(out, s.shapes[id])
		}
	}
	return out
}

// LayerShapes returns the shapes of one layer in draw order.
func (s *Store) LayerShapes(name string) ([]Shape, error) {
	l, ok := s.layers[name]
	if !ok {
		return nil, fmt.Errorf("layer %q: %w", name, ErrInvalidLayer)
	}
	out := make([]Shape, 0, len(l.IDs))
	for _, id := range l.IDs {
		out = append(out, s.shapes[id])
	}
	return out, nil
}

// Layers returns copies of all layers, bottom to top.
func (s *Store) Layers() []Layer {
	out := make([]Layer, 0, len(s.order))
	for _, name := range s.order {
		l := s.layers[name]
		out = append(out, Layer{Name: l.Name, IDs: slices.Clone(l.IDs), Visible: l.Visible})
	}
	return out
}

// LayerNames lists layer names bottom to top.
func (s *Store) LayerNames() []string { return slices.Clone(s.order) }

// ActiveLayer is the layer new shapes are committed to.
func (s *Store) ActiveLayer() string { return s.active }

// SetActiveLayer switches the active layer. Unknown names are rejected and
// the active layer stays as it was.
func (s *Store) SetActiveLayer(name string) error {
	if _, ok := s.layers[name]; !ok {
		return fmt.Errorf("select layer %q: %w", name, ErrInvalidLayer)
	}
	s.active = name
	return nil
}

// AddLayer creates the next sequentially named layer, layer_N where N is the
// new layer count, and makes it active.
func (s *Store) AddLayer() string {
	n := len(s.order) + 1
	name := fmt.Sprintf("layer_%d", n)
	for {
		if _, taken := s.layers[name]; !taken {
			break
		}
		n++
		name = fmt.Sprintf("layer_%d", n)
	}
	s.layers[name] = &Layer{Name: name, Visible: true}
	s.order = append(s.order, name)
	s.active = name
	return name
}

// SetLayerVisible shows or hides a layer. Hidden layers keep their shapes.
func (s *Store) SetLayerVisible(name string, visible bool) error {
	l, ok := s.layers[name]
	if !ok {
		return fmt.Errorf("layer %q: %w", name, ErrInvalidLayer)
	}
	l.Visible = visible
	return nil
}
