package board

import (
	"fmt"

	"DraftBoard/internal/state"
)

// SelectTool arms the rectangle or line tool, or disarms with ToolNone.
// A drag already in progress keeps the tool it started with.
func (d *Document) SelectTool(t state.Tool) {
	d.tool = t
	d.settingsChanged("tool: " + t.String())
}

// SetColor sets the stroke color for new shapes.
func (d *Document) SetColor(c state.Color) {
	d.stroke = c
	d.settingsChanged("color: " + string(c))
}

// SetFillColor sets the fill for new rectangles. nil means unfilled.
func (d *Document) SetFillColor(c *state.Color) {
	d.fill = cloneColor(c)
	if c == nil {
		d.settingsChanged("fill: none")
		return
	}
	d.settingsChanged("fill: " + string(*c))
}

// ToggleGrid shows or hides the grid. Shapes are left alone.
func (d *Document) ToggleGrid() {
	d.showGrid = !d.showGrid
	d.r.RenderGrid(d.gridSize, d.showGrid)
	d.settingsChanged(fmt.Sprintf("grid: %v", d.showGrid))
	d.changed()
}

// ToggleSnap switches grid snapping for subsequent points.
func (d *Document) ToggleSnap() {
	d.snap = !d.snap
	d.settingsChanged(fmt.Sprintf("snap: %v", d.snap))
}

// ToggleOrtho switches the horizontal/vertical constraint for lines.
func (d *Document) ToggleOrtho() {
	d.ortho = !d.ortho
	d.settingsChanged(fmt.Sprintf("ortho: %v", d.ortho))
}

// SetGridSize changes the grid pitch. Committed shapes keep their coordinates.
func (d *Document) SetGridSize(size float64) error {
	if size <= 0 {
		return d.fail(fmt.Errorf("grid %v: %w", size, state.ErrInvalidGrid))
	}
	d.gridSize = size
	d.r.RenderGrid(d.gridSize, d.showGrid)
	d.settingsChanged(fmt.Sprintf("grid size: %g", size))
	d.changed()
	return nil
}

// AddLayer creates the next layer and makes it active.
func (d *Document) AddLayer() string {
	name := d.store.AddLayer()
	d.log.Info("layer added", "layer", name)
	d.settingsChanged("layer: " + name)
	return name
}

// SelectLayer makes name the active layer. Unknown names are rejected and
// the active layer is kept.
func (d *Document) SelectLayer(name string) error {
	if err := d.store.SetActiveLayer(name); err != nil {
		return d.fail(err)
	}
	d.settingsChanged("layer: " + name)
	return nil
}

// SetLayerVisible shows or hides a layer's shapes.
func (d *Document) SetLayerVisible(name string, visible bool) error {
	if err := d.store.SetLayerVisible(name, visible); err != nil {
		return d.fail(err)
	}
	d.message = fmt.Sprintf("%s visible: %v", name, visible)
	d.committed()
	return nil
}

// RotateLast turns the most recent shape a further rotation step about its
// center. The rotated shape gets a new id and moves to the top of its layer.
// With nothing drawn it returns ErrInvalidState and changes nothing.
func (d *Document) RotateLast() error {
	last, ok := d.store.Last()
	if !ok {
		return d.fail(fmt.Errorf("rotate: %w: no shapes", state.ErrInvalidState))
	}
	next := last.Rotated(d.step)
	if err := d.store.Replace(last.ID, next); err != nil {
		return d.fail(fmt.Errorf("rotate: %w", err))
	}
	d.log.Info("shape rotated", "old", last.ID, "new", next.ID, "angle", next.Angle)
	d.message = fmt.Sprintf("rotated %s to %g°", next.Kind, next.Angle)
	d.committed()
	return nil
}

// Undo removes the most recent shape. With nothing drawn it returns
// ErrInvalidState and changes nothing.
func (d *Document) Undo() error {
	last, ok := d.store.Last()
	if !ok {
		return d.fail(fmt.Errorf("undo: %w: no shapes", state.ErrInvalidState))
	}
	if _, err := d.store.Remove(last.ID); err != nil {
		return d.fail(fmt.Errorf("undo: %w", err))
	}
	d.log.Info("shape undone", "id", last.ID)
	d.message = "undo " + string(last.Kind)
	d.committed()
	return nil
}

// Redo is not available.
func (d *Document) Redo() error {
	return d.fail(fmt.Errorf("redo: %w", state.ErrUnsupported))
}

// Save is not available.
func (d *Document) Save() error {
	return d.fail(fmt.Errorf("save: %w", state.ErrUnsupported))
}

// Open is not available.
func (d *Document) Open() error {
	return d.fail(fmt.Errorf("open: %w", state.ErrUnsupported))
}

// Clear drops all shapes and layers, leaving the active default layer. Any
// drag in progress is abandoned.
func (d *Document) Clear() {
	d.store.Clear()
	d.gesture = Gesture{}
	d.r.RenderPreview(nil)
	d.log.Info("document cleared")
	d.message = "cleared"
	d.committed()
	if d.OnClear != nil {
		d.OnClear()
	}
}
