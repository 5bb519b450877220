package board

import (
	"DraftBoard/internal/geom"
	"DraftBoard/internal/state"
)

// Phase of the press/drag/release cycle.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Gesture is the transient state between press and release.
type Gesture struct {
	Phase   Phase
	Start   geom.Point
	Current geom.Point
	Tool    state.Tool
}

// Press starts a gesture at (x, y). The start point is snapped when snapping
// is on. A press during a drag restarts the gesture.
func (d *Document) Press(x, y float64) {
	p := d.snapped(geom.Pt(x, y))
	d.gesture = Gesture{Phase: Dragging, Start: p, Current: p, Tool: d.tool}
	d.r.RenderPreview(nil)
	d.log.Debug("press", "x", p.X, "y", p.Y, "tool", d.tool)
}

// Move updates the current point and re-renders the preview. Moves outside a
// drag are ignored.
func (d *Document) Move(x, y float64) {
	if d.gesture.Phase != Dragging {
		return
	}
	p := d.snapped(geom.Pt(x, y))
	if d.ortho && d.gesture.Tool == state.ToolLine {
		p = geom.ConstrainOrthogonal(d.gesture.Start, p)
	}
	d.gesture.Current = p
	d.r.RenderPreview(d.Preview())
}

// Release ends the gesture and commits a shape from the start point and the
// last move point. The release position itself is not used. Without a tool
// nothing is committed, and a release outside a drag does nothing.
func (d *Document) Release(x, y float64) error {
	if d.gesture.Phase != Dragging {
		return nil
	}
	g := d.gesture
	d.gesture = Gesture{}
	d.r.RenderPreview(nil)

	sh, ok := d.draft(g)
	if !ok {
		d.log.Debug("release without tool", "x", x, "y", y)
		return nil
	}
	sh = sh.Identify()
	if err := d.store.Add(sh); err != nil {
		return d.fail(err)
	}
	d.log.Info("shape committed", "id", sh.ID, "kind", sh.Kind, "layer", sh.Layer,
		"x1", sh.X1, "y1", sh.Y1, "x2", sh.X2, "y2", sh.Y2)
	d.message = string(sh.Kind) + " added"
	d.committed()
	return nil
}

// Gesture returns a copy of the in-flight gesture.
func (d *Document) Gesture() Gesture { return d.gesture }

// Preview returns the shape the current drag would commit, or nil when idle
// or when no tool is armed.
func (d *Document) Preview() *Preview {
	if d.gesture.Phase != Dragging {
		return nil
	}
	sh, ok := d.draft(d.gesture)
	if !ok {
		return nil
	}
	p := &Preview{Shape: sh}
	if sh.Kind == state.KindLine {
		p.Length = geom.Distance(d.gesture.Start, d.gesture.Current)
		p.HasLength = true
	}
	return p
}

// draft builds the shape g would commit, without an identity.
func (d *Document) draft(g Gesture) (state.Shape, bool) {
	k, ok := g.Tool.Kind()
	if !ok {
		return state.Shape{}, false
	}
	return state.Draft(k, g.Start, g.Current, d.stroke, d.fill, d.store.ActiveLayer()), true
}

func (d *Document) snapped(p geom.Point) geom.Point {
	if !d.snap {
		return p
	}
	return geom.SnapPoint(p, d.gridSize)
}
