package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"DraftBoard/internal/board"
	"DraftBoard/internal/geom"
	"DraftBoard/internal/state"
)

var (
	backgroundColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	gridColor       = color.NRGBA{R: 180, G: 180, B: 180, A: 120}
	labelColor      = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
)

const (
	strokeWidth     = 2
	gridStrokeWidth = 0.5
	previewAlpha    = 140
)

func pos(p geom.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

// gridObjects draws grid lines every size units across area.
func gridObjects(size float64, area fyne.Size) []fyne.CanvasObject {
	if size <= 0 {
		return nil
	}
	var lines []fyne.CanvasObject
	step := float32(size)
	for x := float32(0); x < area.Width; x += step {
		l := canvas.NewLine(gridColor)
		l.Position1 = fyne.NewPos(x, 0)
		l.Position2 = fyne.NewPos(x, area.Height)
		l.StrokeWidth = gridStrokeWidth
		lines = append(lines, l)
	}
	for y := float32(0); y < area.Height; y += step {
		l := canvas.NewLine(gridColor)
		l.Position1 = fyne.NewPos(0, y)
		l.Position2 = fyne.NewPos(area.Width, y)
		l.StrokeWidth = gridStrokeWidth
		lines = append(lines, l)
	}
	return lines
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// shapeObjects turns a shape into fyne primitives. Unrotated rectangles use a
// filled canvas.Rectangle; rotated ones are drawn as four edges.
func shapeObjects(s state.Shape, alpha uint8) []fyne.CanvasObject {
	stroke := withAlpha(s.Stroke.RGBA(), alpha)
	out := s.Outline()

	if s.Kind == state.KindRectangle && s.Angle == 0 {
		lo, hi := geom.Bounds(out)
		var fill color.Color = color.Transparent
		if s.Fill != nil {
			fill = withAlpha(s.Fill.RGBA(), alpha)
		}
		r := canvas.NewRectangle(fill)
		r.StrokeColor = stroke
		r.StrokeWidth = strokeWidth
		r.Move(pos(lo))
		r.Resize(fyne.NewSize(float32(hi.X-lo.X), float32(hi.Y-lo.Y)))
		return []fyne.CanvasObject{r}
	}

	n := len(out)
	if s.Kind == state.KindLine {
		n = 1
	}
	objs := make([]fyne.CanvasObject, 0, n)
	for i := 0; i < n; i++ {
		l := canvas.NewLine(stroke)
		l.StrokeWidth = strokeWidth
		l.Position1 = pos(out[i])
		l.Position2 = pos(out[(i+1)%len(out)])
		objs = append(objs, l)
	}
	return objs
}

// previewObjects draws the in-progress shape translucent, plus the length
// label at the midpoint of a line.
func previewObjects(p *board.Preview) []fyne.CanvasObject {
	if p == nil {
		return nil
	}
	objs := shapeObjects(p.Shape, previewAlpha)
	if p.HasLength {
		t := canvas.NewText(fmt.Sprintf("%.2f", p.Length), labelColor)
		t.TextSize = 11
		t.Move(pos(geom.Centroid(p.Shape.Outline())))
		objs = append(objs, t)
	}
	return objs
}

// sceneObjects assembles background, grid, committed shapes and preview in
// back-to-front order.
func sceneObjects(area fyne.Size, gridSize float64, showGrid bool, shapes []state.Shape, p *board.Preview) []fyne.CanvasObject {
	bg := canvas.NewRectangle(backgroundColor)
	bg.Resize(area)
	objs := []fyne.CanvasObject{bg}
	if showGrid {
		objs = append(objs, gridObjects(gridSize, area)...)
	}
	for _, s := range shapes {
		objs = append(objs, shapeObjects(s, 255)...)
	}
	return append(objs, previewObjects(p)...)
}
