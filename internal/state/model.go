package state

import (
	"fmt"
	"image/color"
	"strings"

	"DraftBoard/internal/geom"
)

// Kind tags the shape variant.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindLine      Kind = "line"
)

// Tool is the authoring tool currently armed in the editor.
type Tool int

const (
	ToolNone Tool = iota
	ToolRectangle
	ToolLine
)

func (t Tool) String() string {
	switch t {
	case ToolRectangle:
		return "rectangle"
	case ToolLine:
		return "line"
	default:
		return "none"
	}
}

// Kind maps the tool to the shape it produces. ok is false for ToolNone.
func (t Tool) Kind() (k Kind, ok bool) {
	switch t {
	case ToolRectangle:
		return KindRectangle, true
	case ToolLine:
		return KindLine, true
	}
	return "", false
}

// Color is a "#rrggbb" hex string.
type Color string

const (
	Black Color = "#000000"
	White Color = "#ffffff"
)

// ColorOf converts any color.Color to its hex form, dropping alpha.
func ColorOf(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color(fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B))
}

// RGBA parses the hex string. Malformed values fall back to opaque black.
func (c Color) RGBA() color.NRGBA {
	var r, g, b uint8
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return color.NRGBA{A: 0xff}
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// Shape is a committed rectangle or line.
//
// X1,Y1,X2,Y2 are the coordinates as committed (after snap and constraint).
// Rotation never rewrites them: Angle accumulates and Outline derives the
// drawn points.
type Shape struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Stroke Color   `json:"stroke"`
	Fill   *Color  `json:"fill,omitempty"` // rectangles only
	Layer  string  `json:"layer"`
	Angle  float64 `json:"angle"`
	Seq    uint64  `json:"seq"`
}

// NewRectangle builds a rectangle spanning a and b. A nil fill leaves it open.
func NewRectangle(a, b geom.Point, stroke Color, fill *Color, layer string) Shape {
	return Draft(KindRectangle, a, b, stroke, fill, layer).Identify()
}

// NewLine builds a segment from a to b.
func NewLine(a, b geom.Point, stroke Color, layer string) Shape {
	return Draft(KindLine, a, b, stroke, nil, layer).Identify()
}

// Draft builds a shape with no identity, for previews. fill is ignored for
// lines. Call Identify before committing it.
func Draft(k Kind, a, b geom.Point, stroke Color, fill *Color, layer string) Shape {
	s := Shape{
		Kind:   k,
		X1:     a.X,
		Y1:     a.Y,
		X2:     b.X,
		Y2:     b.Y,
		Stroke: stroke,
		Layer:  layer,
	}
	if fill != nil && k == KindRectangle {
		f := *fill
		s.Fill = &f
	}
	return s
}

// Identify returns s with a fresh id and creation sequence.
func (s Shape) Identify() Shape {
	s.ID = NewID()
	s.Seq = nextSeq()
	return s
}

// Rotated returns a new shape, with a new identity, turned a further deg
// degrees about its center. The receiver is left untouched.
func (s Shape) Rotated(deg float64) Shape {
	r := s.Identify()
	r.Angle = s.Angle + deg
	if s.Fill != nil {
		f := *s.Fill
		r.Fill = &f
	}
	return r
}

// Start and End are the committed corners or endpoints.
func (s Shape) Start() geom.Point { return geom.Pt(s.X1, s.Y1) }
func (s Shape) End() geom.Point   { return geom.Pt(s.X2, s.Y2) }

// Center is the rotation pivot.
func (s Shape) Center() geom.Point { return geom.Midpoint(s.Start(), s.End()) }

// Outline returns the points to draw: four corners in TL, BL, BR, TR order for
// a rectangle, two endpoints for a line, with Angle applied.
func (s Shape) Outline() []geom.Point {
	switch s.Kind {
	case KindRectangle:
		c := geom.RotateRectangle(s.X1, s.Y1, s.X2, s.Y2, s.Angle)
		return c[:]
	case KindLine:
		x1, y1, x2, y2 := geom.RotateLine(s.X1, s.Y1, s.X2, s.Y2, s.Angle)
		return []geom.Point{geom.Pt(x1, y1), geom.Pt(x2, y2)}
	}
	return nil
}

// Length is the segment length for lines and the diagonal for rectangles.
func (s Shape) Length() float64 { return geom.Distance(s.Start(), s.End()) }

// Layer is a named, ordered set of shape ids. Order is draw order.
type Layer struct {
	Name    string   `json:"name"`
	IDs     []string `json:"ids"`
	Visible bool     `json:"visible"`
}
