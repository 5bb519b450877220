// Package export renders a board scene to PDF.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"DraftBoard/internal/board"
	"DraftBoard/internal/geom"
	"DraftBoard/internal/state"
)

const (
	pageW  = 297.0 // A4 landscape, mm
	pageH  = 210.0
	margin = 10.0
)

// layout maps canvas units onto the page, keeping the aspect ratio.
type layout struct {
	scale  float64
	ox, oy float64
}

func newLayout(sc board.Scene) layout {
	w, h := sc.Width, sc.Height
	for _, s := range sc.Shapes {
		_, hi := geom.Bounds(s.Outline())
		w = math.Max(w, hi.X)
		h = math.Max(h, hi.Y)
	}
	if w <= 0 || h <= 0 {
		return layout{scale: 1, ox: margin, oy: margin}
	}
	scale := math.Min((pageW-2*margin)/w, (pageH-2*margin)/h)
	return layout{scale: scale, ox: margin, oy: margin}
}

func (l layout) pt(p geom.Point) gofpdf.PointType {
	return gofpdf.PointType{X: l.ox + p.X*l.scale, Y: l.oy + p.Y*l.scale}
}

// Render draws the scene onto a new single-page document.
func Render(sc board.Scene) *gofpdf.Fpdf {
	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle("DraftBoard export", true)
	p.AddPage()
	l := newLayout(sc)

	if sc.ShowGrid && sc.GridSize > 0 {
		drawGrid(p, l, sc)
	}
	for _, s := range sc.Shapes {
		drawShape(p, l, s)
	}

	p.SetFont("Helvetica", "", 8)
	p.SetTextColor(120, 120, 120)
	p.Text(margin, pageH-4, fmt.Sprintf("%d shapes, grid %g", len(sc.Shapes), sc.GridSize))
	return p
}

func drawGrid(p *gofpdf.Fpdf, l layout, sc board.Scene) {
	p.SetDrawColor(200, 200, 200)
	p.SetLineWidth(0.1)
	p.SetDashPattern([]float64{0.5, 0.5}, 0)
	for x := 0.0; x <= sc.Width; x += sc.GridSize {
		a, b := l.pt(geom.Pt(x, 0)), l.pt(geom.Pt(x, sc.Height))
		p.Line(a.X, a.Y, b.X, b.Y)
	}
	for y := 0.0; y <= sc.Height; y += sc.GridSize {
		a, b := l.pt(geom.Pt(0, y)), l.pt(geom.Pt(sc.Width, y))
		p.Line(a.X, a.Y, b.X, b.Y)
	}
	p.SetDashPattern([]float64{}, 0)
}

func drawShape(p *gofpdf.Fpdf, l layout, s state.Shape) {
	stroke := s.Stroke.RGBA()
	p.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	p.SetLineWidth(0.4)

	out := s.Outline()
	switch s.Kind {
	case state.KindRectangle:
		pts := make([]gofpdf.PointType, 0, len(out))
		for _, pt := range out {
			pts = append(pts, l.pt(pt))
		}
		style := "D"
		if s.Fill != nil {
			fill := s.Fill.RGBA()
			p.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
			style = "FD"
		}
		p.Polygon(pts, style)
	case state.KindLine:
		a, b := l.pt(out[0]), l.pt(out[1])
		p.Line(a.X, a.Y, b.X, b.Y)
	}
}

// WritePDF renders the scene and writes the PDF to w.
func WritePDF(w io.Writer, sc board.Scene) error {
	p := Render(sc)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF renders the scene into the file at path.
func ExportPDF(path string, sc board.Scene) error {
	p := Render(sc)
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf %s: %w", path, err)
	}
	return nil
}
