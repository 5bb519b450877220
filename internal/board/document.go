// Package board is the drafting engine: it owns the shape store and the
// editor settings, runs the press/drag/release state machine and the
// rotate/undo commands, and reports everything through a Renderer.
//
// A Document is driven from a single goroutine, normally the UI event loop.
package board

import (
	"errors"
	"fmt"
	"log/slog"

	"DraftBoard/internal/state"
)

// Options seeds a new Document.
type Options struct {
	GridSize     float64
	ShowGrid     bool
	SnapToGrid   bool
	OrthoMode    bool
	Stroke       state.Color
	Fill         *state.Color
	RotationStep float64
	Width        float64
	Height       float64
}

// DefaultOptions mirrors a fresh editor: 20 unit grid, grid shown, snapping
// on, black strokes, 15 degree rotation steps, 800x600 canvas.
func DefaultOptions() Options {
	return Options{
		GridSize:     20,
		ShowGrid:     true,
		SnapToGrid:   true,
		Stroke:       state.Black,
		RotationStep: 15,
		Width:        800,
		Height:       600,
	}
}

// Document is the editor state behind one canvas.
type Document struct {
	store *state.Store
	r     Renderer
	log   *slog.Logger

	tool     state.Tool
	stroke   state.Color
	fill     *state.Color
	gridSize float64
	showGrid bool
	snap     bool
	ortho    bool
	step     float64
	width    float64
	height   float64

	gesture Gesture
	message string

	// OnChange, if set, receives a fresh Scene after every change to the
	// committed shapes or the grid.
	OnChange func(Scene)
	// OnClear, if set, is called after Clear, following the OnChange call.
	OnClear func()
}

// New builds a Document. r may be nil to run headless; log may be nil.
func New(opts Options, r Renderer, log *slog.Logger) (*Document, error) {
	if opts.GridSize <= 0 {
		return nil, fmt.Errorf("new document: %w", state.ErrInvalidGrid)
	}
	if r == nil {
		r = nopRenderer{}
	}
	if log == nil {
		log = slog.Default()
	}
	if opts.Stroke == "" {
		opts.Stroke = state.Black
	}
	if opts.RotationStep == 0 {
		opts.RotationStep = 15
	}
	return &Document{
		store:    state.NewStore(),
		r:        r,
		log:      log.With("component", "board"),
		stroke:   opts.Stroke,
		fill:     cloneColor(opts.Fill),
		gridSize: opts.GridSize,
		showGrid: opts.ShowGrid,
		snap:     opts.SnapToGrid,
		ortho:    opts.OrthoMode,
		step:     opts.RotationStep,
		width:    opts.Width,
		height:   opts.Height,
	}, nil
}

// SetRenderer swaps the adapter and pushes the full state to it.
func (d *Document) SetRenderer(r Renderer) {
	if r == nil {
		r = nopRenderer{}
	}
	d.r = r
	d.Refresh()
}

// Refresh re-renders grid, committed shapes, preview and status.
func (d *Document) Refresh() {
	d.r.RenderGrid(d.gridSize, d.showGrid)
	d.r.RenderCommitted(d.store.Visible())
	d.r.RenderPreview(d.Preview())
	d.r.RenderStatus(d.Status())
}

// Status snapshots the editor settings for display.
func (d *Document) Status() Status {
	active := d.store.ActiveLayer()
	onLayer, _ := d.store.LayerShapes(active)
	return Status{
		Tool:            d.tool,
		Stroke:          d.stroke,
		Fill:            cloneColor(d.fill),
		Layer:           active,
		Layers:          d.store.LayerNames(),
		LayerShapeCount: len(onLayer),
		ShowGrid:        d.showGrid,
		SnapToGrid:      d.snap,
		OrthoMode:       d.ortho,
		GridSize:        d.gridSize,
		ShapeCount:      d.store.Len(),
		Message:         d.message,
	}
}

// Scene snapshots the visible drawing.
func (d *Document) Scene() Scene {
	return Scene{
		Shapes:   d.store.Visible(),
		GridSize: d.gridSize,
		ShowGrid: d.showGrid,
		Width:    d.width,
		Height:   d.height,
	}
}

// Shapes returns every committed shape in creation order.
func (d *Document) Shapes() []state.Shape { return d.store.History() }

// Layers returns the layers bottom to top.
func (d *Document) Layers() []state.Layer { return d.store.Layers() }

// ActiveLayer is the layer new shapes go to.
func (d *Document) ActiveLayer() string { return d.store.ActiveLayer() }

// Tool is the armed authoring tool.
func (d *Document) Tool() state.Tool { return d.tool }

// committed pushes the new drawing to the renderer and OnChange.
func (d *Document) committed() {
	d.r.RenderCommitted(d.store.Visible())
	d.r.RenderStatus(d.Status())
	d.changed()
}

func (d *Document) changed() {
	if d.OnChange != nil {
		d.OnChange(d.Scene())
	}
}

func (d *Document) settingsChanged(msg string) {
	d.message = msg
	d.r.RenderStatus(d.Status())
}

// fail records err for the status line and returns it. ErrInvalidState is
// kept silent.
func (d *Document) fail(err error) error {
	if errors.Is(err, state.ErrInvalidState) {
		d.log.Debug("ignored", "err", err)
		return err
	}
	d.log.Warn("command failed", "err", err)
	d.message = err.Error()
	d.r.RenderStatus(d.Status())
	return err
}

func cloneColor(c *state.Color) *state.Color {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
