package board

import "DraftBoard/internal/state"

// Renderer is what an adapter implements to display the document. Every call
// carries the complete current value; the adapter never has to diff.
type Renderer interface {
	// RenderPreview shows the in-progress shape. nil clears it.
	RenderPreview(p *Preview)
	// RenderCommitted draws the committed shapes of visible layers in z-order.
	RenderCommitted(shapes []state.Shape)
	// RenderGrid draws or hides the background grid.
	RenderGrid(size float64, visible bool)
	// RenderStatus reports tool, colors, layers and the last message.
	RenderStatus(st Status)
}

// Preview is the ephemeral shape shown while dragging.
type Preview struct {
	Shape state.Shape
	// Length is set for line previews and is the live label text value.
	Length    float64
	HasLength bool
}

// Status is the editor state an adapter shows around the canvas.
type Status struct {
	Tool            state.Tool
	Stroke          state.Color
	Fill            *state.Color
	Layer           string
	Layers          []string
	LayerShapeCount int // shapes on the active layer
	ShowGrid        bool
	SnapToGrid      bool
	OrthoMode       bool
	GridSize        float64
	ShapeCount      int
	Message         string
}

// Scene is a self-contained snapshot of what is on the canvas, used by
// exporters and remote viewers.
type Scene struct {
	Shapes   []state.Shape `json:"shapes"`
	GridSize float64       `json:"grid_size"`
	ShowGrid bool          `json:"show_grid"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
}

// nopRenderer lets a Document run headless.
type nopRenderer struct{}

func (nopRenderer) RenderPreview(*Preview)        {}
func (nopRenderer) RenderCommitted([]state.Shape) {}
func (nopRenderer) RenderGrid(float64, bool)      {}
func (nopRenderer) RenderStatus(Status)           {}
