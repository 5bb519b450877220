package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal/board"
	"DraftBoard/internal/state"
)

// BoardWidget is the editable canvas. It forwards pointer events to the
// document and draws whatever the document renders back.
type BoardWidget struct {
	widget.BaseWidget
	doc *board.Document

	committed []state.Shape
	preview   *board.Preview
	gridSize  float64
	showGrid  bool
	status    board.Status

	// OnStatus is called whenever the document reports new status.
	OnStatus func(board.Status)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ board.Renderer = (*BoardWidget)(nil)

// NewBoardWidget attaches a canvas to doc and pulls its current state.
func NewBoardWidget(doc *board.Document) *BoardWidget {
	b := &BoardWidget{doc: doc}
	b.ExtendBaseWidget(b)
	doc.SetRenderer(b)
	return b
}

// Document returns the document behind the canvas.
func (b *BoardWidget) Document() *board.Document { return b.doc }

// Status returns the last status the document reported.
func (b *BoardWidget) Status() board.Status { return b.status }

func (b *BoardWidget) RenderPreview(p *board.Preview) {
	b.preview = p
	b.Refresh()
}

func (b *BoardWidget) RenderCommitted(shapes []state.Shape) {
	b.committed = shapes
	b.Refresh()
}

func (b *BoardWidget) RenderGrid(size float64, visible bool) {
	b.gridSize, b.showGrid = size, visible
	b.Refresh()
}

func (b *BoardWidget) RenderStatus(st board.Status) {
	b.status = st
	if b.OnStatus != nil {
		b.OnStatus(st)
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.doc.Press(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.doc.Move(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	_ = b.doc.Release(float64(e.Position.X), float64(e.Position.Y))
}

// DragEnd commits if MouseUp was not delivered, e.g. when the pointer left
// the widget during the drag.
func (b *BoardWidget) DragEnd() {
	if b.doc.Gesture().Phase == board.Dragging {
		cur := b.doc.Gesture().Current
		_ = b.doc.Release(cur.X, cur.Y)
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.rebuild(b.Size())
	return r
}

type boardWidgetRenderer struct {
	board   *BoardWidget
	objects []fyne.CanvasObject
}

func (r *boardWidgetRenderer) rebuild(size fyne.Size) {
	b := r.board
	r.objects = sceneObjects(size, b.gridSize, b.showGrid, b.committed, b.preview)
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardWidgetRenderer) Layout(size fyne.Size) { r.rebuild(size) }

func (r *boardWidgetRenderer) Refresh() {
	r.rebuild(r.board.Size())
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *boardWidgetRenderer) Destroy() {}
