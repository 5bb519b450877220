package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal/board"
)

// SceneWidget shows a scene received from a sharing host. It ignores input.
type SceneWidget struct {
	widget.BaseWidget
	scene board.Scene
}

// NewSceneWidget returns an empty read-only canvas.
func NewSceneWidget() *SceneWidget {
	s := &SceneWidget{}
	s.ExtendBaseWidget(s)
	return s
}

// SetScene replaces the displayed scene. Call it on the UI goroutine.
func (s *SceneWidget) SetScene(sc board.Scene) {
	s.scene = sc
	s.Refresh()
}

// Scene returns the displayed scene.
func (s *SceneWidget) Scene() board.Scene { return s.scene }

func (s *SceneWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &sceneRenderer{w: s}
	r.rebuild(s.Size())
	return r
}

type sceneRenderer struct {
	w       *SceneWidget
	objects []fyne.CanvasObject
}

func (r *sceneRenderer) rebuild(size fyne.Size) {
	sc := r.w.scene
	r.objects = sceneObjects(size, sc.GridSize, sc.ShowGrid, sc.Shapes, nil)
}

func (r *sceneRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sceneRenderer) Layout(size fyne.Size)        { r.rebuild(size) }
func (r *sceneRenderer) MinSize() fyne.Size           { return fyne.NewSize(300, 300) }
func (r *sceneRenderer) Destroy()                     {}

func (r *sceneRenderer) Refresh() {
	r.rebuild(r.w.Size())
	canvas.Refresh(r.w)
}
