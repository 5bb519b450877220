package board

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DraftBoard/internal/geom"
	"DraftBoard/internal/state"
)

type recorder struct {
	previews  []*Preview
	committed [][]state.Shape
	grids     []bool
	statuses  []Status
}

func (r *recorder) RenderPreview(p *Preview)           { r.previews = append(r.previews, p) }
func (r *recorder) RenderCommitted(s []state.Shape)    { r.committed = append(r.committed, s) }
func (r *recorder) RenderGrid(_ float64, visible bool) { r.grids = append(r.grids, visible) }
func (r *recorder) RenderStatus(st Status)             { r.statuses = append(r.statuses, st) }

func (r *recorder) lastStatus() Status { return r.statuses[len(r.statuses)-1] }

func newDoc(t *testing.T, mutate func(*Options)) (*Document, *recorder) {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	rec := &recorder{}
	d, err := New(opts, rec, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return d, rec
}

func drag(d *Document, x1, y1, x2, y2 float64) error {
	d.Press(x1, y1)
	d.Move(x2, y2)
	return d.Release(x2, y2)
}

func TestNewRejectsBadGrid(t *testing.T) {
	opts := DefaultOptions()
	opts.GridSize = 0
	_, err := New(opts, nil, nil)
	assert.ErrorIs(t, err, state.ErrInvalidGrid)
}

func TestRectangleCommitIsSnapped(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 12, 13, 48, 47))

	shapes := d.Shapes()
	require.Len(t, shapes, 1)
	s := shapes[0]
	assert.Equal(t, state.KindRectangle, s.Kind)
	assert.Equal(t, [4]float64{20, 20, 40, 40}, [4]float64{s.X1, s.Y1, s.X2, s.Y2})
	assert.Equal(t, state.DefaultLayer, s.Layer)
	assert.Nil(t, s.Fill)
}

func TestRectangleCarriesFill(t *testing.T) {
	d, _ := newDoc(t, nil)
	fill := state.Color("#ffcc00")
	d.SetFillColor(&fill)
	d.SetColor("#0000ff")
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 40, 40))
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))

	shapes := d.Shapes()
	require.Len(t, shapes, 2)
	require.NotNil(t, shapes[0].Fill)
	assert.Equal(t, fill, *shapes[0].Fill)
	assert.Equal(t, state.Color("#0000ff"), shapes[0].Stroke)
	assert.Nil(t, shapes[1].Fill, "lines never carry a fill")

	d.SetFillColor(nil)
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 20, 20))
	assert.Nil(t, d.Shapes()[2].Fill)
}

func TestReleaseUsesLastMovePoint(t *testing.T) {
	d, _ := newDoc(t, func(o *Options) { o.SnapToGrid = false })
	d.SelectTool(state.ToolLine)
	d.Press(1, 2)
	d.Move(30, 40)
	require.NoError(t, d.Release(999, 999))
	s := d.Shapes()[0]
	assert.Equal(t, geom.Pt(1, 2), s.Start())
	assert.Equal(t, geom.Pt(30, 40), s.End())
}

func TestOrthoTieIsHorizontal(t *testing.T) {
	d, rec := newDoc(t, func(o *Options) {
		o.SnapToGrid = false
		o.OrthoMode = true
	})
	d.SelectTool(state.ToolLine)
	d.Press(5, 5)
	d.Move(15, 15)
	p := rec.previews[len(rec.previews)-1]
	require.NotNil(t, p)
	assert.Equal(t, geom.Pt(15, 5), p.Shape.End())
	d.Move(8, 30)
	require.NoError(t, d.Release(8, 30))
	assert.Equal(t, geom.Pt(5, 30), d.Shapes()[0].End())
}

func TestOrthoOnlyAffectsLines(t *testing.T) {
	d, _ := newDoc(t, func(o *Options) {
		o.SnapToGrid = false
		o.OrthoMode = true
	})
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 30, 10))
	assert.Equal(t, geom.Pt(30, 10), d.Shapes()[0].End())
}

func TestLinePreviewHasLength(t *testing.T) {
	d, rec := newDoc(t, func(o *Options) { o.SnapToGrid = false })
	d.SelectTool(state.ToolLine)
	d.Press(0, 0)
	assert.Nil(t, rec.previews[len(rec.previews)-1], "press clears stale preview")
	d.Move(3, 4)
	p := rec.previews[len(rec.previews)-1]
	require.NotNil(t, p)
	assert.True(t, p.HasLength)
	assert.InDelta(t, 5, p.Length, 1e-12)

	require.NoError(t, d.Release(3, 4))
	assert.Nil(t, rec.previews[len(rec.previews)-1], "release clears preview")
	assert.Equal(t, Idle, d.Gesture().Phase)

	d.SelectTool(state.ToolRectangle)
	d.Press(0, 0)
	d.Move(3, 4)
	p = rec.previews[len(rec.previews)-1]
	require.NotNil(t, p)
	assert.False(t, p.HasLength)
}

func TestPreviewDoesNotConsumeIdentity(t *testing.T) {
	d, rec := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))

	d.Press(0, 20)
	for x := 0.0; x < 200; x += 7 {
		d.Move(x, 20)
	}
	for _, p := range rec.previews {
		if p != nil {
			assert.Empty(t, p.Shape.ID)
			assert.Zero(t, p.Shape.Seq)
		}
	}
	require.NoError(t, d.Release(0, 0))

	shapes := d.Shapes()
	require.Len(t, shapes, 2)
	assert.NotEmpty(t, shapes[1].ID)
	assert.Equal(t, shapes[0].Seq+1, shapes[1].Seq, "no sequence gaps from previews")
}

func TestNoToolCommitsNothing(t *testing.T) {
	d, rec := newDoc(t, nil)
	d.Press(10, 10)
	d.Move(47, 52)
	assert.Equal(t, geom.Pt(40, 60), d.Gesture().Current, "coordinates still track")
	require.NoError(t, d.Release(47, 52))
	assert.Empty(t, d.Shapes())
	for _, p := range rec.previews {
		assert.Nil(t, p)
	}
}

func TestReleaseWhileIdle(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	d.Move(10, 10)
	require.NoError(t, d.Release(10, 10))
	assert.Empty(t, d.Shapes())
}

func TestToolIsFixedAtPress(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	d.Press(0, 0)
	d.SelectTool(state.ToolRectangle)
	d.Move(40, 0)
	require.NoError(t, d.Release(40, 0))
	assert.Equal(t, state.KindLine, d.Shapes()[0].Kind)
}

func TestRotateLineScenario(t *testing.T) {
	d, _ := newDoc(t, func(o *Options) { o.SnapToGrid = false })
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 10, 0))
	first := d.Shapes()[0]

	require.NoError(t, d.RotateLast())
	shapes := d.Shapes()
	require.Len(t, shapes, 1)
	once := shapes[0]
	assert.NotEqual(t, first.ID, once.ID)
	c, s := math.Cos(math.Pi/12), math.Sin(math.Pi/12)
	out := once.Outline()
	assert.InDelta(t, 5-5*c, out[0].X, 1e-9)
	assert.InDelta(t, -5*s, out[0].Y, 1e-9)
	assert.InDelta(t, 5+5*c, out[1].X, 1e-9)
	assert.InDelta(t, 5*s, out[1].Y, 1e-9)

	require.NoError(t, d.RotateLast())
	twice := d.Shapes()[0]
	assert.Equal(t, 30.0, twice.Angle)
	// a further 15 degrees applied to the once-rotated endpoints
	x1, y1, x2, y2 := geom.RotateLine(out[0].X, out[0].Y, out[1].X, out[1].Y, 15)
	got := twice.Outline()
	assert.InDelta(t, x1, got[0].X, 1e-9)
	assert.InDelta(t, y1, got[0].Y, 1e-9)
	assert.InDelta(t, x2, got[1].X, 1e-9)
	assert.InDelta(t, y2, got[1].Y, 1e-9)
}

func TestRotateIsPerShape(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 40, 40))
	require.NoError(t, d.RotateLast())
	require.NoError(t, drag(d, 100, 100, 140, 140))
	require.NoError(t, d.RotateLast())

	shapes := d.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, 15.0, shapes[0].Angle)
	assert.Equal(t, 15.0, shapes[1].Angle)
}

func TestRotateMovesShapeToTop(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))
	require.NoError(t, drag(d, 0, 20, 40, 20))
	second := d.Shapes()[1]
	require.NoError(t, d.RotateLast())

	layer := d.Layers()[0]
	require.Len(t, layer.IDs, 2)
	shapes := d.Shapes()
	assert.Equal(t, shapes[1].ID, layer.IDs[1])
	assert.NotEqual(t, second.ID, layer.IDs[1])
	assert.NotContains(t, layer.IDs, second.ID)
}

func TestRotateKeepsLayerAndColors(t *testing.T) {
	d, _ := newDoc(t, nil)
	fill := state.Color("#00ff00")
	d.SetFillColor(&fill)
	d.SetColor("#ff0000")
	l := d.AddLayer()
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 40, 60))
	require.NoError(t, d.SelectLayer(state.DefaultLayer))
	require.NoError(t, d.RotateLast())

	r := d.Shapes()[0]
	assert.Equal(t, l, r.Layer)
	assert.Equal(t, state.Color("#ff0000"), r.Stroke)
	require.NotNil(t, r.Fill)
	assert.Equal(t, fill, *r.Fill)
	assert.Len(t, r.Outline(), 4)
	assert.Equal(t, []string{r.ID}, d.Layers()[1].IDs)
}

func TestUndo(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))
	l := d.AddLayer()
	require.NoError(t, drag(d, 0, 20, 40, 20))

	require.NoError(t, d.Undo())
	assert.Len(t, d.Shapes(), 1)
	assert.Empty(t, d.Layers()[1].IDs, "undo also leaves the layer")
	assert.Equal(t, l, d.ActiveLayer())

	require.NoError(t, d.RotateLast())
	require.NoError(t, d.Undo())
	assert.Empty(t, d.Shapes())
	assert.Empty(t, d.Layers()[0].IDs)
}

func TestEmptyHistoryIsSilent(t *testing.T) {
	d, rec := newDoc(t, nil)
	before := len(rec.statuses)

	err := d.Undo()
	assert.ErrorIs(t, err, state.ErrInvalidState)
	err = d.RotateLast()
	assert.ErrorIs(t, err, state.ErrInvalidState)

	assert.Empty(t, d.Shapes())
	assert.Len(t, rec.statuses, before, "no status signal for invalid state")
}

func TestUnsupportedOperations(t *testing.T) {
	d, rec := newDoc(t, nil)
	for name, op := range map[string]func() error{"redo": d.Redo, "save": d.Save, "open": d.Open} {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.ErrorIs(t, err, state.ErrUnsupported)
			assert.Contains(t, rec.lastStatus().Message, "not supported")
			assert.Contains(t, rec.lastStatus().Message, name)
		})
	}
}

func TestAddLayerSequence(t *testing.T) {
	d, _ := newDoc(t, nil)
	const n = 4
	for i := 1; i <= n; i++ {
		name := d.AddLayer()
		assert.Equal(t, fmt.Sprintf("layer_%d", i+1), name)
		assert.Equal(t, name, d.ActiveLayer())
	}
	assert.Len(t, d.Layers(), n+1)
}

func TestShapesGoToActiveLayer(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	l := d.AddLayer()
	require.NoError(t, drag(d, 0, 0, 40, 0))
	assert.Equal(t, l, d.Shapes()[0].Layer)
	assert.Equal(t, []string{d.Shapes()[0].ID}, d.Layers()[1].IDs)
}

func TestSelectUnknownLayer(t *testing.T) {
	d, rec := newDoc(t, nil)
	l := d.AddLayer()
	err := d.SelectLayer("nowhere")
	assert.ErrorIs(t, err, state.ErrInvalidLayer)
	assert.Equal(t, l, d.ActiveLayer())
	assert.Contains(t, rec.lastStatus().Message, "invalid layer")
}

func TestLayerVisibility(t *testing.T) {
	d, rec := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))
	require.NoError(t, d.SetLayerVisible(state.DefaultLayer, false))
	assert.Empty(t, rec.committed[len(rec.committed)-1])
	assert.Empty(t, d.Scene().Shapes)
	assert.Len(t, d.Shapes(), 1)
	assert.ErrorIs(t, d.SetLayerVisible("ghost", false), state.ErrInvalidLayer)
}

func TestClear(t *testing.T) {
	d, _ := newDoc(t, nil)
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 40, 40))
	d.AddLayer()
	d.AddLayer()
	d.Press(0, 0)
	d.Clear()

	assert.Empty(t, d.Shapes())
	layers := d.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, state.DefaultLayer, layers[0].Name)
	assert.Equal(t, state.DefaultLayer, d.ActiveLayer())
	assert.Equal(t, Idle, d.Gesture().Phase)
}

func TestClearNotifiesAfterChange(t *testing.T) {
	d, _ := newDoc(t, nil)
	var events []string
	d.OnChange = func(sc Scene) { events = append(events, fmt.Sprintf("change %d", len(sc.Shapes))) }
	d.OnClear = func() { events = append(events, "clear") }

	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))
	d.Clear()
	assert.Equal(t, []string{"change 1", "change 0", "clear"}, events)

	assert.ErrorIs(t, d.Undo(), state.ErrInvalidState)
	assert.Len(t, events, 3, "a failed undo notifies nobody")
}

func TestStatusCountsActiveLayer(t *testing.T) {
	d, rec := newDoc(t, nil)
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))
	require.NoError(t, drag(d, 0, 20, 40, 20))
	assert.Equal(t, 2, rec.lastStatus().LayerShapeCount)

	d.AddLayer()
	st := d.Status()
	assert.Equal(t, 0, st.LayerShapeCount)
	assert.Equal(t, 2, st.ShapeCount)

	require.NoError(t, drag(d, 0, 40, 40, 40))
	assert.Equal(t, 1, rec.lastStatus().LayerShapeCount)
}

func TestToggles(t *testing.T) {
	d, rec := newDoc(t, nil)
	d.SelectTool(state.ToolRectangle)
	require.NoError(t, drag(d, 0, 0, 40, 40))

	d.ToggleGrid()
	assert.False(t, rec.grids[len(rec.grids)-1])
	assert.False(t, d.Status().ShowGrid)
	assert.Len(t, d.Shapes(), 1, "hiding the grid keeps shapes")

	d.ToggleSnap()
	require.NoError(t, drag(d, 3, 3, 17, 19))
	assert.Equal(t, geom.Pt(17, 19), d.Shapes()[1].End())

	d.ToggleOrtho()
	assert.True(t, d.Status().OrthoMode)
	assert.False(t, d.Status().SnapToGrid)
}

func TestSetGridSize(t *testing.T) {
	d, _ := newDoc(t, nil)
	require.NoError(t, d.SetGridSize(50))
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 24, 26, 76, 26))
	s := d.Shapes()[0]
	assert.Equal(t, geom.Pt(0, 50), s.Start())
	assert.Equal(t, geom.Pt(100, 50), s.End())
	assert.ErrorIs(t, d.SetGridSize(-1), state.ErrInvalidGrid)
	assert.Equal(t, 50.0, d.Status().GridSize)
}

func TestOnChange(t *testing.T) {
	d, _ := newDoc(t, nil)
	var scenes []Scene
	d.OnChange = func(s Scene) { scenes = append(scenes, s) }
	d.SelectTool(state.ToolLine)
	require.NoError(t, drag(d, 0, 0, 40, 0))
	require.NoError(t, d.RotateLast())
	require.NoError(t, d.Undo())
	d.ToggleGrid()

	require.Len(t, scenes, 4)
	assert.Len(t, scenes[0].Shapes, 1)
	assert.Equal(t, 15.0, scenes[1].Shapes[0].Angle)
	assert.Empty(t, scenes[2].Shapes)
	assert.False(t, scenes[3].ShowGrid)
}

func TestRefreshPushesEverything(t *testing.T) {
	d, _ := newDoc(t, nil)
	rec := &recorder{}
	d.SetRenderer(rec)
	assert.Len(t, rec.grids, 1)
	assert.Len(t, rec.committed, 1)
	assert.Len(t, rec.previews, 1)
	require.Len(t, rec.statuses, 1)
	assert.Equal(t, []string{state.DefaultLayer}, rec.statuses[0].Layers)
}
