package ui

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal/board"
	"DraftBoard/internal/state"
)

// palette offers the stroke and fill choices.
var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, A: 255},
	color.NRGBA{R: 128, G: 128, B: 128, A: 255},
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Controls wires buttons, menus and shortcuts to a document. Every action
// goes through the document; the controls only mirror its status.
type Controls struct {
	doc *board.Document

	status      *widget.Label
	layerSelect *widget.Select
	gridSelect  *widget.Select
	syncing     bool

	// OnExport is invoked by the export button, menu entry and shortcut.
	OnExport func()
	// OnQuit is invoked by the Quit menu entry.
	OnQuit func()
	// PickColor asks the user for a colour and passes it to picked. Without
	// it the colour buttons and shortcuts do nothing.
	PickColor func(title string, picked func(color.Color))
}

// gridSizes are the pitches offered in the grid picker. A configured size
// not in the list is added when first reported.
var gridSizes = []string{"10", "20", "25", "40", "50", "100"}

// NewControls builds the control set for doc. Call Update with every status
// the document reports.
func NewControls(doc *board.Document) *Controls {
	c := &Controls{
		doc:    doc,
		status: widget.NewLabel("Ready"),
	}
	c.layerSelect = widget.NewSelect([]string{state.DefaultLayer}, func(name string) {
		if c.syncing || name == "" {
			return
		}
		_ = c.doc.SelectLayer(name)
	})
	c.layerSelect.SetSelected(state.DefaultLayer)
	c.gridSelect = widget.NewSelect(slices.Clone(gridSizes), func(v string) {
		if c.syncing {
			return
		}
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return
		}
		_ = c.doc.SetGridSize(size)
	})
	return c
}

// Update mirrors st into the status bar and layer picker.
func (c *Controls) Update(st board.Status) {
	c.syncing = true
	defer func() { c.syncing = false }()

	c.layerSelect.Options = st.Layers
	c.layerSelect.SetSelected(st.Layer)
	c.layerSelect.Refresh()

	grid := strconv.FormatFloat(st.GridSize, 'g', -1, 64)
	if !slices.Contains(c.gridSelect.Options, grid) {
		c.gridSelect.Options = append(c.gridSelect.Options, grid)
	}
	c.gridSelect.SetSelected(grid)
	c.gridSelect.Refresh()

	c.status.SetText(statusText(st))
}

func statusText(st board.Status) string {
	fill := "none"
	if st.Fill != nil {
		fill = string(*st.Fill)
	}
	text := fmt.Sprintf("Tool: %s | Color: %s | Fill: %s | Layer: %s (%d) | Grid %g (%s) | Snap %s | Ortho %s | %d shapes",
		st.Tool, st.Stroke, fill, st.Layer, st.LayerShapeCount, st.GridSize, onOff(st.ShowGrid), onOff(st.SnapToGrid), onOff(st.OrthoMode), st.ShapeCount)
	if st.Message != "" {
		text += " | " + st.Message
	}
	return text
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// StatusBar is the label that shows the document status.
func (c *Controls) StatusBar() fyne.CanvasObject { return c.status }

func (c *Controls) export() {
	if c.OnExport != nil {
		c.OnExport()
	}
}

func (c *Controls) pick(title string, picked func(color.Color)) {
	if c.PickColor != nil {
		c.PickColor(title, picked)
	}
}

// chooseColor asks for any stroke colour.
func (c *Controls) chooseColor() {
	c.pick("Stroke color", func(col color.Color) { c.doc.SetColor(state.ColorOf(col)) })
}

// chooseFillColor asks for any fill colour.
func (c *Controls) chooseFillColor() {
	c.pick("Fill color", func(col color.Color) {
		fill := state.ColorOf(col)
		c.doc.SetFillColor(&fill)
	})
}

// toggleLayer shows or hides the active layer.
func (c *Controls) toggleLayer() {
	active := c.doc.ActiveLayer()
	for _, l := range c.doc.Layers() {
		if l.Name == active {
			_ = c.doc.SetLayerVisible(active, !l.Visible)
			return
		}
	}
}

func (c *Controls) rotate()   { _ = c.doc.RotateLast() }
func (c *Controls) undo()     { _ = c.doc.Undo() }
func (c *Controls) redo()     { _ = c.doc.Redo() }
func (c *Controls) save()     { _ = c.doc.Save() }
func (c *Controls) open()     { _ = c.doc.Open() }
func (c *Controls) addLayer() { c.doc.AddLayer() }

// Toolbar builds the button row shown under the canvas.
func (c *Controls) Toolbar() fyne.CanvasObject {
	d := c.doc

	strokes := container.NewHBox()
	fills := container.NewHBox()
	for _, col := range palette {
		strokes.Add(newColorSwatch(col, func(col color.Color) { d.SetColor(state.ColorOf(col)) }))
		fills.Add(newColorSwatch(col, func(col color.Color) {
			fill := state.ColorOf(col)
			d.SetFillColor(&fill)
		}))
	}
	noFill := widget.NewButton("No Fill", func() { d.SetFillColor(nil) })
	moreStroke := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), c.chooseColor)
	moreFill := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), c.chooseFillColor)

	tools := container.NewHBox(
		widget.NewButton("Draw Rectangle", func() { d.SelectTool(state.ToolRectangle) }),
		widget.NewButton("Draw Line", func() { d.SelectTool(state.ToolLine) }),
		widget.NewButton("Clear", d.Clear),
		widget.NewButton("Toggle Grid", d.ToggleGrid),
		widget.NewButton("Snap", d.ToggleSnap),
		widget.NewButton("Ortho Mode", d.ToggleOrtho),
		c.gridSelect,
		widget.NewButtonWithIcon("Rotate", theme.ViewRefreshIcon(), c.rotate),
		widget.NewButtonWithIcon("", theme.ContentUndoIcon(), c.undo),
		widget.NewButtonWithIcon("", theme.ContentRedoIcon(), c.redo),
		widget.NewButton("Add Layer", c.addLayer),
		c.layerSelect,
		widget.NewButtonWithIcon("", theme.VisibilityIcon(), c.toggleLayer),
		widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), c.export),
	)
	colors := container.NewHBox(
		widget.NewLabel("Color:"), strokes, moreStroke,
		widget.NewSeparator(),
		widget.NewLabel("Fill:"), fills, moreFill, noFill,
	)
	return container.NewVBox(tools, colors)
}

// MainMenu mirrors the File, Edit and View menus of the desktop editor.
func (c *Controls) MainMenu() *fyne.MainMenu {
	d := c.doc
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New", d.Clear),
		fyne.NewMenuItem("Open", c.open),
		fyne.NewMenuItem("Save", c.save),
		fyne.NewMenuItem("Export PDF", c.export),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			if c.OnQuit != nil {
				c.OnQuit()
			}
		}),
	)
	edit := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", c.undo),
		fyne.NewMenuItem("Redo", c.redo),
		fyne.NewMenuItem("Rotate", c.rotate),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Choose Color...", c.chooseColor),
		fyne.NewMenuItem("Choose Fill Color...", c.chooseFillColor),
	)
	view := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle Grid", d.ToggleGrid),
		fyne.NewMenuItem("Ortho Mode", d.ToggleOrtho),
		fyne.NewMenuItem("Snap to Grid", d.ToggleSnap),
		fyne.NewMenuItem("Show/Hide Layer", c.toggleLayer),
	)
	return fyne.NewMainMenu(file, edit, view)
}

// Shortcut binds one key chord to an action.
type Shortcut struct {
	Key    fyne.KeyName
	Action func()
}

// Shortcuts lists the Ctrl/Cmd key bindings.
func (c *Controls) Shortcuts() []Shortcut {
	d := c.doc
	return []Shortcut{
		{fyne.KeyR, func() { d.SelectTool(state.ToolRectangle) }},
		{fyne.KeyL, func() { d.SelectTool(state.ToolLine) }},
		{fyne.KeyC, c.chooseColor},
		{fyne.KeyF, c.chooseFillColor},
		{fyne.KeyG, d.ToggleGrid},
		{fyne.KeyX, d.Clear},
		{fyne.KeyO, d.ToggleOrtho},
		{fyne.KeyT, c.rotate},
		{fyne.KeyN, c.addLayer},
		{fyne.KeyZ, c.undo},
		{fyne.KeyY, c.redo},
		{fyne.KeyS, c.save},
		{fyne.KeyP, c.export},
	}
}

// BindShortcuts registers Shortcuts on cv.
func (c *Controls) BindShortcuts(cv fyne.Canvas) {
	for _, s := range c.Shortcuts() {
		action := s.Action
		cv.AddShortcut(&desktop.CustomShortcut{KeyName: s.Key, Modifier: fyne.KeyModifierShortcutDefault},
			func(fyne.Shortcut) { action() })
	}
}
