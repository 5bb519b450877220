package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal/board"
	"DraftBoard/internal/export"
)

const appID = "io.draftboard.editor"

// RunApp opens the editor window for doc and blocks until it is closed.
// shareLink, when not empty, is shown so others can open a viewer.
func RunApp(doc *board.Document, shareLink string, log *slog.Logger) {
	log = log.With("component", "ui")
	myApp := app.NewWithID(appID)
	myWindow := myApp.NewWindow("DraftBoard")
	myWindow.Resize(fyne.NewSize(1024, 768))

	controls := NewControls(doc)
	boardWidget := NewBoardWidget(doc)
	boardWidget.OnStatus = controls.Update
	controls.Update(doc.Status())

	controls.OnExport = func() { exportDialog(myWindow, doc, log) }
	controls.OnQuit = myApp.Quit
	controls.PickColor = func(title string, picked func(color.Color)) {
		picker := dialog.NewColorPicker(title, "", picked, myWindow)
		picker.Advanced = true
		picker.Show()
	}

	top := fyne.CanvasObject(controls.Toolbar())
	if shareLink != "" {
		link := widget.NewLabel("Share: " + shareLink)
		top = container.NewVBox(top, link)
	}
	content := container.NewBorder(top, controls.StatusBar(), nil, nil, boardWidget)

	myWindow.SetMainMenu(controls.MainMenu())
	controls.BindShortcuts(myWindow.Canvas())
	myWindow.SetContent(content)
	log.Info("editor started")
	myWindow.ShowAndRun()
}

func exportDialog(w fyne.Window, doc *board.Document, log *slog.Logger) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Warn("close export", "err", err)
			}
		}()
		sc := doc.Scene()
		if err := export.WritePDF(writer, sc); err != nil {
			log.Error("export failed", "uri", writer.URI().String(), "err", err)
			dialog.ShowError(err, w)
			return
		}
		log.Info("exported pdf", "uri", writer.URI().String(), "shapes", len(sc.Shapes))
	}, w)
	d.SetFileName("drawing.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}

// RunViewer opens a read-only window that mirrors the scene shared at addr.
// It blocks until the window is closed.
func RunViewer(ctx context.Context, addr string, watch func(context.Context, string, func(board.Scene)) error, log *slog.Logger) {
	log = log.With("component", "viewer")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	myApp := app.NewWithID(appID + ".viewer")
	myWindow := myApp.NewWindow("DraftBoard viewer: " + addr)
	myWindow.Resize(fyne.NewSize(1024, 768))

	view := NewSceneWidget()
	status := widget.NewLabel("Connecting to " + addr)
	myWindow.SetContent(container.NewBorder(nil, status, nil, nil, view))

	go func() {
		err := watch(ctx, addr, func(sc board.Scene) {
			fyne.Do(func() {
				view.SetScene(sc)
				status.SetText(fmt.Sprintf("Connected to %s | %d shapes", addr, len(sc.Shapes)))
			})
		})
		if err != nil && ctx.Err() == nil {
			log.Warn("disconnected", "addr", addr, "err", err)
			fyne.Do(func() { status.SetText("Disconnected: " + err.Error()) })
		}
	}()

	myWindow.ShowAndRun()
}
