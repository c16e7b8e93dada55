package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/modelget/model-installer/internal/config"
	"github.com/modelget/model-installer/internal/installer"
	"github.com/modelget/model-installer/internal/model"
)

// RootUI is the main window: an entry form registering missing models, the
// resulting item rows, and the shared download progress panel at the bottom.
type RootUI struct {
	window   fyne.Window
	service  *installer.Service
	settings *config.Settings

	labelEntry *widget.Entry
	urlEntry   *widget.Entry
	addBtn     *widget.Button
	banner     *widget.Label

	itemRows map[string]*ItemRow
	itemList *fyne.Container
	progress *ProgressPanel
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, service *installer.Service) *RootUI {
	ui := &RootUI{
		window:   window,
		service:  service,
		settings: config.NewSettings(app),
		itemRows: make(map[string]*ItemRow),
	}
	ui.createUI()
	ui.wireService()
	return ui
}

// createUI creates the UI components
func (ui *RootUI) createUI() {
	ui.labelEntry = widget.NewEntry()
	ui.labelEntry.PlaceHolder = "directory / filename.safetensors"

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.PlaceHolder = "https://huggingface.co/..."

	ui.addBtn = widget.NewButton("Add", func() {
		ui.registerEntry(ui.labelEntry.Text, ui.urlEntry.Text)
	})
	ui.addBtn.Importance = widget.HighImportance
	ui.urlEntry.OnSubmitted = func(string) {
		ui.registerEntry(ui.labelEntry.Text, ui.urlEntry.Text)
	}

	ui.banner = widget.NewLabel("Connecting to the download service…")
	ui.banner.Importance = widget.MediumImportance

	ui.itemList = container.NewVBox()
	ui.progress = NewProgressPanel(func(key string) {
		ui.service.Progress().Dismiss(key)
	})

	form := container.NewVBox(
		widget.NewLabel("Missing models"),
		ui.labelEntry,
		container.NewBorder(nil, nil, nil, ui.addBtn, ui.urlEntry),
		ui.banner,
	)

	content := container.NewBorder(
		form,
		ui.progress,
		nil, nil,
		container.NewVScroll(ui.itemList),
	)
	ui.window.SetContent(content)
	ui.window.Resize(fyne.NewSize(WindowDefaultWidth, WindowDefaultHeight))
}

// wireService connects service and registry callbacks to the widgets. The
// callbacks arrive on worker goroutines; every widget mutation is funneled
// through fyne.Do.
func (ui *RootUI) wireService() {
	ui.service.SetCallbacks(
		func(item model.Item) {
			fyne.Do(func() { ui.applyItem(item) })
		},
		func(title, message string) {
			fyne.Do(func() { ui.showNotice(title, message) })
		},
	)
	ui.service.Progress().SetCallbacks(
		func(dp model.DownloadProgress) {
			fyne.Do(func() { ui.progress.Upsert(dp) })
		},
		func(key string) {
			fyne.Do(func() { ui.progress.Remove(key) })
		},
	)
}

// Activate probes the backend and unlocks the form when it is reachable
func (ui *RootUI) Activate(ctx context.Context) {
	ui.setFormEnabled(false)
	go func() {
		ok, err := ui.service.Activate(ctx)
		fyne.Do(func() {
			switch {
			case err != nil:
				ui.banner.Importance = widget.DangerImportance
				ui.banner.SetText("Download service unreachable: " + err.Error())
			case !ok:
				ui.banner.Importance = widget.WarningImportance
				ui.banner.SetText("Download service is not available")
			default:
				ui.banner.Hide()
				ui.setFormEnabled(true)
			}
		})
	}()
}

// setFormEnabled toggles the registration controls
func (ui *RootUI) setFormEnabled(enabled bool) {
	if enabled {
		ui.labelEntry.Enable()
		ui.urlEntry.Enable()
		ui.addBtn.Enable()
	} else {
		ui.labelEntry.Disable()
		ui.urlEntry.Disable()
		ui.addBtn.Disable()
	}
}

// registerEntry hands one dialog entry to the service and clears the form
func (ui *RootUI) registerEntry(label, rawURL string) {
	if label == "" && rawURL == "" {
		return
	}
	if _, err := ui.service.Register(context.Background(), label, rawURL); err != nil {
		ui.showNotice("Cannot add model", err.Error())
		return
	}
	ui.labelEntry.SetText("")
	ui.urlEntry.SetText("")
}

// applyItem routes an item snapshot to its row, creating the row on first
// sight. Runs on the UI thread.
func (ui *RootUI) applyItem(item model.Item) {
	key := item.Identity.Key()
	row, exists := ui.itemRows[key]
	if !exists {
		row = NewItemRow(item, ui.settings.GetAllowUninstall())
		row.SetCallbacks(ui.activateItem, ui.selectItemPath)
		ui.itemRows[key] = row
		ui.itemList.Add(row)
		return
	}
	row.UpdateItem(item)
}

// activateItem runs the action behind a row's button off the UI thread
func (ui *RootUI) activateItem(key string) {
	ctrl, ok := ui.service.Controller(key)
	if !ok {
		return
	}
	go ctrl.Activate(context.Background())
}

// selectItemPath records a storage-path choice
func (ui *RootUI) selectItemPath(key, path string) {
	if ctrl, ok := ui.service.Controller(key); ok {
		ctrl.SelectPath(path)
	}
}

// showNotice surfaces a failure as a system notification
func (ui *RootUI) showNotice(title, message string) {
	fyne.CurrentApp().SendNotification(fyne.NewNotification(title, message))
}
