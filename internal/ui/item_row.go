package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/modelget/model-installer/internal/model"
)

// ItemRow is one dialog entry: the model's title, its status, the single
// action button, an optional storage-path chooser, and an error line shown
// after a failed attempt.
type ItemRow struct {
	widget.BaseWidget

	item           model.Item
	allowUninstall bool

	titleLabel  *widget.Label
	statusLabel *widget.Label
	errorLabel  *widget.Label
	actionBtn   *widget.Button
	pathSelect  *widget.Select

	content *fyne.Container

	onActivate   func(key string)
	onSelectPath func(key, path string)
}

// NewItemRow creates a row for one registered item
func NewItemRow(item model.Item, allowUninstall bool) *ItemRow {
	r := &ItemRow{
		item:           item,
		allowUninstall: allowUninstall,
	}
	r.ExtendBaseWidget(r)
	r.createUI()
	r.updateFromItem()
	return r
}

// SetCallbacks sets the action callbacks
func (r *ItemRow) SetCallbacks(onActivate func(key string), onSelectPath func(key, path string)) {
	r.onActivate = onActivate
	r.onSelectPath = onSelectPath
}

// Key returns the stable key of the row's item
func (r *ItemRow) Key() string {
	return r.item.Identity.Key()
}

// UpdateItem replaces the row's item snapshot and refreshes the display
func (r *ItemRow) UpdateItem(item model.Item) {
	r.item = item
	r.updateFromItem()
	r.Refresh()
}

// createUI creates the UI components
func (r *ItemRow) createUI() {
	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.statusLabel = widget.NewLabel("")
	r.statusLabel.Alignment = fyne.TextAlignTrailing

	r.errorLabel = widget.NewLabel("")
	r.errorLabel.Importance = widget.DangerImportance
	r.errorLabel.Wrapping = fyne.TextWrapWord
	r.errorLabel.Hide()

	r.actionBtn = widget.NewButton("", func() {
		if r.onActivate != nil {
			r.onActivate(r.item.Identity.Key())
		}
	})

	r.pathSelect = widget.NewSelect(nil, func(label string) {
		if r.onSelectPath == nil {
			return
		}
		// The chooser shows decorated labels; map back to the raw path.
		for _, opt := range r.item.StorageOptions {
			if opt.Label() == label {
				r.onSelectPath(r.item.Identity.Key(), opt.Path)
				return
			}
		}
	})
	r.pathSelect.PlaceHolder = "Install location"
	r.pathSelect.Hide()

	statusSpacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	statusSpacer.SetMinSize(fyne.NewSize(StatusLabelWidth, r.statusLabel.MinSize().Height))

	main := container.NewBorder(nil, nil, nil,
		container.NewHBox(container.NewStack(statusSpacer, r.statusLabel), r.actionBtn),
		r.titleLabel,
	)
	r.content = container.NewVBox(main, r.pathSelect, r.errorLabel, widget.NewSeparator())
}

// updateFromItem maps the current item snapshot onto the widgets
func (r *ItemRow) updateFromItem() {
	it := r.item
	r.titleLabel.SetText(it.DisplayTitle())

	switch it.Status {
	case model.StatusQuerying:
		r.statusLabel.Importance = widget.MediumImportance
		r.statusLabel.SetText("checking…")
	case model.StatusDownloading:
		r.statusLabel.Importance = widget.HighImportance
		r.statusLabel.SetText("downloading")
	case model.StatusPresent:
		r.statusLabel.Importance = widget.SuccessImportance
		r.statusLabel.SetText("installed")
	case model.StatusFailed:
		r.statusLabel.Importance = widget.DangerImportance
		r.statusLabel.SetText("failed")
	default:
		r.statusLabel.Importance = widget.MediumImportance
		r.statusLabel.SetText("")
	}

	label := it.ButtonLabel()
	enabled := it.ButtonEnabled()
	if label == model.LabelUninstall && !r.allowUninstall {
		label = model.LabelInstalled
		enabled = false
	}
	r.actionBtn.SetText(label)
	if label == model.LabelInstall || label == model.LabelRetryInstall {
		r.actionBtn.Importance = widget.HighImportance
	} else {
		r.actionBtn.Importance = widget.MediumImportance
	}
	if enabled {
		r.actionBtn.Enable()
	} else {
		r.actionBtn.Disable()
	}

	if it.PathChooserEnabled() {
		labels := make([]string, 0, len(it.StorageOptions))
		selected := ""
		for _, opt := range it.StorageOptions {
			labels = append(labels, opt.Label())
			if opt.Path == it.SelectedPath {
				selected = opt.Label()
			}
		}
		r.pathSelect.Options = labels
		if selected != "" {
			r.pathSelect.Selected = selected
		}
		r.pathSelect.Show()
	} else {
		r.pathSelect.Hide()
	}

	if it.LastError != "" && it.Status == model.StatusFailed {
		r.errorLabel.SetText(it.LastError)
		r.errorLabel.Show()
	} else {
		r.errorLabel.Hide()
	}
}

// CreateRenderer creates the widget renderer
func (r *ItemRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.content)
}
