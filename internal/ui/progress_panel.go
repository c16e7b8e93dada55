package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/modelget/model-installer/internal/model"
)

// progressRow holds the widgets for one in-flight download
type progressRow struct {
	nameLabel  *widget.Label
	bar        *widget.ProgressBar
	detail     *widget.Label
	dismissBtn *widget.Button
	box        *fyne.Container
}

// ProgressPanel renders every tracked download as a bar with rate and ETA.
// Rows appear when a download starts and leave either when it completes or
// when the user dismisses them.
type ProgressPanel struct {
	widget.BaseWidget

	rows    map[string]*progressRow
	list    *fyne.Container
	header  *widget.Label
	content *fyne.Container

	onDismiss func(key string)
}

// NewProgressPanel creates an empty progress panel
func NewProgressPanel(onDismiss func(key string)) *ProgressPanel {
	p := &ProgressPanel{
		rows:      make(map[string]*progressRow),
		onDismiss: onDismiss,
	}
	p.ExtendBaseWidget(p)
	p.header = widget.NewLabel("Downloads")
	p.header.TextStyle = fyne.TextStyle{Bold: true}
	p.list = container.NewVBox()
	p.content = container.NewVBox(widget.NewSeparator(), p.header, p.list)
	p.content.Hide()
	return p
}

// Upsert creates or updates the row for one progress snapshot
func (p *ProgressPanel) Upsert(dp model.DownloadProgress) {
	row, exists := p.rows[dp.Key]
	if !exists {
		row = p.newRow(dp.Key)
		p.rows[dp.Key] = row
		p.list.Add(row.box)
		p.content.Show()
	}

	if percent := dp.Percent(); percent >= 0 {
		row.bar.SetValue(float64(percent) / 100)
	}

	detail := model.FormatFileSize(dp.BytesDownloaded)
	if dp.ExpectedBytes > 0 {
		detail += " / " + model.FormatFileSize(dp.ExpectedBytes)
	}
	if dp.Rate > 0 {
		detail += MiddleDotSeparator + dp.RateString()
	}
	detail += MiddleDotSeparator + dp.ETAString()
	row.detail.SetText(detail)

	p.Refresh()
}

// Remove drops the row for a key, hiding the panel when it empties
func (p *ProgressPanel) Remove(key string) {
	row, exists := p.rows[key]
	if !exists {
		return
	}
	delete(p.rows, key)
	p.list.Remove(row.box)
	if len(p.rows) == 0 {
		p.content.Hide()
	}
	p.Refresh()
}

// newRow builds the widgets for one download key
func (p *ProgressPanel) newRow(key string) *progressRow {
	row := &progressRow{
		nameLabel: widget.NewLabel(key),
		bar:       widget.NewProgressBar(),
		detail:    widget.NewLabel(""),
	}
	row.nameLabel.Truncation = fyne.TextTruncateEllipsis
	row.detail.TextStyle = fyne.TextStyle{Monospace: true}
	row.detail.Alignment = fyne.TextAlignTrailing
	row.bar.TextFormatter = func() string {
		if row.bar.Value <= 0 {
			return DashPlaceholder
		}
		return fmt.Sprintf(ProgressLabelFormat, int(row.bar.Value*100))
	}
	row.dismissBtn = widget.NewButton("✕", func() {
		if p.onDismiss != nil {
			p.onDismiss(key)
		}
	})
	row.dismissBtn.Importance = widget.LowImportance

	detailSpacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	detailSpacer.SetMinSize(fyne.NewSize(RateLabelWidth, row.detail.MinSize().Height))

	top := container.NewBorder(nil, nil, nil,
		container.NewHBox(container.NewStack(detailSpacer, row.detail), row.dismissBtn),
		row.nameLabel,
	)
	row.box = container.NewVBox(top, row.bar)
	return row
}

// Len returns the number of visible rows
func (p *ProgressPanel) Len() int {
	return len(p.rows)
}

// CreateRenderer creates the widget renderer
func (p *ProgressPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}
