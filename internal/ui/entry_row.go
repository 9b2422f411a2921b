package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/video-downloader/internal/model"
)

// EntryRow is one line of the playlist checklist: a selection check, the
// title and duration, and the download state of the entry once a batch runs
type EntryRow struct {
	widget.BaseWidget

	index        int
	localization *Localization
	updating     bool

	check         *widget.Check
	titleLabel    *widget.Label
	durationLabel *widget.Label
	statusLabel   *widget.Label
	actionBtn     *widget.Button // Stop while running, Retry after a failure
	revealBtn     *widget.Button

	onToggle func(index int, selected bool)
	onAction func(index int)
	onReveal func(index int)
}

// NewEntryRow creates an empty row; Update fills it
func NewEntryRow(localization *Localization) *EntryRow {
	r := &EntryRow{
		index:        -1,
		localization: localization,
	}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

func (r *EntryRow) createUI() {
	r.check = widget.NewCheck("", func(checked bool) {
		if r.updating || r.onToggle == nil || r.index < 0 {
			return
		}
		r.onToggle(r.index, checked)
	})

	r.titleLabel = widget.NewLabel("")
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.durationLabel = widget.NewLabel("")
	r.statusLabel = widget.NewLabel("")
	r.statusLabel.Alignment = fyne.TextAlignTrailing

	r.actionBtn = widget.NewButton("", func() {
		if r.onAction != nil && r.index >= 0 {
			r.onAction(r.index)
		}
	})
	r.actionBtn.Importance = widget.LowImportance
	r.actionBtn.Hide()

	r.revealBtn = widget.NewButton(IconFolder, func() {
		if r.onReveal != nil && r.index >= 0 {
			r.onReveal(r.index)
		}
	})
	r.revealBtn.Importance = widget.LowImportance
	r.revealBtn.Hide()
}

// SetCallbacks sets the row actions
func (r *EntryRow) SetCallbacks(onToggle func(int, bool), onAction func(int), onReveal func(int)) {
	r.onToggle = onToggle
	r.onAction = onAction
	r.onReveal = onReveal
}

// Update renders video at index. task is the download task of the entry
// and may be nil before the first download.
func (r *EntryRow) Update(index int, video *model.PlaylistVideo, task *model.DownloadTask) {
	r.index = index
	if video == nil {
		return
	}

	r.updating = true
	r.check.SetChecked(video.Selected)
	r.updating = false

	r.titleLabel.SetText(video.Title)
	if video.Duration != "" && video.Duration != model.UnknownDuration {
		r.durationLabel.SetText(video.Duration)
		r.durationLabel.Show()
	} else {
		r.durationLabel.Hide()
	}

	r.statusLabel.SetText(entryStatusText(video))

	switch {
	case task != nil && task.Status.CanStop():
		r.actionBtn.SetText(r.localization.GetText(KeyStop))
		r.actionBtn.Show()
	case task != nil && task.Status.CanRestart():
		r.actionBtn.SetText(r.localization.GetText(KeyRetry))
		r.actionBtn.Show()
	default:
		r.actionBtn.Hide()
	}

	if video.Status == model.VideoStatusCompleted && task != nil && task.OutputPath != "" {
		r.revealBtn.Show()
	} else {
		r.revealBtn.Hide()
	}
}

// Selected reports the state of the check
func (r *EntryRow) Selected() bool {
	return r.check.Checked
}

// CreateRenderer creates the widget renderer
func (r *EntryRow) CreateRenderer() fyne.WidgetRenderer {
	right := container.NewHBox(r.durationLabel, r.statusLabel, r.actionBtn, r.revealBtn)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, r.check, right, r.titleLabel))
}

func entryStatusText(video *model.PlaylistVideo) string {
	switch video.Status {
	case model.VideoStatusDownloading:
		return fmt.Sprintf(ProgressLabelFormat, int(video.Progress*100))
	case model.VideoStatusCompleted:
		return IconDone
	case model.VideoStatusError:
		return IconError
	case model.VideoStatusStopped:
		return IconStopped
	default:
		return ""
	}
}
