package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/video-downloader/internal/model"
)

// EntryList shows the entries of a previewed playlist as a checklist and
// mirrors their download state. Its methods must be called on the Fyne
// goroutine.
type EntryList struct {
	localization *Localization

	playlist *model.Playlist
	tasks    map[string]*model.DownloadTask // latest task per entry URL

	list      *widget.List
	container *fyne.Container

	onStop             func(taskID string)
	onRetry            func(taskID string)
	onReveal           func(path string)
	onSelectionChanged func(selected, total int)
}

// NewEntryList creates an empty checklist
func NewEntryList(localization *Localization) *EntryList {
	el := &EntryList{
		localization: localization,
		tasks:        make(map[string]*model.DownloadTask),
	}
	el.createUI()
	return el
}

func (el *EntryList) createUI() {
	el.list = widget.NewList(
		el.Len,
		func() fyne.CanvasObject {
			row := NewEntryRow(el.localization)
			row.SetCallbacks(el.toggle, el.action, el.reveal)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row, ok := obj.(*EntryRow)
			if !ok || el.playlist == nil || id >= len(el.playlist.Videos) {
				return
			}
			video := el.playlist.Videos[id]
			row.Update(id, video, el.tasks[video.URL])
		},
	)

	scroll := container.NewVScroll(el.list)
	scroll.SetMinSize(fyne.NewSize(0, EntryListMinHeight))
	el.container = container.NewStack(scroll)
}

// SetCallbacks wires row actions to the download service
func (el *EntryList) SetCallbacks(onStop, onRetry func(taskID string), onReveal func(path string)) {
	el.onStop = onStop
	el.onRetry = onRetry
	el.onReveal = onReveal
}

// SetSelectionCallback is invoked whenever the selection changes
func (el *EntryList) SetSelectionCallback(cb func(selected, total int)) {
	el.onSelectionChanged = cb
}

// SetPlaylist replaces the shown entries
func (el *EntryList) SetPlaylist(p *model.Playlist) {
	el.playlist = p
	el.tasks = make(map[string]*model.DownloadTask)
	el.list.UnselectAll()
	el.list.ScrollToTop()
	el.list.Refresh()
	el.selectionChanged()
}

// Clear removes every entry
func (el *EntryList) Clear() {
	el.SetPlaylist(nil)
}

// Playlist returns the shown playlist or nil
func (el *EntryList) Playlist() *model.Playlist {
	return el.playlist
}

// Len returns the number of entries
func (el *EntryList) Len() int {
	if el.playlist == nil {
		return 0
	}
	return len(el.playlist.Videos)
}

// SelectAll checks or unchecks every entry
func (el *EntryList) SelectAll(selected bool) {
	if el.playlist == nil {
		return
	}
	el.playlist.SelectAll(selected)
	el.list.Refresh()
	el.selectionChanged()
}

// SetSelected checks or unchecks one entry
func (el *EntryList) SetSelected(index int, selected bool) {
	if el.playlist == nil {
		return
	}
	el.playlist.SetSelected(index, selected)
	el.list.RefreshItem(index)
	el.selectionChanged()
}

// SelectedURLs returns the URLs of checked entries in playlist order
func (el *EntryList) SelectedURLs() []string {
	if el.playlist == nil {
		return nil
	}
	return el.playlist.SelectedURLs()
}

// UpdateTask applies a task state to the entry with the same URL
func (el *EntryList) UpdateTask(task *model.DownloadTask) {
	if el.playlist == nil || task == nil {
		return
	}
	status := model.VideoStatusFromTask(task.Status)
	if !el.playlist.UpdateVideoByURL(task.URL, status, task.Progress, task.LastError) {
		return
	}
	el.tasks[task.URL] = task
	for i, video := range el.playlist.Videos {
		if video.URL == task.URL {
			el.list.RefreshItem(i)
			break
		}
	}
}

// Task returns the latest task of the entry at index
func (el *EntryList) Task(index int) (*model.DownloadTask, bool) {
	if el.playlist == nil || index < 0 || index >= len(el.playlist.Videos) {
		return nil, false
	}
	task, ok := el.tasks[el.playlist.Videos[index].URL]
	return task, ok
}

// Container returns the widget tree of the list
func (el *EntryList) Container() *fyne.Container {
	return el.container
}

func (el *EntryList) toggle(index int, selected bool) {
	if el.playlist == nil {
		return
	}
	el.playlist.SetSelected(index, selected)
	el.selectionChanged()
}

func (el *EntryList) action(index int) {
	task, ok := el.Task(index)
	if !ok {
		return
	}
	switch {
	case task.Status.CanStop():
		if el.onStop != nil {
			el.onStop(task.ID)
		}
	case task.Status.CanRestart():
		if el.onRetry != nil {
			el.onRetry(task.ID)
		}
	}
}

func (el *EntryList) reveal(index int) {
	task, ok := el.Task(index)
	if !ok || task.OutputPath == "" || el.onReveal == nil {
		return
	}
	el.onReveal(task.OutputPath)
}

func (el *EntryList) selectionChanged() {
	if el.onSelectionChanged == nil {
		return
	}
	selected := 0
	if el.playlist != nil {
		selected = len(el.playlist.SelectedVideos())
	}
	el.onSelectionChanged(selected, el.Len())
}
