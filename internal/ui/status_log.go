package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusLog is the read-only log under the progress bar. Its methods must
// be called on the Fyne goroutine.
type StatusLog struct {
	lines    []string
	maxLines int
	label    *widget.Label
	scroll   *container.Scroll
}

// NewStatusLog creates a log that keeps at most maxLines lines
func NewStatusLog(maxLines int) *StatusLog {
	if maxLines <= 0 {
		maxLines = StatusLogMaxLines
	}
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(label)
	scroll.SetMinSize(fyne.NewSize(0, StatusLogMinHeight))
	return &StatusLog{
		maxLines: maxLines,
		label:    label,
		scroll:   scroll,
	}
}

// Append adds a line and scrolls to it
func (sl *StatusLog) Append(line string) {
	sl.lines = append(sl.lines, line)
	if over := len(sl.lines) - sl.maxLines; over > 0 {
		sl.lines = append(sl.lines[:0], sl.lines[over:]...)
	}
	sl.label.SetText(strings.Join(sl.lines, "\n"))
	sl.scroll.ScrollToBottom()
}

// Error adds a line marked as an error
func (sl *StatusLog) Error(msg string) {
	sl.Append(IconError + " " + msg)
}

// Clear empties the log
func (sl *StatusLog) Clear() {
	sl.lines = nil
	sl.label.SetText("")
}

// Lines returns a copy of the logged lines
func (sl *StatusLog) Lines() []string {
	return append([]string(nil), sl.lines...)
}

// Last returns the most recent line or ""
func (sl *StatusLog) Last() string {
	if len(sl.lines) == 0 {
		return ""
	}
	return sl.lines[len(sl.lines)-1]
}

// CanvasObject returns the widget tree of the log
func (sl *StatusLog) CanvasObject() fyne.CanvasObject {
	return sl.scroll
}
