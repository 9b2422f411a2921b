// Package progress turns raw download progress into log lines.
package progress

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ytget/video-downloader/internal/model"
)

// Messages
const (
	UnknownSpeed    = "Unknown speed"
	FinishedMessage = "Download finished, processing file..."
)

// DefaultStep is the minimum percent increase between two logged lines
const DefaultStep = 0.1

var ansiRegex = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// CleanANSI removes terminal escape codes from text
func CleanANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// FormatBytes formats a size using binary units, e.g. "12.30MiB"
func FormatBytes(n float64) string {
	unit := 0
	for n >= 1024 && unit < len(byteUnits)-1 {
		n /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%.0f%s", n, byteUnits[unit])
	}
	return fmt.Sprintf("%.2f%s", n, byteUnits[unit])
}

// FormatSpeed formats a transfer rate, e.g. "2.50MiB/s"
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return UnknownSpeed
	}
	return FormatBytes(bytesPerSecond) + "/s"
}

// Line renders an event the way it appears in the status log
func Line(ev model.ProgressEvent) string {
	if ev.Status == model.ProgressFinished {
		return FinishedMessage
	}
	speed := strings.TrimSpace(CleanANSI(ev.Speed))
	if speed == "" {
		speed = UnknownSpeed
	}
	if ev.Percent < 0 {
		return fmt.Sprintf("Downloading at %s", speed)
	}
	return fmt.Sprintf("Downloading: %.1f%% at %s", ev.Percent, speed)
}

// Throttle drops progress events that barely moved since the last one
// emitted for the same task
type Throttle struct {
	mu   sync.Mutex
	step float64
	last map[string]float64
}

// NewThrottle creates a throttle. A non-positive step uses DefaultStep.
func NewThrottle(step float64) *Throttle {
	if step <= 0 {
		step = DefaultStep
	}
	return &Throttle{step: step, last: make(map[string]float64)}
}

// Allow reports whether ev should be shown and records it if so
func (t *Throttle) Allow(ev model.ProgressEvent) bool {
	if ev.Status == model.ProgressFinished {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.last[ev.TaskID]
	switch {
	case !seen,
		ev.Percent >= last+t.step,
		ev.Percent >= 100 && last < 100:
		t.last[ev.TaskID] = ev.Percent
		return true
	}
	return false
}

// Reset forgets every task
func (t *Throttle) Reset() {
	t.mu.Lock()
	t.last = make(map[string]float64)
	t.mu.Unlock()
}

// Forget drops the state of one task so a restart logs from zero
func (t *Throttle) Forget(taskID string) {
	t.mu.Lock()
	delete(t.last, taskID)
	t.mu.Unlock()
}
