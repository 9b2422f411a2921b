package ui

import (
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// loadingIndicator cycles "Loading." "Loading.." "Loading..." while a
// preview is running
type loadingIndicator struct {
	label    *widget.Label
	base     func() string
	interval time.Duration

	mu    sync.Mutex
	stop  chan struct{}
	index int
}

func newLoadingIndicator(base func() string, interval time.Duration) *loadingIndicator {
	label := widget.NewLabel("")
	label.Alignment = fyne.TextAlignCenter
	label.Hide()
	return &loadingIndicator{
		label:    label,
		base:     base,
		interval: interval,
	}
}

func (li *loadingIndicator) text(index int) string {
	return li.base() + strings.Repeat(".", index%LoadingDots+1)
}

// Start shows the label and begins animating. Calling Start twice restarts
// the animation.
func (li *loadingIndicator) Start() {
	li.mu.Lock()
	if li.stop != nil {
		close(li.stop)
	}
	stop := make(chan struct{})
	li.stop = stop
	li.index = 0
	li.mu.Unlock()

	li.label.SetText(li.text(0))
	li.label.Show()

	go func() {
		ticker := time.NewTicker(li.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				li.mu.Lock()
				li.index++
				text := li.text(li.index)
				li.mu.Unlock()
				fyne.Do(func() {
					select {
					case <-stop:
					default:
						li.label.SetText(text)
					}
				})
			}
		}
	}()
}

// Stop hides the label and ends the animation
func (li *loadingIndicator) Stop() {
	li.mu.Lock()
	if li.stop != nil {
		close(li.stop)
		li.stop = nil
	}
	li.mu.Unlock()
	li.label.Hide()
}

// Running reports whether the animation is active
func (li *loadingIndicator) Running() bool {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.stop != nil
}
