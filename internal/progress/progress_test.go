package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/video-downloader/internal/model"
)

func TestCleanANSI(t *testing.T) {
	assert.Equal(t, " 45.2%", CleanANSI("\x1b[0;94m 45.2%\x1b[0m"))
	assert.Equal(t, "plain", CleanANSI("plain"))
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, UnknownSpeed},
		{-5, UnknownSpeed},
		{512, "512B/s"},
		{2048, "2.00KiB/s"},
		{2.5 * 1024 * 1024, "2.50MiB/s"},
		{3 * 1024 * 1024 * 1024, "3.00GiB/s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatSpeed(tt.in))
	}
}

func TestLine(t *testing.T) {
	assert.Equal(t, "Downloading: 45.2% at 2.50MiB/s",
		Line(model.ProgressEvent{Status: model.ProgressDownloading, Percent: 45.23, Speed: "2.50MiB/s"}))
	assert.Equal(t, "Downloading at Unknown speed",
		Line(model.ProgressEvent{Status: model.ProgressDownloading, Percent: -1}))
	assert.Equal(t, FinishedMessage, Line(model.ProgressEvent{Status: model.ProgressFinished}))
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(0)
	ev := func(task string, pct float64) model.ProgressEvent {
		return model.ProgressEvent{TaskID: task, Status: model.ProgressDownloading, Percent: pct}
	}

	assert.True(t, th.Allow(ev("a", 10)))
	assert.False(t, th.Allow(ev("a", 10.05)))
	assert.True(t, th.Allow(ev("a", 10.2)))
	assert.False(t, th.Allow(ev("a", 5)))

	// independent per task
	assert.True(t, th.Allow(ev("b", 1)))

	assert.True(t, th.Allow(ev("a", 100)))
	assert.False(t, th.Allow(ev("a", 100)))
	assert.True(t, th.Allow(model.ProgressEvent{TaskID: "a", Status: model.ProgressFinished}))

	th.Forget("a")
	assert.True(t, th.Allow(ev("a", 0)))

	th.Reset()
	assert.True(t, th.Allow(ev("b", 1)))
}
