package ytdl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Percent(t *testing.T) {
	tests := []struct {
		name     string
		p        Progress
		expected float64
	}{
		{"unknown total", Progress{DownloadedBytes: 10}, -1},
		{"half", Progress{DownloadedBytes: 50, TotalBytes: 100}, 50},
		{"done", Progress{DownloadedBytes: 100, TotalBytes: 100}, 100},
		{"overshoot clamps", Progress{DownloadedBytes: 120, TotalBytes: 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.p.Percent(), 0.0001)
		})
	}
}

func TestProgress_BytesPerSecond(t *testing.T) {
	assert.Zero(t, Progress{DownloadedBytes: 100}.BytesPerSecond())

	p := Progress{DownloadedBytes: 1 << 20, Started: time.Now().Add(-2 * time.Second)}
	rate := p.BytesPerSecond()
	assert.Greater(t, rate, 0.0)
	assert.Less(t, rate, float64(1<<20))
}

func TestNewCommandRunner(t *testing.T) {
	r := NewCommandRunner("/opt/yt-dlp", nil)
	assert.Equal(t, "/opt/yt-dlp", r.Executable())
	assert.NotNil(t, r.logger)
}
