package model

import (
	"fmt"
	"strings"
	"time"
)

// DownloadTask represents a single download task
type DownloadTask struct {
	ID          string
	BatchID     string // groups tasks started by one Download click
	URL         string
	Platform    Platform
	OutputDir   string
	Playlist    bool // task originates from a playlist selection
	Status      TaskStatus
	Progress    float64   // 0.0 to 1.0
	Percent     int       // 0 to 100
	Speed       string    // human readable speed (e.g., "1.20MiB/s")
	ETASec      int       // ETA in seconds, -1 if unknown
	LastError   string    // last error message if any
	OutputPath  string    // path to downloaded file
	StartedAt   time.Time // when download started
	FinishedAt  time.Time // when download finished
	Title       string    // video title
	FileSize    int64     // file size in bytes
	Attempts    int       // number of yt-dlp invocations
	UsedCookies bool      // cookies.txt was supplied on the last attempt
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}
	return FormatDuration(dt.ETASec)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}

// Clone returns a copy safe to hand to observers outside the service lock
func (dt *DownloadTask) Clone() *DownloadTask {
	c := *dt
	return &c
}

// String implements fmt.Stringer for logging
func (dt *DownloadTask) String() string {
	return fmt.Sprintf("task %s [%s] %s", dt.ID, dt.Status, dt.URL)
}
