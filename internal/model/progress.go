package model

// Progress statuses reported by yt-dlp progress hooks
const (
	ProgressDownloading = "downloading"
	ProgressFinished    = "finished"
)

// ProgressEvent is a single progress notification for a running task
type ProgressEvent struct {
	TaskID   string
	BatchID  string
	URL      string
	Status   string  // ProgressDownloading or ProgressFinished
	Percent  float64 // 0 to 100, -1 if unknown
	Speed    string  // e.g. "2.50MiB/s" or "Unknown speed"
	ETASec   int
	Filename string
}
