package download

import (
	"context"

	"github.com/ytget/video-downloader/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	SetProgressCallback(func(model.ProgressEvent))
	AddBatch(urls []string, outputDir string, platform model.Platform, playlist bool) (string, []*model.DownloadTask, error)
	AddTask(url string) (*model.DownloadTask, error)
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	BatchTasks(batchID string) []*model.DownloadTask
	BatchProgress(batchID string) float64
	Summarize(batchID string) Summary
	StopTask(id string) error
	StopBatch(batchID string) int
	RestartTask(id string) error
	RemoveTask(id string) error
	Wait(ctx context.Context, batchID string) error

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the default download directory
	SetDownloadDirectory(dir string)

	// SetFFmpegPath sets the ffmpeg binary handed to yt-dlp
	SetFFmpegPath(path string)
}

var _ Downloader = (*Service)(nil)
