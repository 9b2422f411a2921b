package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist
type PlaylistStatus string

const (
	PlaylistStatusReady       PlaylistStatus = "ready"
	PlaylistStatusDownloading PlaylistStatus = "downloading"
	PlaylistStatusCompleted   PlaylistStatus = "completed"
	PlaylistStatusError       PlaylistStatus = "error"
)

// VideoStatus represents the status of a single video in playlist
type VideoStatus string

const (
	VideoStatusPending     VideoStatus = "pending"
	VideoStatusDownloading VideoStatus = "downloading"
	VideoStatusCompleted   VideoStatus = "completed"
	VideoStatusError       VideoStatus = "error"
	VideoStatusStopped     VideoStatus = "stopped"
)

// PlaylistVideo represents a single video in a playlist
type PlaylistVideo struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Duration  string      `json:"duration"`
	URL       string      `json:"url"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	Selected  bool        `json:"selected"`
	Status    VideoStatus `json:"status"`
	Progress  float64     `json:"progress"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Playlist represents a previewed YouTube playlist with its videos
type Playlist struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Videos      []*PlaylistVideo `json:"videos"`
	Status      PlaylistStatus   `json:"status"`
	TotalVideos int              `json:"total_videos"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewPlaylistFromInfo builds a playlist from a flat playlist extraction
func NewPlaylistFromInfo(url string, info *MediaInfo) *Playlist {
	now := time.Now()
	p := &Playlist{
		URL:       url,
		Status:    PlaylistStatusReady,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if info == nil {
		return p
	}
	p.ID = info.ID
	p.Title = info.PlaylistTitle()
	for _, entry := range info.Entries {
		if entry == nil {
			continue
		}
		thumb := entry.Thumbnail
		if thumb == "" && len(entry.Thumbnails) > 0 {
			thumb = entry.Thumbnails[len(entry.Thumbnails)-1].URL
		}
		p.AddVideo(&PlaylistVideo{
			ID:        entry.ID,
			Title:     entry.DisplayTitle(),
			Duration:  entry.DurationString(),
			URL:       entry.PageURL(),
			Thumbnail: thumb,
			Status:    VideoStatusPending,
			UpdatedAt: now,
		})
	}
	return p
}

// Clone returns a copy whose videos can be selected and updated independently
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Videos = make([]*PlaylistVideo, len(p.Videos))
	for i, video := range p.Videos {
		v := *video
		clone.Videos[i] = &v
	}
	return &clone
}

// AddVideo adds a video to the playlist
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	p.Videos = append(p.Videos, video)
	p.TotalVideos = len(p.Videos)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// SelectAll marks every video as selected or unselected
func (p *Playlist) SelectAll(selected bool) {
	for _, video := range p.Videos {
		video.Selected = selected
	}
	p.UpdatedAt = time.Now()
}

// SetSelected toggles selection of the video at index
func (p *Playlist) SetSelected(index int, selected bool) {
	if index < 0 || index >= len(p.Videos) {
		return
	}
	p.Videos[index].Selected = selected
	p.UpdatedAt = time.Now()
}

// SelectedVideos returns selected videos in playlist order
func (p *Playlist) SelectedVideos() []*PlaylistVideo {
	var selected []*PlaylistVideo
	for _, video := range p.Videos {
		if video.Selected {
			selected = append(selected, video)
		}
	}
	return selected
}

// SelectedURLs returns URLs of selected videos in playlist order
func (p *Playlist) SelectedURLs() []string {
	var urls []string
	for _, video := range p.SelectedVideos() {
		if video.URL != "" {
			urls = append(urls, video.URL)
		}
	}
	return urls
}

// UpdateVideoByURL applies task state to the matching video
func (p *Playlist) UpdateVideoByURL(url string, status VideoStatus, progress float64, errMsg string) bool {
	for _, video := range p.Videos {
		if video.URL == url {
			video.Status = status
			video.Progress = progress
			video.Error = errMsg
			video.UpdatedAt = time.Now()
			p.refreshStatus()
			return true
		}
	}
	return false
}

// GetCompletedVideos returns all completed videos
func (p *Playlist) GetCompletedVideos() []*PlaylistVideo {
	var completed []*PlaylistVideo
	for _, video := range p.Videos {
		if video.Status == VideoStatusCompleted {
			completed = append(completed, video)
		}
	}
	return completed
}

// GetDownloadProgress returns overall progress of selected videos as percentage
func (p *Playlist) GetDownloadProgress() float64 {
	selected := p.SelectedVideos()
	if len(selected) == 0 {
		return 0
	}
	var sum float64
	for _, video := range selected {
		if video.Status == VideoStatusCompleted {
			sum += 1
			continue
		}
		sum += video.Progress
	}
	return sum / float64(len(selected)) * 100
}

// HasErrors checks if any video has errors
func (p *Playlist) HasErrors() bool {
	for _, video := range p.Videos {
		if video.Status == VideoStatusError {
			return true
		}
	}
	return false
}

// refreshStatus derives the playlist status from selected video states
func (p *Playlist) refreshStatus() {
	selected := p.SelectedVideos()
	if len(selected) == 0 {
		return
	}
	finished := 0
	for _, video := range selected {
		switch video.Status {
		case VideoStatusCompleted, VideoStatusError, VideoStatusStopped:
			finished++
		}
	}
	switch {
	case finished < len(selected):
		p.Status = PlaylistStatusDownloading
	case p.HasErrors():
		p.Status = PlaylistStatusError
	default:
		p.Status = PlaylistStatusCompleted
	}
	p.UpdatedAt = time.Now()
}

// VideoStatusFromTask maps a task status to the playlist video status
func VideoStatusFromTask(status TaskStatus) VideoStatus {
	switch status {
	case TaskStatusStarting, TaskStatusDownloading, TaskStatusStopping:
		return VideoStatusDownloading
	case TaskStatusCompleted:
		return VideoStatusCompleted
	case TaskStatusError:
		return VideoStatusError
	case TaskStatusStopped:
		return VideoStatusStopped
	default:
		return VideoStatusPending
	}
}
