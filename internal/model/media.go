package model

import (
	"fmt"
	"strings"
)

// Media types reported by yt-dlp in the "_type" field
const (
	MediaTypeVideo    = "video"
	MediaTypePlaylist = "playlist"
	MediaTypeURL      = "url"
)

// Default display values
const (
	UnknownTitle    = "Unknown Title"
	UnknownPlaylist = "Unknown Playlist"
	UnknownDuration = "Unknown"
)

// YouTubeWatchURLTemplate builds a watch URL from a bare video ID
const YouTubeWatchURLTemplate = "https://www.youtube.com/watch?v=%s"

// Thumbnail is a single thumbnail candidate
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MediaInfo is the metadata yt-dlp returns for a video or a playlist.
// Entries is only populated for playlists extracted in flat mode.
type MediaInfo struct {
	ID         string       `json:"id"`
	Type       string       `json:"_type,omitempty"`
	Title      string       `json:"title"`
	URL        string       `json:"url,omitempty"`
	WebpageURL string       `json:"webpage_url,omitempty"`
	Uploader   string       `json:"uploader,omitempty"`
	Duration   float64      `json:"duration,omitempty"`
	Thumbnail  string       `json:"thumbnail,omitempty"`
	Thumbnails []Thumbnail  `json:"thumbnails,omitempty"`
	Entries    []*MediaInfo `json:"entries,omitempty"`
}

// IsPlaylist reports whether the info describes a playlist with entries
func (m *MediaInfo) IsPlaylist() bool {
	return m != nil && m.Type == MediaTypePlaylist && m.Entries != nil
}

// DisplayTitle returns the title or a placeholder
func (m *MediaInfo) DisplayTitle() string {
	if m == nil || strings.TrimSpace(m.Title) == "" {
		return UnknownTitle
	}
	return m.Title
}

// PlaylistTitle returns the title or the playlist placeholder
func (m *MediaInfo) PlaylistTitle() string {
	if m == nil || strings.TrimSpace(m.Title) == "" {
		return UnknownPlaylist
	}
	return m.Title
}

// PageURL returns the URL that should be handed to yt-dlp to fetch this item.
// Flat playlist entries only carry "url"; full extractions carry "webpage_url".
func (m *MediaInfo) PageURL() string {
	if m == nil {
		return ""
	}
	if m.WebpageURL != "" {
		return m.WebpageURL
	}
	if m.URL != "" && strings.HasPrefix(m.URL, "http") {
		return m.URL
	}
	if m.ID != "" {
		return fmt.Sprintf(YouTubeWatchURLTemplate, m.ID)
	}
	return ""
}

// DurationString formats Duration as HH:MM:SS or MM:SS
func (m *MediaInfo) DurationString() string {
	if m == nil || m.Duration <= 0 {
		return UnknownDuration
	}
	return FormatDuration(int(m.Duration))
}

// FormatDuration formats seconds into HH:MM:SS or MM:SS
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// Flatten collapses a playlist result into its first entry. Used for
// platforms that do not support playlist selection.
func (m *MediaInfo) Flatten() *MediaInfo {
	if !m.IsPlaylist() || len(m.Entries) == 0 {
		return m
	}
	first := *m.Entries[0]
	if first.Title == "" {
		first.Title = m.Title
	}
	return &first
}
