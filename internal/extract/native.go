package extract

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/video-downloader/internal/model"
)

// URL parameters
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

const (
	minPrefixLength = 10
	playlistSuffix  = " Playlist"
)

// NativeLister lists YouTube playlists through the InnerTube API without
// spawning yt-dlp
type NativeLister struct {
	// Limit caps the number of entries, 0 means all
	Limit int
}

// ListPlaylist fetches every entry of the playlist in url
func (n *NativeLister) ListPlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := PlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, n.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	now := time.Now()
	playlist := &model.Playlist{
		ID:        playlistID,
		URL:       url,
		Status:    model.PlaylistStatusReady,
		CreatedAt: now,
		UpdatedAt: now,
	}
	titles := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddVideo(&model.PlaylistVideo{
			ID:        it.VideoID,
			Title:     it.Title,
			Duration:  model.UnknownDuration,
			URL:       fmt.Sprintf(model.YouTubeWatchURLTemplate, it.VideoID),
			Status:    model.VideoStatusPending,
			UpdatedAt: now,
		})
		titles = append(titles, it.Title)
	}
	playlist.Title = guessPlaylistTitle(titles)
	return playlist, nil
}

// PlaylistID extracts the list= parameter from a URL
func PlaylistID(url string) string {
	idx := strings.Index(url, PlaylistParam)
	if idx < 0 {
		return ""
	}
	id := url[idx+len(PlaylistParam):]
	if sep := strings.Index(id, ParamSeparator); sep >= 0 {
		id = id[:sep]
	}
	return id
}

// guessPlaylistTitle derives a title from entry titles since the playlist
// endpoint does not return one
func guessPlaylistTitle(titles []string) string {
	if len(titles) == 0 {
		return model.UnknownPlaylist
	}
	if len(titles) > 1 {
		prefix := commonPrefix(titles[0], titles[1])
		if len(prefix) > minPrefixLength {
			return strings.TrimSpace(prefix) + playlistSuffix
		}
	}
	return titles[0] + playlistSuffix
}

// commonPrefix compares whole runes so multi-byte titles are never split
func commonPrefix(s1, s2 string) string {
	for i, r := range s1 {
		if i >= len(s2) {
			return s1[:i]
		}
		if next, _ := utf8.DecodeRuneInString(s2[i:]); r != next {
			return s1[:i]
		}
	}
	return s1
}
