package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatPlaylistJSON = `{
  "_type": "playlist",
  "id": "PL123",
  "title": "Road Trip Mix",
  "webpage_url": "https://www.youtube.com/playlist?list=PL123",
  "entries": [
    {"_type": "url", "id": "aaa", "title": "First", "url": "https://www.youtube.com/watch?v=aaa", "duration": 125},
    {"_type": "url", "id": "bbb", "title": "", "url": "bbb"}
  ]
}`

func TestMediaInfo_DecodeFlatPlaylist(t *testing.T) {
	var info MediaInfo
	require.NoError(t, json.Unmarshal([]byte(flatPlaylistJSON), &info))

	assert.True(t, info.IsPlaylist())
	assert.Equal(t, "Road Trip Mix", info.PlaylistTitle())
	require.Len(t, info.Entries, 2)

	assert.Equal(t, "https://www.youtube.com/watch?v=aaa", info.Entries[0].PageURL())
	assert.Equal(t, "02:05", info.Entries[0].DurationString())

	// bare IDs in "url" fall back to a watch URL built from the ID
	assert.Equal(t, "https://www.youtube.com/watch?v=bbb", info.Entries[1].PageURL())
	assert.Equal(t, UnknownTitle, info.Entries[1].DisplayTitle())
	assert.Equal(t, UnknownDuration, info.Entries[1].DurationString())
}

func TestMediaInfo_IsPlaylist(t *testing.T) {
	tests := []struct {
		name     string
		info     *MediaInfo
		expected bool
	}{
		{"nil info", nil, false},
		{"single video", &MediaInfo{Type: MediaTypeVideo}, false},
		{"playlist without entries", &MediaInfo{Type: MediaTypePlaylist}, false},
		{"empty playlist", &MediaInfo{Type: MediaTypePlaylist, Entries: []*MediaInfo{}}, true},
		{"playlist", &MediaInfo{Type: MediaTypePlaylist, Entries: []*MediaInfo{{ID: "a"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.IsPlaylist())
		})
	}
}

func TestMediaInfo_Flatten(t *testing.T) {
	single := &MediaInfo{ID: "v", Title: "Video"}
	assert.Same(t, single, single.Flatten())

	pl := &MediaInfo{
		Type:    MediaTypePlaylist,
		Title:   "Page",
		Entries: []*MediaInfo{{ID: "1", URL: "https://www.facebook.com/watch/?v=1"}},
	}
	flat := pl.Flatten()
	assert.Equal(t, "1", flat.ID)
	assert.Equal(t, "Page", flat.Title)
	assert.False(t, flat.IsPlaylist())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00"},
		{30, "00:30"},
		{60, "01:00"},
		{3600, "01:00:00"},
		{7325, "02:02:05"},
		{123456, "34:17:36"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestPlatforms(t *testing.T) {
	assert.Equal(t, []Platform{PlatformYouTube, PlatformFacebook}, Platforms())
	assert.Equal(t, []string{"YouTube", "Facebook"}, PlatformNames())
}
