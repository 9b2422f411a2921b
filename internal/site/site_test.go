package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/video-downloader/internal/model"
)

func TestIsValidURLForPlatform(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		platform model.Platform
		expected bool
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=abc", model.PlatformYouTube, true},
		{"youtube short link", "https://youtu.be/abc", model.PlatformYouTube, true},
		{"youtube upper case", "HTTPS://WWW.YOUTUBE.COM/watch?v=abc", model.PlatformYouTube, true},
		{"youtube playlist", "https://www.youtube.com/playlist?list=PL1", model.PlatformYouTube, true},
		{"facebook url on youtube", "https://www.facebook.com/watch/?v=1", model.PlatformYouTube, false},
		{"facebook watch", "https://www.facebook.com/watch/?v=1", model.PlatformFacebook, true},
		{"fb.watch", "https://fb.watch/xyz/", model.PlatformFacebook, true},
		{"youtube url on facebook", "https://youtu.be/abc", model.PlatformFacebook, false},
		{"unknown platform", "https://youtu.be/abc", model.Platform("Vimeo"), false},
		{"empty url", "", model.PlatformYouTube, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidURLForPlatform(tt.url, tt.platform))
		})
	}
}

func TestDetect(t *testing.T) {
	p, ok := Detect("https://fb.watch/xyz")
	require.True(t, ok)
	assert.Equal(t, model.PlatformFacebook, p)

	p, ok = Detect("https://youtu.be/abc")
	require.True(t, ok)
	assert.Equal(t, model.PlatformYouTube, p)

	_, ok = Detect("https://vimeo.com/1")
	assert.False(t, ok)
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform(" youtube ")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformYouTube, p)

	p, err = ParsePlatform("FACEBOOK")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformFacebook, p)

	_, err = ParsePlatform("tiktok")
	assert.Error(t, err)
}

func TestProfiles(t *testing.T) {
	yt, ok := ProfileFor(model.PlatformYouTube)
	require.True(t, ok)
	assert.Equal(t, "bestvideo+bestaudio/best", yt.Format)
	assert.Equal(t, "webm", yt.MergeOutputFormat)
	assert.True(t, yt.CookieRetry)
	assert.True(t, SupportsPlaylists(model.PlatformYouTube))

	fb, ok := ProfileFor(model.PlatformFacebook)
	require.True(t, ok)
	assert.Equal(t, "best", fb.Format)
	assert.Equal(t, "mp4", fb.MergeOutputFormat)
	assert.False(t, fb.CookieRetry)
	assert.False(t, SupportsPlaylists(model.PlatformFacebook))
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://youtu.be/a b", CleanURL("  https://youtu.be/a\r\n\tb \n"))
}
