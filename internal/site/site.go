// Package site describes the supported video platforms: which URLs belong to
// them and how yt-dlp should be configured to fetch from them.
package site

import (
	"fmt"
	"strings"

	"github.com/ytget/video-downloader/internal/model"
)

// Profile holds per-platform download behaviour
type Profile struct {
	Platform          model.Platform
	Hosts             []string // substrings matched case-insensitively against the URL
	Format            string   // yt-dlp format selector
	MergeOutputFormat string   // container used when merging video and audio
	Playlists         bool     // playlist preview and selection supported
	CookieRetry       bool     // retry with cookies.txt on sign-in errors
	CookieDomains     []string // domains expected in an authenticated cookie jar
	HomeURL           string   // landing page used for browser cookie export
}

var profiles = map[model.Platform]Profile{
	model.PlatformYouTube: {
		Platform:          model.PlatformYouTube,
		Hosts:             []string{"youtube.com", "youtu.be"},
		Format:            "bestvideo+bestaudio/best",
		MergeOutputFormat: "webm",
		Playlists:         true,
		CookieRetry:       true,
		// auth cookies live on google.com, playback happens on youtube.com
		CookieDomains: []string{"youtube.com", "google.com"},
		HomeURL:       "https://www.youtube.com",
	},
	model.PlatformFacebook: {
		Platform:          model.PlatformFacebook,
		Hosts:             []string{"facebook.com", "fb.watch"},
		Format:            "best",
		MergeOutputFormat: "mp4",
		CookieDomains:     []string{"facebook.com"},
		HomeURL:           "https://www.facebook.com",
	},
}

// ProfileFor returns the profile of a platform
func ProfileFor(p model.Platform) (Profile, bool) {
	profile, ok := profiles[p]
	return profile, ok
}

// IsValidURLForPlatform checks if the URL matches the selected platform
func IsValidURLForPlatform(url string, p model.Platform) bool {
	profile, ok := profiles[p]
	if !ok {
		return false
	}
	lower := strings.ToLower(url)
	for _, host := range profile.Hosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// Detect returns the first platform whose hosts match the URL
func Detect(url string) (model.Platform, bool) {
	for _, p := range model.Platforms() {
		if IsValidURLForPlatform(url, p) {
			return p, true
		}
	}
	return "", false
}

// ParsePlatform resolves a platform from its case-insensitive name
func ParsePlatform(name string) (model.Platform, error) {
	for _, p := range model.Platforms() {
		if strings.EqualFold(strings.TrimSpace(name), p.String()) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform: %q", name)
}

// SupportsPlaylists reports whether playlist selection is offered for the platform
func SupportsPlaylists(p model.Platform) bool {
	return profiles[p].Playlists
}

// CleanURL strips control whitespace that sneaks in from clipboard pastes
func CleanURL(raw string) string {
	clean := strings.ReplaceAll(raw, "\n", "")
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\t", " ")
	return strings.TrimSpace(clean)
}
