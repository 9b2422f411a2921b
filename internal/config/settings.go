package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyPlatform           = "last_platform"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyCookiesPath        = "cookies_path"
	KeyFFmpegPath         = "ffmpeg_path"
	KeyYtDlpPath          = "ytdlp_path"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyAutoInstall        = "auto_install_tools"
)

// Default values
const (
	DefaultMaxParallel        = 2
	MinMaxParallel            = 1
	MaxMaxParallel            = 10
	DefaultPlatform           = model.PlatformYouTube
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false
	DefaultAutoInstall        = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory,
// <cwd>/downloads until the user picks another
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		dir = platform.DefaultDownloadDir()
		s.SetDownloadDirectory(dir)
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetPlatform returns the platform selected last time
func (s *Settings) GetPlatform() model.Platform {
	value := model.Platform(s.app.Preferences().String(KeyPlatform))
	for _, p := range model.Platforms() {
		if p == value {
			return p
		}
	}
	return DefaultPlatform
}

// SetPlatform remembers the selected platform
func (s *Settings) SetPlatform(p model.Platform) {
	s.app.Preferences().SetString(KeyPlatform, p.String())
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	count = max(MinMaxParallel, min(count, MaxMaxParallel))
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetCookiesPath returns the explicit cookies.txt path, empty to search
// the application folder
func (s *Settings) GetCookiesPath() string {
	return s.app.Preferences().String(KeyCookiesPath)
}

// SetCookiesPath sets the explicit cookies.txt path
func (s *Settings) SetCookiesPath(path string) {
	s.app.Preferences().SetString(KeyCookiesPath, path)
}

// GetFFmpegPath returns the configured ffmpeg binary
func (s *Settings) GetFFmpegPath() string {
	return s.app.Preferences().String(KeyFFmpegPath)
}

// SetFFmpegPath sets the ffmpeg binary
func (s *Settings) SetFFmpegPath(path string) {
	s.app.Preferences().SetString(KeyFFmpegPath, path)
}

// GetYtDlpPath returns the configured yt-dlp binary
func (s *Settings) GetYtDlpPath() string {
	return s.app.Preferences().String(KeyYtDlpPath)
}

// SetYtDlpPath sets the yt-dlp binary
func (s *Settings) SetYtDlpPath(path string) {
	s.app.Preferences().SetString(KeyYtDlpPath, path)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetAutoInstallTools returns whether missing yt-dlp/ffmpeg may be downloaded
func (s *Settings) GetAutoInstallTools() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoInstall, DefaultAutoInstall)
}

// SetAutoInstallTools sets whether missing tools may be downloaded
func (s *Settings) SetAutoInstallTools(enabled bool) {
	s.app.Preferences().SetBool(KeyAutoInstall, enabled)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
