package config

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Default is <cwd>/downloads
	dir := settings.GetDownloadDirectory()
	if dir != platform.DefaultDownloadDir() {
		t.Errorf("Expected default download directory %s, got %s", platform.DefaultDownloadDir(), dir)
	}
	if filepath.Base(dir) != platform.DownloadsFolder {
		t.Errorf("Expected default to end with %q, got %s", platform.DownloadsFolder, dir)
	}

	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	if got := settings.GetDownloadDirectory(); got != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, got)
	}
}

func TestPlatform(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetPlatform(); got != DefaultPlatform {
		t.Errorf("Expected default platform %s, got %s", DefaultPlatform, got)
	}

	settings.SetPlatform(model.PlatformFacebook)
	if got := settings.GetPlatform(); got != model.PlatformFacebook {
		t.Errorf("Expected Facebook, got %s", got)
	}

	// Unknown stored values fall back to the default
	app.Preferences().SetString(KeyPlatform, "Vimeo")
	if got := settings.GetPlatform(); got != DefaultPlatform {
		t.Errorf("Expected fallback to %s, got %s", DefaultPlatform, got)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetMaxParallelDownloads(); got != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, got)
	}

	settings.SetMaxParallelDownloads(5)
	if got := settings.GetMaxParallelDownloads(); got != 5 {
		t.Errorf("Expected max parallel 5, got %d", got)
	}

	settings.SetMaxParallelDownloads(0) // Should be clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // Should be clamped to 10
	if settings.GetMaxParallelDownloads() != 10 {
		t.Error("Max parallel should be clamped to maximum 10")
	}
}

func TestToolPaths(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetCookiesPath() != "" || settings.GetFFmpegPath() != "" || settings.GetYtDlpPath() != "" {
		t.Error("Tool paths should be empty by default")
	}

	settings.SetCookiesPath("/app/cookies.txt")
	settings.SetFFmpegPath("/opt/ffmpeg")
	settings.SetYtDlpPath("/opt/yt-dlp")

	if settings.GetCookiesPath() != "/app/cookies.txt" {
		t.Errorf("Unexpected cookies path %s", settings.GetCookiesPath())
	}
	if settings.GetFFmpegPath() != "/opt/ffmpeg" {
		t.Errorf("Unexpected ffmpeg path %s", settings.GetFFmpegPath())
	}
	if settings.GetYtDlpPath() != "/opt/yt-dlp" {
		t.Errorf("Unexpected yt-dlp path %s", settings.GetYtDlpPath())
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("en")
	if lang := settings.GetLanguage(); lang != "en" {
		t.Errorf("Expected language 'en', got %s", lang)
	}
}

func TestToggles(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Error("Unexpected auto-reveal default")
	}
	settings.SetAutoRevealOnComplete(true)
	if !settings.GetAutoRevealOnComplete() {
		t.Error("Auto-reveal should be enabled")
	}

	if settings.GetAutoInstallTools() != DefaultAutoInstall {
		t.Error("Unexpected auto-install default")
	}
	settings.SetAutoInstallTools(false)
	if settings.GetAutoInstallTools() {
		t.Error("Auto-install should be disabled")
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}
