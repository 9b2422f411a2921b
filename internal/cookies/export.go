package cookies

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/site"
	"github.com/ytget/video-downloader/internal/ytdl"
)

// Browsers yt-dlp can read cookies from
var Browsers = []string{"brave", "chrome", "chromium", "edge", "firefox", "opera", "safari", "vivaldi", "whale"}

// Exporter writes cookies.txt from a browser profile using yt-dlp
type Exporter struct {
	runner ytdl.Runner
	logger *zap.Logger
}

// NewExporter creates a cookie exporter
func NewExporter(runner ytdl.Runner, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{runner: runner, logger: logger}
}

// ExportFromBrowser runs yt-dlp --cookies-from-browser against the platform
// home page and validates the jar before it replaces dest. A failed export
// leaves an existing dest untouched.
func (e *Exporter) ExportFromBrowser(ctx context.Context, browser string, p model.Platform, dest string) (*Jar, error) {
	browser = strings.ToLower(strings.TrimSpace(browser))
	if !slices.Contains(Browsers, browser) {
		return nil, fmt.Errorf("unsupported browser: %q", browser)
	}
	profile, ok := site.ProfileFor(p)
	if !ok {
		return nil, fmt.Errorf("unknown platform: %s", p)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cookie directory: %w", err)
	}

	staged := dest + ".export"
	if err := os.Remove(staged); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to clear staged cookie file: %w", err)
	}
	defer os.Remove(staged)

	e.logger.Info("exporting browser cookies",
		zap.String("browser", browser),
		zap.String("platform", p.String()),
		zap.String("dest", dest),
	)

	res, err := e.runner.Run(ctx, ytdl.Request{
		URL:                profile.HomeURL,
		CookiesFromBrowser: browser,
		CookieFile:         staged,
		SkipDownload:       true,
	})
	if err != nil {
		// yt-dlp writes the jar on exit even when the landing page has nothing to extract
		if _, statErr := os.Stat(staged); statErr != nil {
			wrapped := &ytdl.Error{Op: "export cookies", URL: profile.HomeURL, Err: err}
			if res != nil {
				wrapped.Stderr = res.Stderr
			}
			e.logger.Error("cookie export failed", zap.Error(wrapped))
			return nil, wrapped
		}
		e.logger.Warn("yt-dlp reported an error but cookie file was written", zap.Error(err))
	}

	jar, err := ParseFile(staged)
	if err != nil {
		return nil, err
	}
	if err := jar.Validate(p, time.Now()); err != nil {
		e.logger.Error("exported cookies rejected", zap.String("browser", browser), zap.Error(err))
		return nil, fmt.Errorf("export from %s: %w", browser, err)
	}
	if err := os.Rename(staged, dest); err != nil {
		return nil, fmt.Errorf("failed to save cookie file: %w", err)
	}
	e.logger.Info("cookie export finished", zap.Int("cookies", jar.Len()))
	return jar, nil
}
