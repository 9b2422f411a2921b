package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/site"
	"github.com/ytget/video-downloader/internal/ytdl"
)

// Timeouts and cache lifetime
const (
	DefaultTimeout  = 60 * time.Second
	DefaultCacheTTL = 10 * time.Minute
)

// Preview is the metadata shown before download
type Preview struct {
	URL         string
	Platform    model.Platform
	Info        *model.MediaInfo
	Playlist    *model.Playlist // nil for a single video
	UsedCookies bool
	Source      string // SourceYtDlp or SourceNative
}

// Preview sources
const (
	SourceYtDlp  = "yt-dlp"
	SourceNative = "native"
)

// IsPlaylist reports whether the preview lists multiple videos
func (p *Preview) IsPlaylist() bool {
	return p != nil && p.Playlist != nil
}

// Title returns the video or playlist title
func (p *Preview) Title() string {
	if p.IsPlaylist() {
		return p.Playlist.Title
	}
	return p.Info.DisplayTitle()
}

// CookieSource returns the cookies.txt path when one is available
type CookieSource func() (string, bool)

// PlaylistLister lists playlist entries without yt-dlp
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Options configures an Extractor
type Options struct {
	Runner   ytdl.Runner
	Cookies  CookieSource
	Lister   PlaylistLister // optional
	Logger   *zap.Logger
	Timeout  time.Duration
	CacheTTL time.Duration // zero uses DefaultCacheTTL, negative disables caching
}

// Extractor previews URLs
type Extractor struct {
	runner  ytdl.Runner
	cookies CookieSource
	lister  PlaylistLister
	logger  *zap.Logger
	timeout time.Duration
	cache   *cache
}

// New creates an extractor
func New(opts Options) *Extractor {
	e := &Extractor{
		runner:  opts.Runner,
		cookies: opts.Cookies,
		lister:  opts.Lister,
		logger:  opts.Logger,
		timeout: opts.Timeout,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	switch {
	case opts.CacheTTL == 0:
		e.cache = newCache(DefaultCacheTTL)
	case opts.CacheTTL > 0:
		e.cache = newCache(opts.CacheTTL)
	}
	return e
}

// Preview validates the URL against the platform and fetches its metadata
func (e *Extractor) Preview(ctx context.Context, rawURL string, p model.Platform) (*Preview, error) {
	url := site.CleanURL(rawURL)
	if url == "" {
		return nil, ytdl.ErrEmptyURL
	}
	if !site.IsValidURLForPlatform(url, p) {
		return nil, fmt.Errorf("%w: %s", ytdl.ErrPlatformMismatch, p)
	}
	if cached, ok := e.cache.get(p, url); ok {
		e.logger.Debug("preview cache hit", zap.String("url", url))
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Info("previewing", zap.String("url", url), zap.String("platform", p.String()))

	info, usedCookies, err := e.fetchInfo(ctx, url, p)
	if err != nil {
		if preview, ok := e.nativeFallback(ctx, url, p, err); ok {
			e.cache.put(preview)
			return preview, nil
		}
		e.logger.Error("preview failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	preview := &Preview{
		URL:         url,
		Platform:    p,
		Info:        info,
		UsedCookies: usedCookies,
		Source:      SourceYtDlp,
	}
	if site.SupportsPlaylists(p) {
		if info.IsPlaylist() {
			preview.Playlist = model.NewPlaylistFromInfo(url, info)
		}
	} else {
		preview.Info = info.Flatten()
	}

	e.cache.put(preview)
	return preview, nil
}

// Invalidate drops every cached preview
func (e *Extractor) Invalidate() {
	e.cache.clear()
}

func (e *Extractor) fetchInfo(ctx context.Context, url string, p model.Platform) (*model.MediaInfo, bool, error) {
	req := ytdl.Request{URL: url, DumpJSON: true}

	res, err := e.run(ctx, req)
	usedCookies := false
	if err != nil && e.shouldRetryWithCookies(p, err) {
		if path, ok := e.cookies(); ok {
			e.logger.Info("retrying preview with cookies", zap.String("url", url), zap.String("cookies", path))
			req.CookieFile = path
			usedCookies = true
			res, err = e.run(ctx, req)
		}
	}
	if err != nil {
		return nil, usedCookies, err
	}

	info, err := DecodeInfo(res.Stdout)
	if err != nil {
		return nil, usedCookies, &ytdl.Error{Op: "preview", URL: url, Stderr: res.Stderr, Err: err}
	}
	return info, usedCookies, nil
}

func (e *Extractor) run(ctx context.Context, req ytdl.Request) (*ytdl.Result, error) {
	res, err := e.runner.Run(ctx, req)
	if err != nil {
		wrapped := &ytdl.Error{Op: "preview", URL: req.URL, Err: err}
		if res != nil {
			wrapped.Stderr = res.Stderr
		}
		return res, wrapped
	}
	if res == nil {
		res = &ytdl.Result{}
	}
	return res, nil
}

func (e *Extractor) shouldRetryWithCookies(p model.Platform, err error) bool {
	profile, ok := site.ProfileFor(p)
	if !ok || !profile.CookieRetry || e.cookies == nil {
		return false
	}
	return ytdl.IsAuthRequired(err)
}

func (e *Extractor) nativeFallback(ctx context.Context, url string, p model.Platform, cause error) (*Preview, bool) {
	if e.lister == nil || !site.SupportsPlaylists(p) || PlaylistID(url) == "" {
		return nil, false
	}
	// a restricted video keeps its cookie hint instead of a silent playlist listing
	if ytdl.IsAuthRequired(cause) {
		return nil, false
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, false
	}
	e.logger.Warn("yt-dlp preview failed, trying native playlist lister",
		zap.String("url", url),
		zap.Error(cause),
	)
	playlist, err := e.lister.ListPlaylist(ctx, url)
	if err != nil || playlist == nil || len(playlist.Videos) == 0 {
		e.logger.Warn("native playlist lister failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	info := &model.MediaInfo{
		ID:    playlist.ID,
		Type:  model.MediaTypePlaylist,
		Title: playlist.Title,
	}
	return &Preview{
		URL:      url,
		Platform: p,
		Info:     info,
		Playlist: playlist,
		Source:   SourceNative,
	}, true
}

// DecodeInfo parses yt-dlp --dump-single-json output. Only the last
// non-empty line is decoded since yt-dlp may print notices before the JSON.
func DecodeInfo(stdout string) (*model.MediaInfo, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	payload := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			payload = line
			break
		}
	}
	if payload == "" {
		return nil, errors.New("yt-dlp returned no metadata")
	}
	var info model.MediaInfo
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp metadata: %w", err)
	}
	return &info, nil
}
