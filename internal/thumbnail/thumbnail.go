// Package thumbnail picks, downloads and scales preview thumbnails.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/ytget/video-downloader/internal/model"
)

// Preview box and fetch limits
const (
	Width          = 320
	Height         = 180
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 10 << 20
)

// UnavailableText is shown in place of a thumbnail that could not be loaded
const UnavailableText = "Thumbnail not available"

var ErrNoURL = errors.New("no thumbnail URL")

// Best returns the highest thumbnail URL of info, falling back to its single
// thumbnail field
func Best(info *model.MediaInfo) string {
	if info == nil {
		return ""
	}
	if len(info.Thumbnails) > 0 {
		sorted := slices.Clone(info.Thumbnails)
		slices.SortStableFunc(sorted, func(a, b model.Thumbnail) int {
			return b.Height - a.Height
		})
		if sorted[0].URL != "" {
			return sorted[0].URL
		}
	}
	return info.Thumbnail
}

// ForPreview returns the thumbnail shown for a preview: the first entry of a
// playlist, otherwise the item itself
func ForPreview(info *model.MediaInfo) string {
	if info.IsPlaylist() && len(info.Entries) > 0 {
		if url := Best(info.Entries[0]); url != "" {
			return url
		}
	}
	return Best(info)
}

// Fetcher downloads thumbnails
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewFetcher creates a fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, timeout: DefaultTimeout, logger: logger}
}

// Fetch downloads the image at url and scales it to fit the preview box
// keeping its aspect ratio
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, ErrNoURL
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build thumbnail request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("thumbnail fetch failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error("thumbnail fetch failed", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("failed to fetch thumbnail: HTTP %d", resp.StatusCode)
	}

	img, format, err := image.Decode(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.logger.Error("thumbnail decode failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to decode thumbnail: %w", err)
	}
	f.logger.Debug("thumbnail loaded", zap.String("url", url), zap.String("format", format))
	return Scale(img), nil
}

// Scale converts img to RGBA and resizes it to exactly Width x Height
// with Lanczos resampling
func Scale(img image.Image) image.Image {
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	b := rgba.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return rgba
	}
	return resize.Resize(Width, Height, rgba, resize.Lanczos3)
}
