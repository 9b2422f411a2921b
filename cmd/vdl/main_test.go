package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/video-downloader/internal/config"
	"github.com/ytget/video-downloader/internal/download"
	"github.com/ytget/video-downloader/internal/extract"
	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/ytdl"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		sel     string
		count   int
		want    []int
		wantErr bool
	}{
		{name: "single", sel: "2", count: 3, want: []int{1}},
		{name: "list", sel: "3, 1", count: 3, want: []int{0, 2}},
		{name: "range", sel: "2-4", count: 5, want: []int{1, 2, 3}},
		{name: "overlap", sel: "1-3,2", count: 3, want: []int{0, 1, 2}},
		{name: "out of range", sel: "4", count: 3, wantErr: true},
		{name: "zero", sel: "0", count: 3, wantErr: true},
		{name: "reversed", sel: "3-1", count: 3, wantErr: true},
		{name: "not a number", sel: "a", count: 3, wantErr: true},
		{name: "empty", sel: " , ", count: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.sel, tt.count)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePlatform(t *testing.T) {
	p, err := resolvePlatform("https://youtu.be/abc", "")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformYouTube, p)

	p, err = resolvePlatform("https://www.facebook.com/watch?v=1", "facebook")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformFacebook, p)

	_, err = resolvePlatform("", "")
	assert.ErrorIs(t, err, ytdl.ErrEmptyURL)

	_, err = resolvePlatform("https://www.facebook.com/watch?v=1", "youtube")
	assert.ErrorIs(t, err, ytdl.ErrPlatformMismatch)

	_, err = resolvePlatform("https://example.com/video", "")
	assert.ErrorIs(t, err, ytdl.ErrPlatformMismatch)
}

func TestApplyArguments(t *testing.T) {
	cfg := &config.FileConfig{OutputDir: "/downloads", MaxParallel: 2}
	applyArguments(cfg, &arguments{Output: "/tmp/out", Cookies: "/tmp/c.txt", Parallel: 50, Verbose: true})

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "/tmp/c.txt", cfg.CookiesFile)
	assert.Equal(t, config.MaxMaxParallel, cfg.MaxParallel)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func playlistPreview() *extract.Preview {
	info := &model.MediaInfo{
		ID:    "PL1",
		Type:  model.MediaTypePlaylist,
		Title: "Mix",
		Entries: []*model.MediaInfo{
			{ID: "a"}, {ID: "b"}, {ID: "c"},
		},
	}
	return &extract.Preview{
		URL:      "https://www.youtube.com/playlist?list=PL1",
		Platform: model.PlatformYouTube,
		Info:     info,
		Playlist: model.NewPlaylistFromInfo("https://www.youtube.com/playlist?list=PL1", info),
	}
}

func TestDownloadURLs(t *testing.T) {
	_, _, err := downloadURLs(playlistPreview(), &arguments{})
	assert.ErrorIs(t, err, ytdl.ErrNothingSelected)

	urls, playlist, err := downloadURLs(playlistPreview(), &arguments{Select: "1,3"})
	require.NoError(t, err)
	assert.True(t, playlist)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/watch?v=c",
	}, urls)

	urls, _, err = downloadURLs(playlistPreview(), &arguments{All: true})
	require.NoError(t, err)
	assert.Len(t, urls, 3)

	single := &extract.Preview{
		URL:      "https://www.youtube.com/watch?v=a",
		Platform: model.PlatformYouTube,
		Info:     &model.MediaInfo{ID: "a", Title: "A"},
	}
	urls, playlist, err = downloadURLs(single, &arguments{})
	require.NoError(t, err)
	assert.False(t, playlist)
	assert.Equal(t, []string{single.URL}, urls)
}

func TestPrintPreview(t *testing.T) {
	var buf bytes.Buffer
	printPreview(&buf, playlistPreview())
	out := buf.String()
	assert.Contains(t, out, "Playlist: Mix")
	assert.Contains(t, out, "Found 3 videos")
	assert.Contains(t, out, "   3  Unknown   Unknown Title")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "he", truncate("hello", 2))
}

func TestPrinter_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.Progress("Clip", "Downloading: 10.0% at 1.00MiB/s")
	p.Line("Download complete!")
	assert.Equal(t, "Clip: Downloading: 10.0% at 1.00MiB/s\nDownload complete!\n", buf.String())
}

type stubRunner struct {
	fail map[string]bool
}

func (r *stubRunner) Run(ctx context.Context, req ytdl.Request) (*ytdl.Result, error) {
	if r.fail[req.URL] {
		return &ytdl.Result{Stderr: "ERROR: Video unavailable"}, errors.New("exit status 1")
	}
	req.OnProgress(ytdl.Progress{Status: "downloading", DownloadedBytes: 1, TotalBytes: 2})
	return &ytdl.Result{}, nil
}

func TestDownloadBatch(t *testing.T) {
	urls := []string{"https://www.youtube.com/watch?v=a", "https://www.youtube.com/watch?v=b"}

	tests := []struct {
		name     string
		fail     map[string]bool
		wantCode int
		wantLine string
	}{
		{name: "success", wantCode: exitOK, wantLine: "Download complete!"},
		{
			name:     "partial failure",
			fail:     map[string]bool{urls[1]: true},
			wantCode: exitError,
			wantLine: "Download finished: 1 of 2 failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := download.NewService(download.Options{
				DownloadDir: t.TempDir(),
				Runner:      &stubRunner{fail: tt.fail},
				MaxRetries:  -1,
			})
			var out, errOut bytes.Buffer
			code := downloadBatch(context.Background(), svc, urls, t.TempDir(),
				model.PlatformYouTube, true, newPrinter(&out), &errOut)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out.String(), "Starting download from YouTube...")
			assert.True(t, strings.HasSuffix(out.String(), tt.wantLine+"\n"), out.String())
		})
	}
}

func TestDownloadBatch_Aborted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := download.NewService(download.Options{
		DownloadDir: t.TempDir(),
		Runner:      blockingRunner{},
	})
	var out, errOut bytes.Buffer
	code := downloadBatch(ctx, svc, []string{"https://www.youtube.com/watch?v=a"}, t.TempDir(),
		model.PlatformYouTube, false, newPrinter(&out), &errOut)

	assert.Equal(t, exitAborted, code)
	assert.Contains(t, out.String(), "Aborted.")
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, req ytdl.Request) (*ytdl.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
