package cookies

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/ytdl"
)

type fakeRunner struct {
	requests []ytdl.Request
	write    string
	err      error
}

func (f *fakeRunner) Run(_ context.Context, req ytdl.Request) (*ytdl.Result, error) {
	f.requests = append(f.requests, req)
	if f.write != "" && req.CookieFile != "" {
		if err := os.WriteFile(req.CookieFile, []byte(f.write), 0o600); err != nil {
			return nil, err
		}
	}
	return &ytdl.Result{Stderr: "ERROR: nothing to extract"}, f.err
}

func TestExporter_ExportFromBrowser(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", FileName)
	runner := &fakeRunner{write: sampleJar}

	jar, err := NewExporter(runner, nil).ExportFromBrowser(context.Background(), " Firefox ", model.PlatformYouTube, dest)
	require.NoError(t, err)
	assert.Equal(t, 4, jar.Len())

	require.Len(t, runner.requests, 1)
	req := runner.requests[0]
	assert.Equal(t, "firefox", req.CookiesFromBrowser)
	assert.Equal(t, dest+".export", req.CookieFile)
	assert.FileExists(t, dest)
	assert.NoFileExists(t, dest+".export")
	assert.True(t, req.SkipDownload)
	assert.Equal(t, "https://www.youtube.com", req.URL)
}

func TestExporter_ToleratesRunErrorWhenFileWritten(t *testing.T) {
	dest := filepath.Join(t.TempDir(), FileName)
	runner := &fakeRunner{write: sampleJar, err: errors.New("exit status 1")}

	jar, err := NewExporter(runner, nil).ExportFromBrowser(context.Background(), "chrome", model.PlatformYouTube, dest)
	require.NoError(t, err)
	assert.Equal(t, 4, jar.Len())
}

func TestExporter_FailedRunKeepsExistingFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(dest, []byte(sampleJar), 0o600))
	runner := &fakeRunner{err: errors.New("exit status 1")}

	jar, err := NewExporter(runner, nil).ExportFromBrowser(context.Background(), "chrome", model.PlatformYouTube, dest)
	var ytErr *ytdl.Error
	require.ErrorAs(t, err, &ytErr)
	assert.Nil(t, jar)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, sampleJar, string(data))
}

func TestExporter_RejectsJarWithoutPlatformCookies(t *testing.T) {
	dest := filepath.Join(t.TempDir(), FileName)
	// only an expired facebook cookie
	runner := &fakeRunner{write: sampleJar}

	_, err := NewExporter(runner, nil).ExportFromBrowser(context.Background(), "firefox", model.PlatformFacebook, dest)
	assert.ErrorIs(t, err, ErrNoCookies)
	assert.NoFileExists(t, dest)
	assert.NoFileExists(t, dest+".export")
}

func TestExporter_Errors(t *testing.T) {
	dest := filepath.Join(t.TempDir(), FileName)
	exporter := NewExporter(&fakeRunner{err: errors.New("exit status 1")}, nil)

	_, err := exporter.ExportFromBrowser(context.Background(), "netscape", model.PlatformYouTube, dest)
	assert.ErrorContains(t, err, "unsupported browser")

	_, err = exporter.ExportFromBrowser(context.Background(), "chrome", model.Platform("Vimeo"), dest)
	assert.ErrorContains(t, err, "unknown platform")

	_, err = exporter.ExportFromBrowser(context.Background(), "chrome", model.PlatformYouTube, dest)
	var ytErr *ytdl.Error
	require.ErrorAs(t, err, &ytErr)
	assert.Equal(t, "export cookies", ytErr.Op)
	assert.Contains(t, ytErr.Stderr, "nothing to extract")
}
