package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/video-downloader/internal/model"
)

func TestBest(t *testing.T) {
	assert.Empty(t, Best(nil))

	info := &model.MediaInfo{
		Thumbnail: "https://img/default.jpg",
		Thumbnails: []model.Thumbnail{
			{URL: "https://img/small.jpg", Height: 90},
			{URL: "https://img/large.jpg", Height: 720},
			{URL: "https://img/nosize.jpg"},
		},
	}
	assert.Equal(t, "https://img/large.jpg", Best(info))
	// input order is left untouched
	assert.Equal(t, "https://img/small.jpg", info.Thumbnails[0].URL)

	assert.Equal(t, "https://img/default.jpg", Best(&model.MediaInfo{Thumbnail: "https://img/default.jpg"}))
}

func TestForPreview(t *testing.T) {
	playlist := &model.MediaInfo{
		Type:      model.MediaTypePlaylist,
		Thumbnail: "https://img/playlist.jpg",
		Entries: []*model.MediaInfo{
			{Thumbnails: []model.Thumbnail{{URL: "https://img/first.jpg", Height: 360}}},
		},
	}
	assert.Equal(t, "https://img/first.jpg", ForPreview(playlist))

	playlist.Entries[0].Thumbnails = nil
	assert.Equal(t, "https://img/playlist.jpg", ForPreview(playlist))
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetcher_Fetch(t *testing.T) {
	body := encodePNG(t, 1280, 720)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(body)
		case "/garbage":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)

	img, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = f.Fetch(context.Background(), srv.URL+"/garbage")
	assert.ErrorContains(t, err, "decode")

	_, err = f.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestScale_ExactSize(t *testing.T) {
	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	out := Scale(tall)
	assert.Equal(t, Width, out.Bounds().Dx())
	assert.Equal(t, Height, out.Bounds().Dy())

	wide := image.NewRGBA(image.Rect(0, 0, 160, 90))
	out = Scale(wide)
	assert.Equal(t, Width, out.Bounds().Dx())
	assert.Equal(t, Height, out.Bounds().Dy())
}
