package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/ytget/video-downloader/internal/config"
	"github.com/ytget/video-downloader/internal/cookies"
	"github.com/ytget/video-downloader/internal/download"
	"github.com/ytget/video-downloader/internal/extract"
	"github.com/ytget/video-downloader/internal/logging"
	"github.com/ytget/video-downloader/internal/platform"
	"github.com/ytget/video-downloader/internal/thumbnail"
	"github.com/ytget/video-downloader/internal/tools"
	"github.com/ytget/video-downloader/internal/ui"
	"github.com/ytget/video-downloader/internal/ytdl"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.video-downloader"
	AppName = "Video Downloader"

	WindowWidth  = 800
	WindowHeight = 600

	// toolInstallTimeout bounds the background yt-dlp and ffmpeg installs
	toolInstallTimeout = 10 * time.Minute
)

func main() {
	logger, logPath := logging.New(logging.Options{})
	defer logger.Sync() //nolint:errcheck
	logger.Info("starting", zap.String("app", AppName), zap.String("version", version), zap.String("log", logPath))

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)

	appDir, err := platform.AppDir()
	if err != nil {
		logger.Warn("application folder unknown, bundled tools disabled", zap.Error(err))
	}
	if icon, err := ui.LoadLogoResource(appDir); err == nil {
		myWindow.SetIcon(icon)
	}

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logger.Warn("failed to ensure downloads dir", zap.String("dir", downloadsDir), zap.Error(err))
	}

	finder := tools.NewFinder(appDir, logger)
	ytdlpPath, ytdlpFound := finder.FindYtDlp(settings.GetYtDlpPath())
	ffmpegPath, ffmpegFound := finder.FindFFmpeg(settings.GetFFmpegPath())

	runner := ytdl.NewCommandRunner(ytdlpPath, logger)
	locator := &cookies.Locator{
		Configured: settings.GetCookiesPath,
		AppDir:     appDir,
		WorkDir:    platform.WorkDir(),
	}

	downloadSvc := download.NewService(download.Options{
		DownloadDir: downloadsDir,
		MaxParallel: settings.GetMaxParallelDownloads(),
		Runner:      runner,
		FFmpegPath:  ffmpegPath,
		Cookies:     locator.Find,
		Logger:      logger.Named("download"),
		MaxRetries:  download.DefaultMaxRetries,
		RetryDelay:  download.DefaultRetryDelay,
	})

	extractor := extract.New(extract.Options{
		Runner:  runner,
		Cookies: locator.Find,
		Lister:  &extract.NativeLister{},
		Logger:  logger.Named("extract"),
	})

	ui.NewRootUI(myWindow, myApp, ui.Services{
		Downloader: downloadSvc,
		Previewer:  extractor,
		Thumbnails: thumbnail.NewFetcher(nil, logger.Named("thumbnail")),
		Exporter:   cookies.NewExporter(runner, logger.Named("cookies")),
		Cookies:    locator,
		Settings:   settings,
		AppDir:     appDir,
		Logger:     logger.Named("ui"),
	})

	if settings.GetAutoInstallTools() && (!ytdlpFound || !ffmpegFound) {
		go installMissingTools(finder, downloadSvc, !ytdlpFound, !ffmpegFound, logger)
	}

	myWindow.ShowAndRun()
}

// installMissingTools installs yt-dlp and ffmpeg into the go-ytdlp cache.
// The runner resolves the cached yt-dlp by itself; ffmpeg is handed to the
// download service once known.
func installMissingTools(finder *tools.Finder, svc *download.Service, ytdlp, ffmpeg bool, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), toolInstallTimeout)
	defer cancel()

	if ytdlp {
		if _, err := finder.EnsureYtDlp(ctx, "", true); err != nil {
			logger.Error("yt-dlp unavailable", zap.Error(err))
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if ffmpeg {
		path, err := finder.EnsureFFmpeg(ctx, "", true)
		if err != nil {
			logger.Error("ffmpeg unavailable, merged formats will fail", zap.Error(err))
			return
		}
		svc.SetFFmpegPath(path)
	}
}
