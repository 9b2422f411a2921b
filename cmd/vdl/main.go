// Command vdl previews and downloads YouTube and Facebook videos from a
// terminal, using the same services as the desktop application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ytget/video-downloader/internal/config"
	"github.com/ytget/video-downloader/internal/cookies"
	"github.com/ytget/video-downloader/internal/download"
	"github.com/ytget/video-downloader/internal/extract"
	"github.com/ytget/video-downloader/internal/logging"
	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
	"github.com/ytget/video-downloader/internal/progress"
	"github.com/ytget/video-downloader/internal/site"
	"github.com/ytget/video-downloader/internal/tools"
	"github.com/ytget/video-downloader/internal/ytdl"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// Exit codes
const (
	exitOK      = 0
	exitError   = 1
	exitAborted = 130
)

const toolInstallTimeout = 10 * time.Minute

type arguments struct {
	URL        string
	Platform   string
	Output     string
	Cookies    string
	ConfigFile string
	Info       bool
	All        bool
	Select     string
	Parallel   int
	Verbose    bool
	Version    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseArguments(args []string, stderr io.Writer) (*arguments, error) {
	var a arguments
	fs := flag.NewFlagSet("vdl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.URL, "url", "", "video or playlist URL")
	fs.StringVar(&a.Platform, "platform", "", "youtube or facebook, detected from the URL when empty")
	fs.StringVar(&a.Output, "output", "", "output folder")
	fs.StringVar(&a.Cookies, "cookies", "", "cookies.txt used for restricted videos")
	fs.StringVar(&a.ConfigFile, "config", "", "YAML configuration file")
	fs.BoolVar(&a.Info, "info", false, "print the preview and exit")
	fs.BoolVar(&a.All, "all", false, "download every playlist entry")
	fs.StringVar(&a.Select, "select", "", "playlist entries to download, e.g. 1,3,5-7")
	fs.IntVar(&a.Parallel, "parallel", 0, "parallel downloads (1-10)")
	fs.BoolVar(&a.Verbose, "v", false, "log to the console as well")
	fs.BoolVar(&a.Version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.URL == "" && fs.NArg() > 0 {
		a.URL = fs.Arg(0)
	}
	return &a, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	a, err := parseArguments(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if a.Version {
		fmt.Fprintln(stdout, "vdl", version)
		return exitOK
	}

	cfg, err := config.LoadFile(a.ConfigFile)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
	applyArguments(cfg, a)

	logger, _ := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Console: a.Verbose})
	defer logger.Sync() //nolint:errcheck

	url := site.CleanURL(a.URL)
	p, err := resolvePlatform(url, a.Platform)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", ytdl.UserMessage(err, ""))
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appDir, _ := platform.AppDir()
	finder := tools.NewFinder(appDir, logger.Named("tools"))
	installCtx, cancel := context.WithTimeout(ctx, toolInstallTimeout)
	ytdlpPath, err := finder.EnsureYtDlp(installCtx, cfg.YtDLP.BinaryPath, cfg.YtDLP.InstallAllowed())
	if err != nil {
		cancel()
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
	ffmpegPath, err := finder.EnsureFFmpeg(installCtx, cfg.FFmpegPath, cfg.YtDLP.InstallAllowed())
	cancel()
	if err != nil {
		logger.Warn("ffmpeg unavailable, merged formats will fail", zap.Error(err))
	}

	runner := ytdl.NewCommandRunner(ytdlpPath, logger.Named("ytdl"))
	locator := &cookies.Locator{
		Configured: func() string { return cfg.CookiesFile },
		AppDir:     appDir,
		WorkDir:    platform.WorkDir(),
	}

	extractor := extract.New(extract.Options{
		Runner:   runner,
		Cookies:  locator.Find,
		Lister:   &extract.NativeLister{},
		Logger:   logger.Named("extract"),
		Timeout:  cfg.YtDLP.PreviewTimeout(),
		CacheTTL: -1,
	})

	fmt.Fprintf(stdout, "Fetching info from %s...\n", p)
	preview, err := extractor.Preview(ctx, url, p)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(stderr, "Aborted.")
			return exitAborted
		}
		fmt.Fprintln(stderr, "Error:", ytdl.UserMessage(err, appDir))
		return exitError
	}
	printPreview(stdout, preview)
	if a.Info {
		return exitOK
	}

	urls, playlist, err := downloadURLs(preview, a)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.OutputDir); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	svc := download.NewService(download.Options{
		DownloadDir: cfg.OutputDir,
		MaxParallel: cfg.MaxParallel,
		Runner:      runner,
		FFmpegPath:  ffmpegPath,
		Cookies:     locator.Find,
		Logger:      logger.Named("download"),
	})
	return downloadBatch(ctx, svc, urls, cfg.OutputDir, p, playlist, newPrinter(stdout), stderr)
}

// applyArguments lets command line flags override the file configuration
func applyArguments(cfg *config.FileConfig, a *arguments) {
	if a.Output != "" {
		cfg.OutputDir = a.Output
	}
	if a.Cookies != "" {
		cfg.CookiesFile = a.Cookies
	}
	if a.Parallel > 0 {
		cfg.MaxParallel = max(config.MinMaxParallel, min(a.Parallel, config.MaxMaxParallel))
	}
	if a.Verbose && cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
}

// resolvePlatform uses the -platform flag when given, the URL host otherwise
func resolvePlatform(url, name string) (model.Platform, error) {
	if url == "" {
		return "", ytdl.ErrEmptyURL
	}
	if name != "" {
		p, err := site.ParsePlatform(name)
		if err != nil {
			return "", err
		}
		if !site.IsValidURLForPlatform(url, p) {
			return "", ytdl.ErrPlatformMismatch
		}
		return p, nil
	}
	p, ok := site.Detect(url)
	if !ok {
		return "", ytdl.ErrPlatformMismatch
	}
	return p, nil
}

func printPreview(w io.Writer, preview *extract.Preview) {
	if !preview.IsPlaylist() {
		fmt.Fprintf(w, "Video: %s\n", preview.Title())
		fmt.Fprintf(w, "Duration: %s\n", preview.Info.DurationString())
		return
	}
	fmt.Fprintf(w, "Playlist: %s\n", preview.Title())
	fmt.Fprintf(w, "Found %d videos\n", len(preview.Playlist.Videos))
	for i, v := range preview.Playlist.Videos {
		fmt.Fprintf(w, "%4d  %-8s  %s\n", i+1, v.Duration, v.Title)
	}
}

// downloadURLs picks what to download from a preview. Playlists need either
// -all or -select.
func downloadURLs(preview *extract.Preview, a *arguments) ([]string, bool, error) {
	if !preview.IsPlaylist() || !site.SupportsPlaylists(preview.Platform) {
		return []string{preview.URL}, false, nil
	}
	videos := preview.Playlist.Videos
	switch {
	case a.All:
		preview.Playlist.SelectAll(true)
	case a.Select != "":
		indices, err := parseSelection(a.Select, len(videos))
		if err != nil {
			return nil, true, err
		}
		for _, i := range indices {
			preview.Playlist.SetSelected(i, true)
		}
	}
	urls := preview.Playlist.SelectedURLs()
	if len(urls) == 0 {
		return nil, true, fmt.Errorf("%w: use -all or -select", ytdl.ErrNothingSelected)
	}
	return urls, true, nil
}

// downloadBatch runs the batch to completion. An interrupt stops every task
// still running.
func downloadBatch(ctx context.Context, svc *download.Service, urls []string, outputDir string,
	p model.Platform, playlist bool, out *printer, stderr io.Writer) int {
	throttle := progress.NewThrottle(progress.DefaultStep)
	titles := make(map[string]string)
	var mu sync.Mutex

	svc.SetProgressCallback(func(ev model.ProgressEvent) {
		if !throttle.Allow(ev) {
			return
		}
		mu.Lock()
		title := titles[ev.TaskID]
		mu.Unlock()
		out.Progress(title, progress.Line(ev))
	})
	svc.SetUpdateCallback(func(task *model.DownloadTask) {
		mu.Lock()
		titles[task.ID] = task.Title
		mu.Unlock()
		if task.Status == model.TaskStatusError {
			out.Line(fmt.Sprintf("%s: %s", task.URL, ytdl.UserMessage(errors.New(task.LastError), "")))
		}
	})

	fmt.Fprintf(out.w, "Starting download from %s...\n", p)
	batchID, _, err := svc.AddBatch(urls, outputDir, p, playlist)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", ytdl.UserMessage(err, ""))
		return exitError
	}

	aborted := false
	if err := svc.Wait(ctx, batchID); err != nil {
		aborted = true
		svc.StopBatch(batchID)
		// the stopped tasks still have to release their yt-dlp processes
		_ = svc.Wait(context.Background(), batchID)
	}

	sum := svc.Summarize(batchID)
	switch {
	case aborted:
		out.Line("Aborted.")
		return exitAborted
	case sum.Failed > 0:
		out.Line(fmt.Sprintf("Download finished: %d of %d failed", sum.Failed, sum.Total))
		return exitError
	default:
		out.Line("Download complete!")
		return exitOK
	}
}

// printer writes progress as one rewritten line on terminals and as plain
// lines everywhere else
type printer struct {
	mu       sync.Mutex
	w        io.Writer
	terminal bool
	width    int
	pending  bool
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.terminal = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			p.width = width
		}
	}
	return p
}

// Progress shows a transient status line
func (p *printer) Progress(title, line string) {
	if title != "" {
		line = title + ": " + line
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.terminal {
		fmt.Fprintln(p.w, line)
		return
	}
	line = truncate(line, p.width-1)
	fmt.Fprintf(p.w, "\r%s\033[K", line)
	p.pending = true
}

// Line prints a permanent line below any transient one
func (p *printer) Line(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending {
		fmt.Fprint(p.w, "\n")
		p.pending = false
	}
	fmt.Fprintln(p.w, line)
}

// truncate shortens s to at most width runes. A non-positive width keeps s.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return strings.TrimSpace(string(runes[:width-3])) + "..."
}
