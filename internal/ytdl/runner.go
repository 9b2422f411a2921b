package ytdl

import (
	"context"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// DefaultProgressInterval is how often go-ytdlp reports progress
const DefaultProgressInterval = 500 * time.Millisecond

// Request describes one yt-dlp invocation
type Request struct {
	URL string

	// Metadata mode: --dump-single-json --flat-playlist --skip-download
	DumpJSON bool

	// Download options
	Format            string
	MergeOutputFormat string
	OutputTemplate    string
	NoPlaylist        bool
	FFmpegLocation    string

	// Authentication
	CookieFile         string
	CookiesFromBrowser string
	SkipDownload       bool

	OnProgress func(Progress)
}

// Progress is a runner-neutral progress update
type Progress struct {
	Status          string // "downloading", "finished", ...
	DownloadedBytes int
	TotalBytes      int
	Started         time.Time
	ETA             time.Duration
	Filename        string
	Title           string
}

// Percent returns download completion in 0..100, or -1 if the total is unknown
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return -1
	}
	percent := float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

// BytesPerSecond returns the average rate since Started, or 0 if unknown
func (p Progress) BytesPerSecond() float64 {
	if p.Started.IsZero() {
		return 0
	}
	elapsed := time.Since(p.Started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(p.DownloadedBytes) / elapsed
}

// Result is the outcome of a yt-dlp invocation
type Result struct {
	Stdout   string
	Stderr   string
	Filename string // final output file when known
}

// Runner executes yt-dlp
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// CommandRunner runs the real yt-dlp executable through go-ytdlp
type CommandRunner struct {
	executable string
	logger     *zap.Logger
}

// NewCommandRunner creates a runner. An empty executable lets go-ytdlp
// resolve yt-dlp from its cache directory or PATH.
func NewCommandRunner(executable string, logger *zap.Logger) *CommandRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRunner{executable: executable, logger: logger}
}

// Executable returns the configured yt-dlp path, empty when resolved by go-ytdlp
func (r *CommandRunner) Executable() string {
	return r.executable
}

// Run builds the yt-dlp command for req and executes it
func (r *CommandRunner) Run(ctx context.Context, req Request) (*Result, error) {
	dl := r.build(req)

	var lastFilename string
	if req.OnProgress != nil {
		dl.ProgressFunc(DefaultProgressInterval, func(update ytdlp.ProgressUpdate) {
			p := Progress{
				Status:          string(update.Status),
				DownloadedBytes: update.DownloadedBytes,
				TotalBytes:      update.TotalBytes,
				Started:         update.Started,
				ETA:             update.ETA(),
				Filename:        update.Filename,
			}
			if update.Info != nil && update.Info.Title != nil {
				p.Title = *update.Info.Title
			}
			if p.Filename != "" {
				lastFilename = p.Filename
			}
			req.OnProgress(p)
		})
	}

	r.logger.Debug("running yt-dlp",
		zap.String("url", req.URL),
		zap.Bool("dump_json", req.DumpJSON),
		zap.Bool("cookies", req.CookieFile != ""),
	)

	res, err := dl.Run(ctx, req.URL)

	result := &Result{Filename: lastFilename}
	if res != nil {
		result.Stdout = res.Stdout
		result.Stderr = res.Stderr
		if info, infoErr := res.GetExtractedInfo(); infoErr == nil && len(info) > 0 && info[0].Filename != nil {
			result.Filename = *info[0].Filename
		}
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// build translates a Request into go-ytdlp command options
func (r *CommandRunner) build(req Request) *ytdlp.Command {
	dl := ytdlp.New().NoWarnings()
	if r.executable != "" {
		dl.SetExecutable(r.executable)
	}

	if req.DumpJSON {
		dl.DumpSingleJSON().FlatPlaylist().SkipDownload()
	} else if req.SkipDownload {
		dl.SkipDownload()
	}

	if req.Format != "" {
		dl.Format(req.Format)
	}
	if req.MergeOutputFormat != "" {
		dl.MergeOutputFormat(req.MergeOutputFormat)
	}
	if req.OutputTemplate != "" {
		dl.Output(req.OutputTemplate)
	}
	if req.NoPlaylist {
		dl.NoPlaylist()
	}
	if req.FFmpegLocation != "" {
		dl.FFmpegLocation(req.FFmpegLocation)
	}
	if req.CookiesFromBrowser != "" {
		dl.CookiesFromBrowser(req.CookiesFromBrowser)
	}
	if req.CookieFile != "" {
		dl.Cookies(req.CookieFile)
	}
	return dl
}
