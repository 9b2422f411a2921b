// Package tools locates the external executables the downloader drives:
// yt-dlp and ffmpeg. A copy bundled next to the application wins over the
// system one. Missing tools can be installed into the go-ytdlp cache.
package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// Executable names
const (
	FFmpegCommand = "ffmpeg"
	YtDlpCommand  = "yt-dlp"
	windowsExt    = ".exe"
)

var (
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	ErrYtDlpNotFound  = errors.New("yt-dlp not found")
)

// ExecutableName returns the platform file name for a command
func ExecutableName(command string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(command, windowsExt) {
		return command + windowsExt
	}
	return command
}

// Finder resolves tool paths
type Finder struct {
	// ExeDir is the application folder; empty disables bundled lookups
	ExeDir   string
	LookPath func(string) (string, error)
	Logger   *zap.Logger

	installYtDlp  func(ctx context.Context) (string, error)
	installFFmpeg func(ctx context.Context) (string, error)
}

// NewFinder creates a finder for the running executable's folder
func NewFinder(exeDir string, logger *zap.Logger) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{
		ExeDir:        exeDir,
		LookPath:      exec.LookPath,
		Logger:        logger,
		installYtDlp:  installYtDlp,
		installFFmpeg: installFFmpeg,
	}
}

// FindFFmpeg looks next to the executable, then at the configured path,
// then on PATH
func (f *Finder) FindFFmpeg(configured string) (string, bool) {
	return f.find(FFmpegCommand, f.bundled(FFmpegCommand), configured)
}

// FindYtDlp looks at the configured path, then next to the executable,
// then on PATH
func (f *Finder) FindYtDlp(configured string) (string, bool) {
	return f.find(YtDlpCommand, configured, f.bundled(YtDlpCommand))
}

// EnsureYtDlp returns a usable yt-dlp, installing a managed copy when
// allowed and none is found
func (f *Finder) EnsureYtDlp(ctx context.Context, configured string, autoInstall bool) (string, error) {
	if path, ok := f.FindYtDlp(configured); ok {
		return path, nil
	}
	if !autoInstall {
		return "", ErrYtDlpNotFound
	}
	f.Logger.Info("installing yt-dlp")
	path, err := f.installYtDlp(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	f.Logger.Info("yt-dlp installed", zap.String("path", path))
	return path, nil
}

// EnsureFFmpeg returns a usable ffmpeg, installing a managed copy when
// allowed and none is found
func (f *Finder) EnsureFFmpeg(ctx context.Context, configured string, autoInstall bool) (string, error) {
	if path, ok := f.FindFFmpeg(configured); ok {
		return path, nil
	}
	if !autoInstall {
		return "", ErrFFmpegNotFound
	}
	f.Logger.Info("installing ffmpeg")
	path, err := f.installFFmpeg(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to install ffmpeg: %w", err)
	}
	f.Logger.Info("ffmpeg installed", zap.String("path", path))
	return path, nil
}

// Version runs "<path> <flag>" and returns the first output line
func Version(ctx context.Context, path, flag string) (string, error) {
	out, err := exec.CommandContext(ctx, path, flag).Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s %s: %w", filepath.Base(path), flag, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

func (f *Finder) bundled(command string) string {
	if f.ExeDir == "" {
		return ""
	}
	return filepath.Join(f.ExeDir, ExecutableName(command))
}

// find checks explicit candidates in order before falling back to PATH
func (f *Finder) find(command string, candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if isExecutableFile(candidate) {
			f.Logger.Debug("tool found", zap.String("tool", command), zap.String("path", candidate))
			return candidate, true
		}
	}
	if f.LookPath == nil {
		return "", false
	}
	path, err := f.LookPath(ExecutableName(command))
	if err != nil {
		return "", false
	}
	f.Logger.Debug("tool found on PATH", zap.String("tool", command), zap.String("path", path))
	return path, true
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}

func installYtDlp(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}

// installFFmpeg wraps the panicking go-ytdlp installer. The installed binary
// lives in the go-ytdlp cache, which yt-dlp invocations pick up on their own,
// so the returned path may be empty.
func installFFmpeg(ctx context.Context) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	ytdlp.MustInstallFFmpeg(ctx, nil)
	if p, lookErr := exec.LookPath(ExecutableName(FFmpegCommand)); lookErr == nil {
		path = p
	}
	return path, nil
}
