package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/video-downloader/internal/platform"
)

// Environment overrides applied after the config file
const (
	EnvCookies = "VDL_COOKIES"
	EnvOutput  = "VDL_OUTPUT"
	EnvYtDlp   = "VDL_YTDLP"
)

// DefaultPreviewTimeout bounds metadata extraction
const DefaultPreviewTimeout = 60 * time.Second

// FileConfig is the optional YAML configuration of the command line tool
type FileConfig struct {
	YtDLP       YtDLPConfig `yaml:"ytdlp"`
	FFmpegPath  string      `yaml:"ffmpeg_path"`
	CookiesFile string      `yaml:"cookies_file"`
	OutputDir   string      `yaml:"output_dir"`
	MaxParallel int         `yaml:"max_parallel"`
	Log         LogConfig   `yaml:"log"`
}

// YtDLPConfig configures the yt-dlp executable
type YtDLPConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	Timeout     int    `yaml:"timeout"` // seconds, preview only
	AutoInstall *bool  `yaml:"auto_install"`
}

// LogConfig configures the log sink
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// PreviewTimeout returns the configured timeout or the default
func (c *YtDLPConfig) PreviewTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultPreviewTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}

// InstallAllowed reports whether missing tools may be downloaded
func (c *YtDLPConfig) InstallAllowed() bool {
	return c.AutoInstall == nil || *c.AutoInstall
}

// LoadFile reads the YAML config at path. An empty path yields defaults.
// Environment overrides are applied after the file, defaults last.
func LoadFile(path string) (*FileConfig, error) {
	var cfg FileConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cookies := os.Getenv(EnvCookies); cookies != "" {
		cfg.CookiesFile = cookies
	}
	if output := os.Getenv(EnvOutput); output != "" {
		cfg.OutputDir = output
	}
	if binary := os.Getenv(EnvYtDlp); binary != "" {
		cfg.YtDLP.BinaryPath = binary
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FileConfig) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = platform.DefaultDownloadDir()
	}
	if c.MaxParallel == 0 {
		c.MaxParallel = DefaultMaxParallel
	}
}

// Validate rejects out of range values
func (c *FileConfig) Validate() error {
	var errs []error
	if c.MaxParallel < MinMaxParallel || c.MaxParallel > MaxMaxParallel {
		errs = append(errs, fmt.Errorf("max_parallel must be between %d and %d, got %d", MinMaxParallel, MaxMaxParallel, c.MaxParallel))
	}
	if c.YtDLP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("ytdlp.timeout must not be negative, got %d", c.YtDLP.Timeout))
	}
	return errors.Join(errs...)
}
