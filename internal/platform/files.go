package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// DownloadsFolder is created in the working directory by default
const DownloadsFolder = "downloads"

// LinuxFileManagers are tried when xdg-open is missing
var LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}

// Extensions yt-dlp leaves behind while a download is incomplete
var partialExtensions = []string{".part", ".ytdl", ".temp"}

// Containers a merged download may end up in
var mediaExtensions = []string{".webm", ".mp4", ".mkv", ".m4a", ".mp3", ".opus"}

// AppDir returns the folder holding the running executable. Bundled ffmpeg,
// yt-dlp and cookies.txt are looked up there.
func AppDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// WorkDir returns the current working directory or "." on failure
func WorkDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// DefaultDownloadDir returns <cwd>/downloads
func DefaultDownloadDir() string {
	return filepath.Join(WorkDir(), DownloadsFolder)
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	absPath, err := resolveExisting(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openDirLinux(filepath.Dir(absPath))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenFolder opens a directory in the system file manager
func OpenFolder(dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("folder does not exist: %s", dir)
	}
	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, dir).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, dir).Run()
	case OSLinux:
		return openDirLinux(dir)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := resolveExisting(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openDirLinux opens a directory. File selection is not standardized on
// Linux, so callers pass the parent directory.
func openDirLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}
	return fmt.Errorf("no suitable file manager found")
}

func resolveExisting(filePath string) (string, error) {
	found, err := FindDownloadedFile(filePath)
	if err != nil {
		return "", fmt.Errorf("file does not exist: %w", err)
	}
	absPath, err := filepath.Abs(found)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// FindDownloadedFile returns filePath if it exists. Otherwise it looks for
// the file yt-dlp produced from it: the merged container replacing a
// per-format name such as "Title.f137.mp4", or the same title with another
// media extension.
func FindDownloadedFile(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if strings.HasPrefix(filePath, "http") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	title := mediaTitle(filepath.Base(filePath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || isPartial(entry.Name()) {
			continue
		}
		if !slices.Contains(mediaExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		if mediaTitle(entry.Name()) == title {
			candidates = append(candidates, filepath.Join(dir, entry.Name()))
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s", filePath)
	}

	// prefer the merged file, which carries no format suffix
	slices.SortFunc(candidates, func(a, b string) int {
		return len(a) - len(b)
	})
	return candidates[0], nil
}

// mediaTitle strips the extension and a yt-dlp format suffix like ".f137"
func mediaTitle(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if ext := filepath.Ext(name); len(ext) > 2 && ext[1] == 'f' && isDigits(ext[2:]) {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.TrimSpace(name)
}

func isPartial(name string) bool {
	for _, ext := range partialExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
