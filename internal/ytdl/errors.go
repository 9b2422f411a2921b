package ytdl

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing messages
const (
	MsgNotFound      = "Video/Playlist not found with this URL"
	MsgCookiesHint   = ". For restricted videos, place a valid cookies.txt file in the application folder (%s). See README.txt for instructions."
	MsgGenericError  = "An Error Occurred"
	MsgInvalidURL    = "Invalid URL for selected platform"
	MsgEmptyURL      = "Error: Please enter a valid URL."
	MsgNoneSelected  = "Error: Please select at least one video."
	DefaultAppFolder = `C:\Program Files\VideoDownloader`
)

// Sentinel errors for input validation
var (
	ErrEmptyURL         = errors.New("empty URL")
	ErrPlatformMismatch = errors.New("URL does not match selected platform")
	ErrNothingSelected  = errors.New("no videos selected")
)

var notFoundKeywords = []string{
	"video unavailable", "not found", "content not available",
	"video does not exist", "playlist does not exist", "removed",
	"private video", "unavailable video", "not available",
	"sign in", "login required",
}

var authKeywords = []string{"sign in", "login required"}

// Error wraps a failed yt-dlp invocation with its captured stderr
type Error struct {
	Op     string // "preview", "download", "export cookies"
	URL    string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" && !strings.Contains(msg, stderr) {
		msg += ": " + stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a video or playlist is not found
// or requires authentication
func IsNotFound(err error) bool {
	return containsAny(err, notFoundKeywords)
}

// IsAuthRequired checks if the error indicates authentication is required
func IsAuthRequired(err error) bool {
	return containsAny(err, authKeywords)
}

// IsInputError reports validation failures raised before yt-dlp runs
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyURL) || errors.Is(err, ErrPlatformMismatch) || errors.Is(err, ErrNothingSelected)
}

// UserMessage turns an error into the text shown in the status log
func UserMessage(err error, appDir string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyURL):
		return MsgEmptyURL
	case errors.Is(err, ErrPlatformMismatch):
		return MsgInvalidURL
	case errors.Is(err, ErrNothingSelected):
		return MsgNoneSelected
	case IsNotFound(err):
		msg := MsgNotFound
		if IsAuthRequired(err) {
			if appDir == "" {
				appDir = DefaultAppFolder
			}
			msg += fmt.Sprintf(MsgCookiesHint, appDir)
		}
		return msg
	default:
		return MsgGenericError
	}
}

func containsAny(err error, keywords []string) bool {
	if err == nil {
		return false
	}
	text := classifyText(err)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// classifyText leaves the URL out so a path such as /removed/ cannot decide
// the error class
func classifyText(err error) string {
	var ytErr *Error
	if !errors.As(err, &ytErr) {
		return strings.ToLower(err.Error())
	}
	text := ytErr.Stderr
	if ytErr.Err != nil {
		text = ytErr.Err.Error() + " " + text
	}
	return strings.ToLower(text)
}
