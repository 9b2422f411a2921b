package cookies

import (
	"os"
	"path/filepath"
)

// Locate returns the first existing cookie file. Each candidate may be a
// cookies.txt path or a directory expected to contain one. Empty candidates
// are skipped.
func Locate(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		path := candidate
		if info.IsDir() {
			path = filepath.Join(candidate, FileName)
			info, err = os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
		}
		return path, true
	}
	return "", false
}

// Locator finds cookies.txt using a configured path, the application folder
// and the working directory, in that order
type Locator struct {
	Configured func() string // may be nil
	AppDir     string
	WorkDir    string
}

// Find returns the cookie file path, if any
func (l *Locator) Find() (string, bool) {
	if l == nil {
		return "", false
	}
	configured := ""
	if l.Configured != nil {
		configured = l.Configured()
	}
	return Locate(configured, l.AppDir, l.WorkDir)
}
