package ui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
)

const (
	AppIcon = "video-downloader.png"
)

// LoadLogoResource loads the window icon, looking next to the executable
// first and then in the working directory
func LoadLogoResource(appDir string) (fyne.Resource, error) {
	if appDir != "" {
		if res, err := fyne.LoadResourceFromPath(filepath.Join(appDir, AppIcon)); err == nil {
			return res, nil
		}
	}
	return fyne.LoadResourceFromPath(AppIcon)
}
