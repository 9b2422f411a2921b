package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/video-downloader/internal/cookies"
	"github.com/ytget/video-downloader/internal/model"
)

// cookieExportTimeout bounds a browser cookie export
const cookieExportTimeout = 2 * time.Minute

// cookieReport describes a cookie jar for the Check cookies.txt dialog
func (ui *RootUI) cookieReport(path string, p model.Platform, now time.Time) (string, error) {
	jar, err := cookies.ParseFile(path)
	if err != nil {
		return "", err
	}
	report := fmt.Sprintf(ui.localization.GetText(KeyCookiesSummary),
		path, jar.Len(), len(jar.Expired(now)), jar.Malformed)
	if err := jar.Validate(p, now); err != nil {
		report += "\n" + IconError + " " + err.Error()
	} else {
		report += "\n" + IconDone + " " + p.String()
	}
	return report, nil
}

// onCheckCookies shows where cookies.txt was found and what it holds
func (ui *RootUI) onCheckCookies() {
	title := ui.localization.GetText(KeyCheckCookies)
	path, ok := ui.cookieLocator.Find()
	if !ok {
		dialog.ShowInformation(title, ui.localization.GetText(KeyCookiesMissing), ui.window)
		return
	}

	report, err := ui.cookieReport(path, ui.selectedPlatform(), time.Now())
	if err != nil {
		ui.logger.Warn("failed to read cookie file", zap.String("path", path), zap.Error(err))
		dialog.ShowError(err, ui.window)
		return
	}
	dialog.ShowInformation(title, report, ui.window)
}

// cookieExportPath is where an exported jar is written: the configured
// cookie path, or cookies.txt in the application folder
func (ui *RootUI) cookieExportPath() string {
	if configured := ui.settings.GetCookiesPath(); configured != "" {
		return configured
	}
	dir := ui.appDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, cookies.FileName)
}

// onExportCookies asks for a browser and exports its cookies for the
// selected platform
func (ui *RootUI) onExportCookies() {
	if ui.exporter == nil {
		return
	}

	browserSelect := widget.NewSelect(cookies.Browsers, nil)
	browserSelect.SetSelected(cookies.Browsers[1])
	dest := ui.cookieExportPath()
	content := container.NewVBox(
		widget.NewLabel(ui.localization.GetText(KeyBrowser)+":"),
		browserSelect,
		widget.NewLabel(dest),
	)

	dialog.ShowCustomConfirm(
		ui.localization.GetText(KeyExportCookies),
		ui.localization.GetText(KeyExport),
		ui.localization.GetText(KeyCancel),
		content,
		func(confirmed bool) {
			if !confirmed || browserSelect.Selected == "" {
				return
			}
			ui.exportCookies(browserSelect.Selected, ui.selectedPlatform(), dest)
		},
		ui.window,
	)
}

func (ui *RootUI) exportCookies(browser string, p model.Platform, dest string) {
	progress := dialog.NewCustomWithoutButtons(ui.localization.GetText(KeyExportCookies),
		widget.NewProgressBarInfinite(), ui.window)
	progress.Show()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cookieExportTimeout)
		defer cancel()

		jar, err := ui.exporter.ExportFromBrowser(ctx, browser, p, dest)
		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				ui.statusLog.Error(err.Error())
				dialog.ShowError(err, ui.window)
				return
			}
			// cached previews may have failed for lack of cookies
			ui.previewer.Invalidate()
			msg := fmt.Sprintf(ui.localization.GetText(KeyCookiesExported), jar.Len(), dest)
			ui.statusLog.Append(msg)
			dialog.ShowInformation(ui.localization.GetText(KeyExportCookies), msg, ui.window)
		})
	}()
}
