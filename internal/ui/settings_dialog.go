package ui

import (
	"errors"
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/video-downloader/internal/config"
)

var errParallelRange = errors.New("value out of range")

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry *widget.Entry
	maxParallelEntry *widget.Entry
	cookiesEntry     *widget.Entry
	ffmpegEntry      *widget.Entry
	ytdlpEntry       *widget.Entry
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check
	autoInstallCheck *widget.Check

	languageCodes map[string]string // display name -> code
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values are written to the preferences.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// ShowSettingsDialog builds and shows the settings dialog
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window, onSaved)
	sd.Show()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) text(key string) string {
	return sd.localization.GetText(key)
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	downloadDirRow := container.NewBorder(nil, nil, nil,
		widget.NewButton(sd.text(KeyBrowse), func() { sd.browseFolder(sd.downloadDirEntry) }),
		sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder(strconv.Itoa(config.MinMaxParallel) + "-" + strconv.Itoa(config.MaxMaxParallel))
	sd.maxParallelEntry.Validator = validateParallel

	sd.cookiesEntry = widget.NewEntry()
	sd.cookiesEntry.SetPlaceHolder("cookies.txt")
	cookiesRow := container.NewBorder(nil, nil, nil,
		widget.NewButton(sd.text(KeyBrowse), func() { sd.browseFile(sd.cookiesEntry) }),
		sd.cookiesEntry)

	sd.ffmpegEntry = widget.NewEntry()
	sd.ffmpegEntry.SetPlaceHolder("ffmpeg")
	ffmpegRow := container.NewBorder(nil, nil, nil,
		widget.NewButton(sd.text(KeyBrowse), func() { sd.browseFile(sd.ffmpegEntry) }),
		sd.ffmpegEntry)

	sd.ytdlpEntry = widget.NewEntry()
	sd.ytdlpEntry.SetPlaceHolder("yt-dlp")
	ytdlpRow := container.NewBorder(nil, nil, nil,
		widget.NewButton(sd.text(KeyBrowse), func() { sd.browseFile(sd.ytdlpEntry) }),
		sd.ytdlpEntry)

	// Language names sorted for a stable order
	sd.languageCodes = make(map[string]string)
	var names []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		names = append(names, name)
	}
	slices.Sort(names)
	sd.languageSelect = widget.NewSelect(names, nil)

	sd.autoRevealCheck = widget.NewCheck(sd.text(KeyAutoReveal), nil)
	sd.autoInstallCheck = widget.NewCheck(sd.text(KeyAutoInstall), nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle(sd.text(KeyDownloadSettings), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),

		widget.NewLabel(sd.text(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(sd.text(KeyMaxParallel)+":"),
		sd.maxParallelEntry,

		widget.NewLabel(sd.text(KeyCookiesFile)+":"),
		cookiesRow,

		sd.autoRevealCheck,

		widget.NewSeparator(),
		widget.NewLabelWithStyle(sd.text(KeyToolSettings), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),

		widget.NewLabel(sd.text(KeyYtDlpPath)+":"),
		ytdlpRow,

		widget.NewLabel(sd.text(KeyFFmpegPath)+":"),
		ffmpegRow,

		sd.autoInstallCheck,

		widget.NewSeparator(),
		widget.NewLabelWithStyle(sd.text(KeyInterfaceSettings), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),

		widget.NewLabel(sd.text(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.text(KeySettings),
		sd.text(KeySave),
		sd.text(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.cookiesEntry.SetText(sd.settings.GetCookiesPath())
	sd.ffmpegEntry.SetText(sd.settings.GetFFmpegPath())
	sd.ytdlpEntry.SetText(sd.settings.GetYtDlpPath())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.autoInstallCheck.SetChecked(sd.settings.GetAutoInstallTools())

	options := sd.settings.GetLanguageOptions()
	if name, ok := options[sd.settings.GetLanguage()]; ok {
		sd.languageSelect.SetSelected(name)
	}
}

func (sd *SettingsDialog) browseFolder(target *widget.Entry) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		target.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) browseFile(target *widget.Entry) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		target.SetText(reader.URI().Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.text(KeySettings), sd.text(KeySettingsSaved), sd.window)
}

// apply writes the dialog fields to the preferences. Empty tool and
// cookie paths clear the override.
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if maxParallel, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelDownloads(maxParallel)
	}

	sd.settings.SetCookiesPath(sd.cookiesEntry.Text)
	sd.settings.SetFFmpegPath(sd.ffmpegEntry.Text)
	sd.settings.SetYtDlpPath(sd.ytdlpEntry.Text)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
	sd.settings.SetAutoInstallTools(sd.autoInstallCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
}

func validateParallel(text string) error {
	if text == "" {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return err
	}
	if n < config.MinMaxParallel || n > config.MaxMaxParallel {
		return errParallelRange
	}
	return nil
}
