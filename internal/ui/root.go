package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/video-downloader/internal/config"
	"github.com/ytget/video-downloader/internal/cookies"
	"github.com/ytget/video-downloader/internal/download"
	"github.com/ytget/video-downloader/internal/extract"
	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
	"github.com/ytget/video-downloader/internal/progress"
	"github.com/ytget/video-downloader/internal/site"
	"github.com/ytget/video-downloader/internal/thumbnail"
	"github.com/ytget/video-downloader/internal/ytdl"
)

// Previewer fetches the metadata shown before a download
type Previewer interface {
	Preview(ctx context.Context, rawURL string, p model.Platform) (*extract.Preview, error)
	Invalidate()
}

// ThumbnailFetcher downloads preview images
type ThumbnailFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// CookieExporter writes cookies.txt from an installed browser
type CookieExporter interface {
	ExportFromBrowser(ctx context.Context, browser string, p model.Platform, dest string) (*cookies.Jar, error)
}

// Services are the collaborators of the main window
type Services struct {
	Downloader download.Downloader
	Previewer  Previewer
	Thumbnails ThumbnailFetcher
	Exporter   CookieExporter // optional
	Cookies    *cookies.Locator
	Settings   *config.Settings
	AppDir     string // folder named in the cookies.txt hint
	Logger     *zap.Logger
}

// RootUI represents the main UI structure
type RootUI struct {
	window        fyne.Window
	app           fyne.App
	downloadSvc   download.Downloader
	previewer     Previewer
	thumbnails    ThumbnailFetcher
	exporter      CookieExporter
	cookieLocator *cookies.Locator
	settings      *config.Settings
	localization  *Localization
	logger        *zap.Logger
	appDir        string
	throttle      *progress.Throttle

	// Widgets
	urlLabel       *widget.Label
	urlEntry       *widget.Entry
	previewBtn     *widget.Button
	platformLabel  *widget.Label
	platformSelect *widget.Select
	outputLabel    *widget.Label
	outputEntry    *widget.Entry
	browseBtn      *widget.Button
	titleLabel     *widget.Label
	thumbImage     *canvas.Image
	thumbMissing   *widget.Label
	loading        *loadingIndicator
	selectAllCheck *widget.Check
	entryList      *EntryList
	downloadBtn    *widget.Button
	stopBtn        *widget.Button
	progressBar    *widget.ProgressBar
	statusLog      *StatusLog
	footer         *canvas.Text

	// State below is only touched on the Fyne goroutine
	preview       *extract.Preview
	previewCancel context.CancelFunc
	previewSeq    int
	batchID       string
	downloading   bool
	lastCompleted *model.DownloadTask
	notified      map[string]bool
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, svc Services) *RootUI {
	logger := svc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := svc.Settings
	if settings == nil {
		settings = config.NewSettings(app)
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:        window,
		app:           app,
		downloadSvc:   svc.Downloader,
		previewer:     svc.Previewer,
		thumbnails:    svc.Thumbnails,
		exporter:      svc.Exporter,
		cookieLocator: svc.Cookies,
		settings:      settings,
		localization:  localization,
		logger:        logger,
		appDir:        svc.AppDir,
		throttle:      progress.NewThrottle(progress.DefaultStep),
		notified:      make(map[string]bool),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)
	ui.downloadSvc.SetProgressCallback(ui.onProgress)

	ui.setupUI()
	logger.Debug("main window ready")
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()
	bold := fyne.TextStyle{Bold: true}

	// Video URL row
	ui.urlLabel = widget.NewLabelWithStyle(ui.localization.GetText(KeyURLLabel), fyne.TextAlignLeading, bold)
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) { ui.onPreviewClick() }
	ui.previewBtn = widget.NewButton(ui.localization.GetText(KeyPreview), ui.onPreviewClick)
	ui.previewBtn.Importance = widget.HighImportance
	urlRow := container.NewBorder(nil, nil, ui.labelColumn(ui.urlLabel), ui.previewBtn, ui.urlEntry)

	// Platform row
	ui.platformLabel = widget.NewLabelWithStyle(ui.localization.GetText(KeyPlatformLabel), fyne.TextAlignLeading, bold)
	ui.platformSelect = widget.NewSelect(model.PlatformNames(), ui.onPlatformChanged)
	platformRow := container.NewBorder(nil, nil, ui.labelColumn(ui.platformLabel), nil, ui.platformSelect)

	// Output folder row
	ui.outputLabel = widget.NewLabelWithStyle(ui.localization.GetText(KeyOutputLabel), fyne.TextAlignLeading, bold)
	ui.outputEntry = widget.NewEntry()
	ui.outputEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.browseBtn = widget.NewButton(ui.localization.GetText(KeyBrowse), ui.onBrowseOutput)
	outputRow := container.NewBorder(nil, nil, ui.labelColumn(ui.outputLabel), ui.browseBtn, ui.outputEntry)

	// Preview area
	ui.titleLabel = widget.NewLabelWithStyle(ui.localization.GetText(KeyTitleNotLoaded), fyne.TextAlignLeading, bold)
	ui.titleLabel.Truncation = fyne.TextTruncateEllipsis

	ui.thumbImage = canvas.NewImageFromImage(nil)
	ui.thumbImage.FillMode = canvas.ImageFillContain
	ui.thumbImage.SetMinSize(fyne.NewSize(thumbnail.Width, thumbnail.Height))
	ui.thumbMissing = widget.NewLabel(ui.localization.GetText(KeyThumbnailMissing))
	ui.thumbMissing.Hide()
	frame := canvas.NewRectangle(color.White)
	frame.StrokeColor = colorBorder
	frame.StrokeWidth = 1
	frame.CornerRadius = 5
	thumbBox := container.NewStack(frame, ui.thumbImage, container.NewCenter(ui.thumbMissing))

	ui.loading = newLoadingIndicator(func() string {
		return ui.localization.GetText(KeyLoading)
	}, LoadingInterval)

	ui.selectAllCheck = widget.NewCheck(ui.localization.GetText(KeySelectAll), func(checked bool) {
		ui.entryList.SelectAll(checked)
	})
	ui.entryList = NewEntryList(ui.localization)
	ui.entryList.SetCallbacks(ui.onStopTask, ui.onRetryTask, ui.onRevealFile)

	// Download controls
	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownloadSelected), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.SuccessImportance
	ui.downloadBtn.Disable()
	ui.stopBtn = widget.NewButton(ui.localization.GetText(KeyStop), ui.onStopClick)
	ui.stopBtn.Disable()
	downloadRow := container.NewBorder(nil, nil, nil, ui.stopBtn, ui.downloadBtn)

	ui.progressBar = widget.NewProgressBar()
	ui.statusLog = NewStatusLog(StatusLogMaxLines)

	ui.footer = canvas.NewText(ui.localization.GetText(KeyFooter), colorFooter)
	ui.footer.Alignment = fyne.TextAlignCenter
	ui.footer.TextSize = 10

	top := container.NewVBox(
		urlRow,
		platformRow,
		outputRow,
		ui.titleLabel,
		container.NewHBox(thumbBox),
		ui.loading.label,
		ui.selectAllCheck,
	)
	bottom := container.NewVBox(
		downloadRow,
		ui.progressBar,
		ui.statusLog.CanvasObject(),
		ui.footer,
	)

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, ui.entryList.Container()))

	// Triggers onPlatformChanged, which applies playlist visibility
	ui.platformSelect.SetSelected(ui.settings.GetPlatform().String())
}

func (ui *RootUI) labelColumn(label *widget.Label) fyne.CanvasObject {
	return container.NewGridWrap(fyne.NewSize(LabelColumnWidth, label.MinSize().Height), label)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	cookiesMenu := fyne.NewMenu(ui.localization.GetText(KeyCookies),
		fyne.NewMenuItem(ui.localization.GetText(KeyCheckCookies), ui.onCheckCookies),
	)
	if ui.exporter != nil {
		cookiesMenu.Items = append(cookiesMenu.Items,
			fyne.NewMenuItem(ui.localization.GetText(KeyExportCookies), ui.onExportCookies))
	}

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	available := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		langItem := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(code)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		cookiesMenu,
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.urlLabel.SetText(ui.localization.GetText(KeyURLLabel))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.previewBtn.SetText(ui.localization.GetText(KeyPreview))
	ui.platformLabel.SetText(ui.localization.GetText(KeyPlatformLabel))
	ui.outputLabel.SetText(ui.localization.GetText(KeyOutputLabel))
	ui.browseBtn.SetText(ui.localization.GetText(KeyBrowse))
	ui.titleLabel.SetText(ui.titleText())
	ui.thumbMissing.SetText(ui.localization.GetText(KeyThumbnailMissing))
	ui.selectAllCheck.Text = ui.localization.GetText(KeySelectAll)
	ui.selectAllCheck.Refresh()
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownloadSelected))
	ui.stopBtn.SetText(ui.localization.GetText(KeyStop))
	ui.footer.Text = ui.localization.GetText(KeyFooter)
	ui.footer.Refresh()
	ui.entryList.list.Refresh()
}

// titleText renders the title label for the current preview state
func (ui *RootUI) titleText() string {
	switch {
	case ui.loading.Running():
		return ui.localization.GetText(KeyTitleLoading)
	case ui.preview == nil:
		return ui.localization.GetText(KeyTitleNotLoaded)
	case ui.showsPlaylist():
		return fmt.Sprintf(ui.localization.GetText(KeyPlaylistTitle), ui.preview.Title())
	default:
		return fmt.Sprintf(ui.localization.GetText(KeyVideoTitle), ui.preview.Title())
	}
}

// showsPlaylist reports whether the current preview offers entry selection
func (ui *RootUI) showsPlaylist() bool {
	return ui.preview.IsPlaylist() && site.SupportsPlaylists(ui.preview.Platform)
}

func (ui *RootUI) selectedPlatform() model.Platform {
	if ui.platformSelect.Selected == "" {
		return config.DefaultPlatform
	}
	return model.Platform(ui.platformSelect.Selected)
}

// onPlatformChanged shows the playlist controls only where playlists are supported
func (ui *RootUI) onPlatformChanged(name string) {
	p := model.Platform(name)
	ui.settings.SetPlatform(p)
	if site.SupportsPlaylists(p) {
		ui.selectAllCheck.Show()
		ui.entryList.Container().Show()
	} else {
		ui.selectAllCheck.Hide()
		ui.entryList.Container().Hide()
	}
}

// onBrowseOutput picks the output folder and remembers it
func (ui *RootUI) onBrowseOutput() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.setOutputDir(uri.Path())
	}, ui.window)
}

func (ui *RootUI) setOutputDir(dir string) {
	ui.outputEntry.SetText(dir)
	ui.settings.SetDownloadDirectory(dir)
	ui.downloadSvc.SetDownloadDirectory(dir)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.onSettingsSaved)
}

// onSettingsSaved applies saved settings to the running services
func (ui *RootUI) onSettingsSaved() {
	ui.downloadSvc.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
	ui.setOutputDir(ui.settings.GetDownloadDirectory())
	ui.previewer.Invalidate()

	lang := ui.settings.GetLanguage()
	ui.localization.SetLanguage(lang)
	ui.refreshUITexts()
	ui.createMenu()
}

// validateInput cleans the URL and checks it belongs to the platform
func (ui *RootUI) validateInput(raw string, p model.Platform) (string, error) {
	url := site.CleanURL(raw)
	if url == "" {
		return "", ytdl.ErrEmptyURL
	}
	if !site.IsValidURLForPlatform(url, p) {
		return "", ytdl.ErrPlatformMismatch
	}
	return url, nil
}

// reportError writes the user-facing text of err to the status log
func (ui *RootUI) reportError(err error) {
	if !ytdl.IsInputError(err) {
		ui.logger.Warn("operation failed", zap.Error(err))
	}
	msg := ytdl.UserMessage(err, ui.appDir)
	if errors.Is(err, download.ErrDuplicateTask) {
		msg = err.Error()
	}
	ui.statusLog.Error(msg)
}

// clearPreview resets the preview area
func (ui *RootUI) clearPreview() {
	ui.preview = nil
	ui.entryList.Clear()
	ui.selectAllCheck.SetChecked(false)
	ui.thumbImage.Image = nil
	ui.thumbImage.Refresh()
	ui.thumbMissing.Hide()
	ui.downloadBtn.Disable()
	ui.titleLabel.SetText(ui.localization.GetText(KeyTitleNotLoaded))
}

// onPreviewClick validates the URL and fetches its metadata in the background
func (ui *RootUI) onPreviewClick() {
	p := ui.selectedPlatform()
	url, err := ui.validateInput(ui.urlEntry.Text, p)
	if err != nil {
		ui.reportError(err)
		return
	}

	if ui.previewCancel != nil {
		ui.previewCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ui.previewCancel = cancel
	ui.previewSeq++
	seq := ui.previewSeq

	ui.clearPreview()
	ui.loading.Start()
	ui.titleLabel.SetText(ui.localization.GetText(KeyTitleLoading))
	ui.statusLog.Append(fmt.Sprintf(ui.localization.GetText(KeyFetchingInfo), p))
	ui.logger.Info("preview requested", zap.String("url", url), zap.String("platform", p.String()))

	go ui.runPreview(ctx, seq, url, p)
}

func (ui *RootUI) runPreview(ctx context.Context, seq int, url string, p model.Platform) {
	preview, err := ui.previewer.Preview(ctx, url, p)
	var img image.Image
	var thumbErr error
	if err == nil {
		img, thumbErr = ui.loadThumbnail(ctx, preview)
	}

	fyne.Do(func() {
		if seq != ui.previewSeq {
			return
		}
		ui.previewCancel = nil
		ui.loading.Stop()
		if err != nil {
			ui.titleLabel.SetText(ui.localization.GetText(KeyTitleNotLoaded))
			ui.downloadBtn.Disable()
			if !errors.Is(err, context.Canceled) {
				ui.reportError(err)
			}
			return
		}
		ui.showPreview(preview, img, thumbErr)
	})
}

// loadThumbnail fetches the preview image, already scaled to the preview box
func (ui *RootUI) loadThumbnail(ctx context.Context, preview *extract.Preview) (image.Image, error) {
	url := thumbnail.ForPreview(preview.Info)
	if url == "" && preview.IsPlaylist() && len(preview.Playlist.Videos) > 0 {
		url = preview.Playlist.Videos[0].Thumbnail
	}
	if url == "" || ui.thumbnails == nil {
		return nil, thumbnail.ErrNoURL
	}
	return ui.thumbnails.Fetch(ctx, url)
}

// showPreview fills the preview area from a finished extraction
func (ui *RootUI) showPreview(preview *extract.Preview, img image.Image, thumbErr error) {
	ui.preview = preview

	switch {
	case ui.showsPlaylist():
		ui.entryList.SetPlaylist(preview.Playlist)
		ui.statusLog.Append(fmt.Sprintf(ui.localization.GetText(KeyFoundVideos), len(preview.Playlist.Videos)))
	case site.SupportsPlaylists(preview.Platform):
		ui.entryList.SetPlaylist(singleEntry(preview))
	default:
		ui.entryList.Clear()
	}
	ui.titleLabel.SetText(ui.titleText())

	if thumbErr != nil {
		if !errors.Is(thumbErr, thumbnail.ErrNoURL) {
			ui.logger.Warn("thumbnail unavailable", zap.Error(thumbErr))
			ui.statusLog.Error(ytdl.MsgGenericError)
		}
		ui.thumbImage.Image = nil
		ui.thumbMissing.Show()
	} else {
		ui.thumbImage.Image = img
		ui.thumbMissing.Hide()
	}
	ui.thumbImage.Refresh()

	if !ui.downloading {
		ui.downloadBtn.Enable()
	}
}

// singleEntry wraps a single video as a one-entry checklist
func singleEntry(preview *extract.Preview) *model.Playlist {
	info := preview.Info
	p := &model.Playlist{
		ID:     info.ID,
		Title:  info.DisplayTitle(),
		URL:    preview.URL,
		Status: model.PlaylistStatusReady,
	}
	p.AddVideo(&model.PlaylistVideo{
		ID:        info.ID,
		Title:     info.DisplayTitle(),
		Duration:  info.DurationString(),
		URL:       preview.URL,
		Thumbnail: thumbnail.Best(info),
		Selected:  true,
		Status:    model.VideoStatusPending,
		UpdatedAt: time.Now(),
	})
	return p
}

// downloadURLs returns the URLs to download and whether they come from a
// playlist selection
func (ui *RootUI) downloadURLs(url string, p model.Platform) ([]string, bool, error) {
	if ui.preview == nil || !ui.showsPlaylist() || ui.preview.Platform != p || ui.preview.URL != url {
		return []string{url}, false, nil
	}
	selected := ui.entryList.SelectedURLs()
	if len(selected) == 0 {
		return nil, true, ytdl.ErrNothingSelected
	}
	return selected, true, nil
}

// onDownloadClick starts a batch for the current URL or playlist selection
func (ui *RootUI) onDownloadClick() {
	p := ui.selectedPlatform()
	url, err := ui.validateInput(ui.urlEntry.Text, p)
	if err != nil {
		ui.reportError(err)
		return
	}

	outputDir := strings.TrimSpace(ui.outputEntry.Text)
	if outputDir == "" {
		outputDir = platform.DefaultDownloadDir()
	}
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		ui.logger.Error("failed to create output folder", zap.String("dir", outputDir), zap.Error(err))
		ui.statusLog.Error(ui.localization.GetText(KeyOutputDirUnavailable) + ": " + outputDir)
		return
	}
	ui.setOutputDir(outputDir)

	urls, playlist, err := ui.downloadURLs(url, p)
	if err != nil {
		ui.reportError(err)
		return
	}

	ui.progressBar.SetValue(0)
	ui.throttle.Reset()
	ui.lastCompleted = nil
	ui.statusLog.Append(fmt.Sprintf(ui.localization.GetText(KeyStartingDownload), p))

	batchID, tasks, err := ui.downloadSvc.AddBatch(urls, outputDir, p, playlist)
	if err != nil {
		ui.reportError(err)
		return
	}
	ui.batchID = batchID
	for _, task := range tasks {
		ui.entryList.UpdateTask(task)
	}
	ui.logger.Info("download batch started",
		zap.String("batch", batchID),
		zap.Int("tasks", len(tasks)),
		zap.String("platform", p.String()),
	)
	ui.trackBatch(batchID)
}

// trackBatch disables the download button until every task of the batch
// has finished
func (ui *RootUI) trackBatch(batchID string) {
	ui.setDownloading(true)
	go func() {
		err := ui.downloadSvc.Wait(context.Background(), batchID)
		fyne.Do(func() {
			ui.onBatchFinished(batchID, err)
		})
	}()
}

func (ui *RootUI) setDownloading(active bool) {
	ui.downloading = active
	if active {
		ui.downloadBtn.Disable()
		ui.stopBtn.Enable()
		return
	}
	ui.stopBtn.Disable()
	if ui.preview != nil {
		ui.downloadBtn.Enable()
	}
}

// onBatchFinished reports the outcome of a batch
func (ui *RootUI) onBatchFinished(batchID string, err error) {
	if batchID != ui.batchID {
		return
	}
	ui.setDownloading(false)
	if err != nil {
		ui.reportError(err)
		return
	}

	sum := ui.downloadSvc.Summarize(batchID)
	ui.logger.Info("download batch finished",
		zap.String("batch", batchID),
		zap.Int("completed", sum.Completed),
		zap.Int("failed", sum.Failed),
		zap.Int("stopped", sum.Stopped),
	)
	switch {
	case sum.Failed > 0:
		ui.progressBar.SetValue(ui.downloadSvc.BatchProgress(batchID))
		ui.statusLog.Error(fmt.Sprintf(ui.localization.GetText(KeyDownloadPartial), sum.Failed, sum.Total))
	case sum.Completed == 0 && sum.Stopped > 0:
		ui.statusLog.Append(ui.localization.GetText(KeyDownloadStopped))
	default:
		ui.progressBar.SetValue(1)
		ui.statusLog.Append(ui.localization.GetText(KeyDownloadComplete))
	}

	if sum.Completed > 0 && ui.lastCompleted != nil {
		ui.sendCompletionNotification(ui.lastCompleted, sum)
	}
}

// onStopClick stops every unfinished task of the current batch
func (ui *RootUI) onStopClick() {
	if ui.batchID == "" {
		return
	}
	if n := ui.downloadSvc.StopBatch(ui.batchID); n > 0 {
		ui.statusLog.Append(ui.localization.GetText(KeyStoppingDownload))
	}
}

func (ui *RootUI) onStopTask(taskID string) {
	if err := ui.downloadSvc.StopTask(taskID); err != nil {
		ui.logger.Warn("failed to stop task", zap.String("task", taskID), zap.Error(err))
		ui.statusLog.Error(err.Error())
	}
}

func (ui *RootUI) onRetryTask(taskID string) {
	ui.throttle.Forget(taskID)
	if err := ui.downloadSvc.RestartTask(taskID); err != nil {
		ui.logger.Warn("failed to restart task", zap.String("task", taskID), zap.Error(err))
		ui.statusLog.Error(err.Error())
		return
	}
	task, ok := ui.downloadSvc.GetTask(taskID)
	if !ok {
		return
	}
	delete(ui.notified, taskID)
	ui.batchID = task.BatchID
	if !ui.downloading {
		ui.trackBatch(task.BatchID)
	}
}

// onProgress logs throttled progress lines of the current batch
func (ui *RootUI) onProgress(ev model.ProgressEvent) {
	if !ui.throttle.Allow(ev) {
		return
	}
	fyne.Do(func() {
		if ev.BatchID != ui.batchID {
			return
		}
		ui.statusLog.Append(progress.Line(ev))
		ui.progressBar.SetValue(ui.downloadSvc.BatchProgress(ev.BatchID))
	})
}

// onTaskUpdate handles task updates from the download service
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	fyne.Do(func() {
		ui.entryList.UpdateTask(task)
		if task.BatchID != ui.batchID {
			return
		}

		switch task.Status {
		case model.TaskStatusError:
			if !ui.notified[task.ID] {
				ui.notified[task.ID] = true
				ui.statusLog.Error(ytdl.UserMessage(errors.New(task.LastError), ui.appDir))
			}
		case model.TaskStatusCompleted:
			if !ui.notified[task.ID] {
				ui.notified[task.ID] = true
				ui.onTaskCompleted(task)
			}
		}
		ui.progressBar.SetValue(ui.downloadSvc.BatchProgress(task.BatchID))
	})
}

// onTaskCompleted resolves the final file and reveals it when enabled
func (ui *RootUI) onTaskCompleted(task *model.DownloadTask) {
	if task.OutputPath != "" {
		if resolved, err := platform.FindDownloadedFile(task.OutputPath); err == nil {
			task.OutputPath = resolved
		}
	}
	ui.lastCompleted = task
	ui.logger.Info("task completed", zap.String("task", task.ID), zap.String("path", task.OutputPath))

	if ui.settings.GetAutoRevealOnComplete() && task.OutputPath != "" {
		ui.onRevealFile(task.OutputPath)
	}
}

// onRevealFile handles revealing a file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if filePath == "" {
		ui.statusLog.Error(ui.localization.GetText(KeyFilePathUnavailable))
		return
	}
	if err := platform.OpenFileInManager(filePath); err != nil {
		ui.logger.Warn("failed to reveal file", zap.String("path", filePath), zap.Error(err))
		ui.statusLog.Error(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// onOpenFile handles opening a downloaded file with the default application
func (ui *RootUI) onOpenFile(filePath string) {
	if filePath == "" {
		ui.statusLog.Error(ui.localization.GetText(KeyFilePathUnavailable))
		return
	}
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		ui.logger.Warn("failed to open file", zap.String("path", filePath), zap.Error(err))
		ui.statusLog.Error(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// sendCompletionNotification sends a system notification for a finished batch
func (ui *RootUI) sendCompletionNotification(task *model.DownloadTask, sum download.Summary) {
	title := ui.localization.GetText(KeyDownloadCompleted)
	message := task.GetDisplayTitle()
	if sum.Completed > 1 {
		message = fmt.Sprintf("%s (+%d)", message, sum.Completed-1)
	}

	ui.app.SendNotification(fyne.NewNotification(title, message))
	ui.showToastNotification(task, message)
}

// showToastNotification shows an in-app toast with reveal and open actions
func (ui *RootUI) showToastNotification(task *model.DownloadTask, message string) {
	titleLabel := widget.NewLabel(ui.localization.GetText(KeyDownloadCompleted))
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	messageLabel := widget.NewLabel(message)
	messageLabel.Truncation = fyne.TextTruncateEllipsis

	path := task.OutputPath
	revealBtn := widget.NewButton(ui.localization.GetText(KeyReveal), func() { ui.onRevealFile(path) })
	revealBtn.Importance = widget.HighImportance
	openBtn := widget.NewButton(ui.localization.GetText(KeyOpen), func() { ui.onOpenFile(path) })

	var toast *widget.PopUp
	closeBtn := widget.NewButton(IconClose, func() {
		if toast != nil {
			toast.Hide()
		}
	})
	closeBtn.Importance = widget.LowImportance

	content := container.NewVBox(
		container.NewBorder(nil, nil, titleLabel, closeBtn),
		messageLabel,
		container.NewHBox(revealBtn, openBtn),
	)

	toast = widget.NewPopUp(content, ui.window.Canvas())
	canvasSize := ui.window.Canvas().Size()
	toastSize := fyne.NewSize(ToastWidth, ToastHeight)
	toast.Resize(toastSize)
	toast.ShowAtPosition(fyne.NewPos(canvasSize.Width-toastSize.Width-ToastMargin, ToastMargin))

	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(toast.Hide)
	})
}
