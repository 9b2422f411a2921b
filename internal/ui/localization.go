package ui

import (
	"strings"

	"fyne.io/fyne/v2/lang"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle             = "app_title"
	KeyURLLabel             = "url_label"
	KeyEnterURL             = "enter_url"
	KeyPreview              = "preview"
	KeyPlatformLabel        = "platform_label"
	KeyOutputLabel          = "output_label"
	KeyBrowse               = "browse"
	KeyTitleNotLoaded       = "title_not_loaded"
	KeyTitleLoading         = "title_loading"
	KeyVideoTitle           = "video_title"
	KeyPlaylistTitle        = "playlist_title"
	KeyThumbnailMissing     = "thumbnail_missing"
	KeyLoading              = "loading"
	KeySelectAll            = "select_all"
	KeyDownloadSelected     = "download_selected"
	KeyStop                 = "stop"
	KeyRetry                = "retry"
	KeyReveal               = "reveal"
	KeyOpen                 = "open"
	KeyFetchingInfo         = "fetching_info"
	KeyFoundVideos          = "found_videos"
	KeyStartingDownload     = "starting_download"
	KeyDownloadComplete     = "download_complete"
	KeyDownloadPartial      = "download_partial"
	KeyDownloadStopped      = "download_stopped"
	KeyDownloadCompleted    = "download_completed"
	KeyStoppingDownload     = "stopping_download"
	KeyFooter               = "footer"
	KeyFile                 = "file"
	KeySettings             = "settings"
	KeyLanguage             = "language"
	KeyCookies              = "cookies"
	KeyCheckCookies         = "check_cookies"
	KeyExportCookies        = "export_cookies"
	KeyCookiesMissing       = "cookies_missing"
	KeyCookiesSummary       = "cookies_summary"
	KeyCookiesExported      = "cookies_exported"
	KeyBrowser              = "browser"
	KeyExport               = "export"
	KeyDownloadDirectory    = "download_directory"
	KeyMaxParallel          = "max_parallel"
	KeyCookiesFile          = "cookies_file"
	KeyFFmpegPath           = "ffmpeg_path"
	KeyYtDlpPath            = "ytdlp_path"
	KeyAutoReveal           = "auto_reveal"
	KeyAutoInstall          = "auto_install"
	KeyDownloadSettings     = "download_settings"
	KeyToolSettings         = "tool_settings"
	KeyInterfaceSettings    = "interface_settings"
	KeySave                 = "save"
	KeyCancel               = "cancel"
	KeySettingsSaved        = "settings_saved"
	KeyErrorOpeningFile     = "error_opening_file"
	KeyFilePathUnavailable  = "file_path_unavailable"
	KeyOutputDirUnavailable = "output_dir_unavailable"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" resolves to the OS
// locale when it is translated, English otherwise.
func (l *Localization) SetLanguage(code string) {
	if code == "system" {
		code = systemLanguage()
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
		return
	}
	l.currentLanguage = "en"
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func systemLanguage() string {
	tag := lang.SystemLocale().LanguageString()
	code, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(code)
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:             "Video Downloader",
		KeyURLLabel:             "Video URL:",
		KeyEnterURL:             "Enter YouTube or Facebook video URL",
		KeyPreview:              "Preview",
		KeyPlatformLabel:        "Platform:",
		KeyOutputLabel:          "Output Folder:",
		KeyBrowse:               "Browse",
		KeyTitleNotLoaded:       "Video Title: Not loaded",
		KeyTitleLoading:         "Video Title: Loading...",
		KeyVideoTitle:           "Video: %s",
		KeyPlaylistTitle:        "Playlist: %s",
		KeyThumbnailMissing:     "Thumbnail not available",
		KeyLoading:              "Loading",
		KeySelectAll:            "Select All Videos (YouTube Playlist)",
		KeyDownloadSelected:     "Download Selected",
		KeyStop:                 "Stop",
		KeyRetry:                "Retry",
		KeyReveal:               "Reveal",
		KeyOpen:                 "Open",
		KeyFetchingInfo:         "Fetching info from %s...",
		KeyFoundVideos:          "Found %d videos",
		KeyStartingDownload:     "Starting download from %s...",
		KeyDownloadComplete:     "Download complete!",
		KeyDownloadPartial:      "Download finished: %d of %d failed",
		KeyDownloadStopped:      "Download stopped",
		KeyDownloadCompleted:    "Download completed",
		KeyStoppingDownload:     "Stopping download...",
		KeyFooter:               "Video Downloader · powered by yt-dlp",
		KeyFile:                 "File",
		KeySettings:             "Settings",
		KeyLanguage:             "Language",
		KeyCookies:              "Cookies",
		KeyCheckCookies:         "Check cookies.txt",
		KeyExportCookies:        "Export from browser",
		KeyCookiesMissing:       "cookies.txt not found. Place it next to the application or set its path in Settings.",
		KeyCookiesSummary:       "%s\n%d cookies, %d expired, %d malformed lines",
		KeyCookiesExported:      "Exported %d cookies to %s",
		KeyBrowser:              "Browser",
		KeyExport:               "Export",
		KeyDownloadDirectory:    "Download Directory",
		KeyMaxParallel:          "Max Parallel Downloads",
		KeyCookiesFile:          "Cookies File",
		KeyFFmpegPath:           "FFmpeg Path",
		KeyYtDlpPath:            "yt-dlp Path",
		KeyAutoReveal:           "Reveal files when download completes",
		KeyAutoInstall:          "Install missing yt-dlp and ffmpeg automatically",
		KeyDownloadSettings:     "Download Settings",
		KeyToolSettings:         "Tools",
		KeyInterfaceSettings:    "Interface Settings",
		KeySave:                 "Save",
		KeyCancel:               "Cancel",
		KeySettingsSaved:        "Settings saved successfully!",
		KeyErrorOpeningFile:     "Error opening file",
		KeyFilePathUnavailable:  "File path not available",
		KeyOutputDirUnavailable: "Cannot create output folder",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:             "Загрузчик видео",
		KeyURLLabel:             "URL видео:",
		KeyEnterURL:             "Введите URL видео YouTube или Facebook",
		KeyPreview:              "Просмотр",
		KeyPlatformLabel:        "Платформа:",
		KeyOutputLabel:          "Папка загрузки:",
		KeyBrowse:               "Обзор",
		KeyTitleNotLoaded:       "Название: не загружено",
		KeyTitleLoading:         "Название: загрузка...",
		KeyVideoTitle:           "Видео: %s",
		KeyPlaylistTitle:        "Плейлист: %s",
		KeyThumbnailMissing:     "Миниатюра недоступна",
		KeyLoading:              "Загрузка",
		KeySelectAll:            "Выбрать все видео (плейлист YouTube)",
		KeyDownloadSelected:     "Скачать выбранное",
		KeyStop:                 "Стоп",
		KeyRetry:                "Повторить",
		KeyReveal:               "Показать",
		KeyOpen:                 "Открыть",
		KeyFetchingInfo:         "Получение данных с %s...",
		KeyFoundVideos:          "Найдено видео: %d",
		KeyStartingDownload:     "Начинается загрузка с %s...",
		KeyDownloadComplete:     "Загрузка завершена!",
		KeyDownloadPartial:      "Загрузка завершена: ошибок %d из %d",
		KeyDownloadStopped:      "Загрузка остановлена",
		KeyDownloadCompleted:    "Загрузка завершена",
		KeyStoppingDownload:     "Остановка загрузки...",
		KeyFooter:               "Загрузчик видео · на основе yt-dlp",
		KeyFile:                 "Файл",
		KeySettings:             "Настройки",
		KeyLanguage:             "Язык",
		KeyCookies:              "Cookies",
		KeyCheckCookies:         "Проверить cookies.txt",
		KeyExportCookies:        "Экспорт из браузера",
		KeyCookiesMissing:       "cookies.txt не найден. Положите его рядом с приложением или укажите путь в настройках.",
		KeyCookiesSummary:       "%s\nCookies: %d, просрочено: %d, некорректных строк: %d",
		KeyCookiesExported:      "Экспортировано cookies: %d в %s",
		KeyBrowser:              "Браузер",
		KeyExport:               "Экспорт",
		KeyDownloadDirectory:    "Папка загрузки",
		KeyMaxParallel:          "Макс. параллельных",
		KeyCookiesFile:          "Файл cookies",
		KeyFFmpegPath:           "Путь к FFmpeg",
		KeyYtDlpPath:            "Путь к yt-dlp",
		KeyAutoReveal:           "Показывать файлы после загрузки",
		KeyAutoInstall:          "Устанавливать yt-dlp и ffmpeg автоматически",
		KeyDownloadSettings:     "Настройки загрузки",
		KeyToolSettings:         "Инструменты",
		KeyInterfaceSettings:    "Настройки интерфейса",
		KeySave:                 "Сохранить",
		KeyCancel:               "Отмена",
		KeySettingsSaved:        "Настройки успешно сохранены!",
		KeyErrorOpeningFile:     "Ошибка открытия файла",
		KeyFilePathUnavailable:  "Путь к файлу недоступен",
		KeyOutputDirUnavailable: "Не удалось создать папку загрузки",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:             "Baixador de Vídeos",
		KeyURLLabel:             "URL do vídeo:",
		KeyEnterURL:             "Digite a URL de um vídeo do YouTube ou Facebook",
		KeyPreview:              "Visualizar",
		KeyPlatformLabel:        "Plataforma:",
		KeyOutputLabel:          "Pasta de saída:",
		KeyBrowse:               "Navegar",
		KeyTitleNotLoaded:       "Título: não carregado",
		KeyTitleLoading:         "Título: carregando...",
		KeyVideoTitle:           "Vídeo: %s",
		KeyPlaylistTitle:        "Playlist: %s",
		KeyThumbnailMissing:     "Miniatura indisponível",
		KeyLoading:              "Carregando",
		KeySelectAll:            "Selecionar todos os vídeos (playlist do YouTube)",
		KeyDownloadSelected:     "Baixar selecionados",
		KeyStop:                 "Parar",
		KeyRetry:                "Repetir",
		KeyReveal:               "Mostrar",
		KeyOpen:                 "Abrir",
		KeyFetchingInfo:         "Obtendo informações de %s...",
		KeyFoundVideos:          "%d vídeos encontrados",
		KeyStartingDownload:     "Iniciando download de %s...",
		KeyDownloadComplete:     "Download concluído!",
		KeyDownloadPartial:      "Download finalizado: %d de %d falharam",
		KeyDownloadStopped:      "Download interrompido",
		KeyDownloadCompleted:    "Download concluído",
		KeyStoppingDownload:     "Parando download...",
		KeyFooter:               "Baixador de Vídeos · com yt-dlp",
		KeyFile:                 "Arquivo",
		KeySettings:             "Configurações",
		KeyLanguage:             "Idioma",
		KeyCookies:              "Cookies",
		KeyCheckCookies:         "Verificar cookies.txt",
		KeyExportCookies:        "Exportar do navegador",
		KeyCookiesMissing:       "cookies.txt não encontrado. Coloque-o ao lado do aplicativo ou defina o caminho nas Configurações.",
		KeyCookiesSummary:       "%s\n%d cookies, %d expirados, %d linhas inválidas",
		KeyCookiesExported:      "%d cookies exportados para %s",
		KeyBrowser:              "Navegador",
		KeyExport:               "Exportar",
		KeyDownloadDirectory:    "Diretório de Download",
		KeyMaxParallel:          "Max Downloads Paralelos",
		KeyCookiesFile:          "Arquivo de cookies",
		KeyFFmpegPath:           "Caminho do FFmpeg",
		KeyYtDlpPath:            "Caminho do yt-dlp",
		KeyAutoReveal:           "Mostrar arquivos ao concluir o download",
		KeyAutoInstall:          "Instalar yt-dlp e ffmpeg automaticamente",
		KeyDownloadSettings:     "Configurações de download",
		KeyToolSettings:         "Ferramentas",
		KeyInterfaceSettings:    "Configurações de interface",
		KeySave:                 "Salvar",
		KeyCancel:               "Cancelar",
		KeySettingsSaved:        "Configurações salvas com sucesso!",
		KeyErrorOpeningFile:     "Erro ao abrir arquivo",
		KeyFilePathUnavailable:  "Caminho do arquivo indisponível",
		KeyOutputDirUnavailable: "Não foi possível criar a pasta de saída",
	}
}
