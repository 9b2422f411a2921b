// Package ui contains the Fyne desktop window of the application: URL and
// platform input, the preview area with the playlist checklist, download
// controls, and the status log. All UI strings are localized via
// Localization.
package ui
