// Package download implements the download queue built on top of yt-dlp.
// It manages the task lifecycle, the parallel download limit, per-platform
// yt-dlp options, the sign-in cookie retry and progress propagation to the UI.
// Tasks started by one Download action share a batch ID.
package download
