package ytdl

// Package ytdl wraps the yt-dlp executable (via github.com/lrstanley/go-ytdlp)
// behind a small Runner interface, and classifies its failures into the
// user-facing categories the UI reports.
