// Package extract fetches video and playlist metadata for the preview pane.
//
// Metadata comes from yt-dlp in flat-playlist JSON mode. When YouTube asks
// the user to sign in, the request is repeated once with cookies.txt. YouTube
// playlist URLs that yt-dlp fails on fall back to a native playlist lister.
// Successful previews are cached for a short time.
package extract
