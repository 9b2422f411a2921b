package model

// Package model defines domain data structures used across the app: preview
// metadata returned by yt-dlp, download tasks, playlist entities, and status
// enums. Structures are designed for direct binding in the UI and explicit
// state transitions.
