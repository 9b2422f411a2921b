package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconClose    = "×"
	IconError    = "❌"
	IconDone     = "✅"
	IconStopped  = "⏹"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	LoadingDots         = 3
)

// Layout sizing
const (
	LabelColumnWidth   float32 = 110
	EntryListMinHeight float32 = 140
	StatusLogMinHeight float32 = 120
	EntryStatusWidth   float32 = 96
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// Dialog sizing
const (
	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 520
)

// Status log and animation
const (
	StatusLogMaxLines = 2000
	LoadingInterval   = 500 * time.Millisecond
)
