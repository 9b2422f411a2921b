package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Palette of the light variant
var (
	colorBackground = color.NRGBA{R: 0xf5, G: 0xf7, B: 0xfa, A: 0xff}
	colorText       = color.NRGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	colorPrimary    = color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	colorHover      = color.NRGBA{R: 0x29, G: 0x80, B: 0xb9, A: 0x40}
	colorSuccess    = color.NRGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	colorError      = color.NRGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	colorBorder     = color.NRGBA{R: 0xdf, G: 0xe6, B: 0xe9, A: 0xff}
	colorDisabled   = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	colorFooter     = color.NRGBA{R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff}
)

// CompactTheme defines a compact theme for the UI with reduced padding and font sizes
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return colorSuccess
	case theme.ColorNameError:
		return colorError
	case theme.ColorNamePrimary:
		return colorPrimary
	}

	if variant == theme.VariantDark {
		return theme.DefaultTheme().Color(name, variant)
	}

	switch name {
	case theme.ColorNameBackground:
		return colorBackground
	case theme.ColorNameForeground:
		return colorText
	case theme.ColorNameInputBackground:
		return color.White
	case theme.ColorNameInputBorder, theme.ColorNameSeparator:
		return colorBorder
	case theme.ColorNameHover:
		return colorHover
	case theme.ColorNameDisabledButton:
		return colorDisabled
	case theme.ColorNamePlaceHolder:
		return colorFooter
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 5 // rounded inputs
	case theme.SizeNameSelectionRadius:
		return 3
	}

	return theme.DefaultTheme().Size(name)
}
