package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"input-mapper/pkg/colorutil"
)

// EditorTheme is the dark slate theme of the editor window.
type EditorTheme struct{}

var _ fyne.Theme = (*EditorTheme)(nil)

func (t *EditorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.MarkerDot
	case theme.ColorNameBackground:
		return colorutil.Background
	case theme.ColorNameInputBackground, theme.ColorNameMenuBackground:
		return colorutil.LabelFill
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0x60}
	case theme.ColorNameForeground:
		return colorutil.White
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *EditorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *EditorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *EditorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameInputRadius:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
