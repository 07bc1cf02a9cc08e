package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background      tcell.Color
	Foreground      tcell.Color
	SidebarBg       tcell.Color
	SidebarFg       tcell.Color
	SidebarActiveBg tcell.Color
	SidebarActiveFg tcell.Color
	SeparatorFg     tcell.Color
	TitleFg         tcell.Color
	ChapterFg       tcell.Color
	ArticleFg       tcell.Color
	FocusFg         tcell.Color
	MarkerFg        tcell.Color
	HitBg           tcell.Color
	HitFg           tcell.Color
	CurrentHitBg    tcell.Color
	CurrentHitFg    tcell.Color
	AnnotationFg    tcell.Color
	LabelFg         tcell.Color
	SearchBarBg     tcell.Color
	SearchBarFg     tcell.Color
	ErrorFg         tcell.Color
	FooterBg        tcell.Color
	FooterFg        tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:      tcell.ColorDefault,
		Foreground:      tcell.ColorDefault,
		SidebarBg:       tcell.ColorDefault,
		SidebarFg:       tcell.ColorDefault,
		SidebarActiveBg: tcell.Color33,
		SidebarActiveFg: tcell.ColorWhite,
		SeparatorFg:     tcell.ColorLightSlateGray,
		TitleFg:         tcell.ColorDefault,
		ChapterFg:       tcell.Color33,
		ArticleFg:       tcell.Color44,
		FocusFg:         tcell.Color33,
		MarkerFg:        tcell.Color172,
		HitBg:           tcell.Color226, // yellow, like a highlighter pen
		HitFg:           tcell.ColorBlack,
		CurrentHitBg:    tcell.Color208,
		CurrentHitFg:    tcell.ColorBlack,
		AnnotationFg:    tcell.Color252,
		LabelFg:         tcell.Color172,
		SearchBarBg:     tcell.Color236,
		SearchBarFg:     tcell.ColorWhite,
		ErrorFg:         tcell.ColorRed,
		FooterBg:        tcell.ColorDefault,
		FooterFg:        tcell.ColorDefault,
	}
}
