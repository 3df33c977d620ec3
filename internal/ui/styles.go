package ui

import (
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("205") // Hog pink
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorMud       = lipgloss.Color("94")  // Brown
	colorLive      = lipgloss.Color("196") // Red
)

// Platform accent colors
var platformColors = map[string]lipgloss.Color{
	model.PlatformYouTube: lipgloss.Color("#ff4e45"),
	model.PlatformTikTok:  lipgloss.Color("#25f4ee"),
	model.PlatformTwitch:  lipgloss.Color("#a970ff"),
	model.PlatformX:       lipgloss.Color("#e7e9ea"),
	model.PlatformLive:    lipgloss.Color("#f85149"),
}

func platformColor(id string) lipgloss.Color {
	if c, ok := platformColors[id]; ok {
		return c
	}
	return colorHighlight
}

// Header style for the top banner.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// ViewTitle style for the active view's name.
var ViewTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// ShelfHeader style for a platform row on the dashboard.
var ShelfHeader = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1)

// CardBox is the border around a card.
var CardBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// SelectedCardBox highlights the card under the cursor.
var SelectedCardBox = CardBox.
	BorderForeground(colorHighlight)

// PlayingCardBox marks the card that is playing.
var PlayingCardBox = CardBox.
	BorderForeground(colorSuccess)

// CardTitle style for card titles.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// CardMeta style for author and counters.
var CardMeta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Thumb style for the thumbnail placeholder block.
var Thumb = lipgloss.NewStyle().
	Foreground(colorMud)

// LiveBadge style for live markers.
var LiveBadge = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorLive).
	Padding(0, 1)

// Reason style for recommendation reasons.
var Reason = lipgloss.NewStyle().
	Italic(true).
	Foreground(colorHighlight)

// NowPlaying style for the playback bar.
var NowPlaying = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// NoticeStyle for short-lived notices.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(colorHighlight).
	Bold(true).
	Padding(0, 1)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// ModalBox style for prompts and the jump palette.
var ModalBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorHighlight).
	Padding(0, 1)

// CellBox style for newsroom cells.
var CellBox = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// FocusedCellBox style for the unmuted newsroom cell.
var FocusedCellBox = CellBox.
	Border(lipgloss.ThickBorder()).
	BorderForeground(colorLive)

// DebugPanel frames the event overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMud).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside DebugPanel.
var DebugHeaderStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)
