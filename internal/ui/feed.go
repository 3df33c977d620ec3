package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/hogwash/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const (
	shelfCardWidth = 32
	tickerEntries  = 4
)

// renderFeed draws the live ticker and one horizontal shelf per platform.
func (a App) renderFeed(height int) string {
	ticker := a.renderTicker()
	now := a.nowKey()

	visible := max(1, a.width/shelfCardWidth)
	platforms := a.deps.Content.Platforms()

	var shelves []string
	top, selectedH, lines := 0, 0, 0
	for i, p := range platforms {
		list := a.deps.Content.List(p.ID)

		head := ShelfHeader.Foreground(platformColor(p.ID)).Render(p.Name) +
			CardMeta.Render(fmt.Sprintf("  %d cards", len(list)))
		if a.deps.Content.Loading(p.ID) {
			head += CardMeta.Render("  loading…")
		}

		var row string
		if len(list) == 0 {
			row = CardMeta.Render("  Nothing here yet. Press r to refresh.")
		} else {
			start := 0
			if i == a.row && a.col >= visible {
				start = a.col - visible + 1
			}
			end := min(len(list), start+visible)
			cards := make([]string, 0, end-start)
			for j := start; j < end; j++ {
				state := cardNormal
				switch {
				case i == a.row && j == a.col:
					state = cardSelected
				case list[j].Key() == now:
					state = cardPlaying
				}
				cards = append(cards, renderCard(list[j], shelfCardWidth, state))
			}
			row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
		}

		shelf := head + "\n" + row
		h := lipgloss.Height(shelf)
		if i == a.row {
			top, selectedH = lines, h
		}
		lines += h
		shelves = append(shelves, shelf)
	}

	avail := height - 1
	offset := 0
	if top+selectedH > avail {
		offset = top + selectedH - avail
	}
	if offset > top {
		offset = top
	}
	return ticker + "\n" + window(strings.Join(shelves, "\n"), offset, avail)
}

func (a App) renderTicker() string {
	live := a.deps.Content.Live()
	label := LiveBadge.Render(" ● LIVE ")
	if len(live) == 0 {
		return label + CardMeta.Render("  connecting to the forage…")
	}
	titles := make([]string, 0, tickerEntries)
	for i, v := range live {
		if i == tickerEntries {
			break
		}
		titles = append(titles, tickerTitle(v))
	}
	return label + " " + CardTitle.Render(truncate(strings.Join(titles, "  ·  "), a.width-10))
}

func tickerTitle(v model.Video) string {
	if v.Author != "" {
		return v.Author + ": " + v.Title
	}
	return v.Title
}
