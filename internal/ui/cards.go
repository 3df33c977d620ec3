package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/hogwash/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Thumbnail placeholder heights in lines.
const (
	thumbLandscape = 3
	thumbPortrait  = 7
)

type cardState int

const (
	cardNormal cardState = iota
	cardSelected
	cardPlaying
)

// formatCount renders a counter the way the platforms do: 1.2M, 34.5K.
func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// badge is the platform/kind marker on a card.
func badge(v model.Video) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(platformColor(v.Platform))
	switch v.Variant.(type) {
	case model.Live:
		return LiveBadge.Render("LIVE")
	case model.Stream:
		return LiveBadge.Render("LIVE") + " " + style.Render("twitch")
	case model.Post:
		return style.Render("𝕏 post")
	case model.Clip:
		return style.Render("♪ tiktok")
	case model.Recommendation:
		return style.Render("✦ foraged · " + v.Platform)
	default:
		return style.Render("▶ " + v.Platform)
	}
}

// thumbHeight is how many lines the thumbnail block takes. Posts without
// media have none.
func thumbHeight(v model.Video) int {
	if p, ok := v.Variant.(model.Post); ok && p.MediaID == "" {
		return 0
	}
	if v.Orientation == model.Portrait {
		return thumbPortrait
	}
	return thumbLandscape
}

// stats is the counter line of a card.
func stats(v model.Video) string {
	switch x := v.Variant.(type) {
	case model.Post:
		return fmt.Sprintf("♥ %s  ⟲ %s", formatCount(x.Likes), formatCount(x.Retweets))
	case model.Stream:
		return fmt.Sprintf("%s watching · %s", formatCount(v.ViewCount), x.GameName)
	case model.Live:
		return fmt.Sprintf("%s watching", formatCount(v.ViewCount))
	case model.Recommendation:
		return fmt.Sprintf("🔥 %d", x.Virality)
	default:
		return fmt.Sprintf("%s views · 🔥 %d", formatCount(v.ViewCount), v.Virality())
	}
}

func author(v model.Video) string {
	if p, ok := v.Variant.(model.Post); ok && p.Handle != "" {
		return v.Author + " " + p.Handle
	}
	return v.Author
}

// wrap breaks s into at most maxLines lines of width w.
func wrap(s string, w, maxLines int) []string {
	if w < 4 {
		w = 4
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		r := []rune(word)
		if len(cur) > 0 && len(cur)+1+len(r) > w {
			lines = append(lines, string(cur))
			cur = nil
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, r...)
		for len(cur) > w {
			lines = append(lines, string(cur[:w]))
			cur = cur[w:]
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= w {
			last = last[:w-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}

// renderCard renders a card at an outer width of width columns.
func renderCard(v model.Video, width int, state cardState) string {
	inner := width - 4 // border + padding
	if inner < 8 {
		inner = 8
	}

	var b strings.Builder
	b.WriteString(badge(v))
	b.WriteString("\n")

	if h := thumbHeight(v); h > 0 {
		row := Thumb.Render(strings.Repeat("░", inner))
		for i := 0; i < h; i++ {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	text := v.Title
	if p, ok := v.Variant.(model.Post); ok && p.Text != "" {
		text = p.Text
	}
	for _, line := range wrap(text, inner, 2) {
		b.WriteString(CardTitle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(CardMeta.Render(truncate(author(v), inner)))
	b.WriteString("\n")
	b.WriteString(CardMeta.Render(truncate(stats(v), inner)))

	if r, ok := v.Variant.(model.Recommendation); ok && r.Reason != "" {
		for _, line := range wrap(r.Reason, inner, 2) {
			b.WriteString("\n")
			b.WriteString(Reason.Render(line))
		}
	}

	box := CardBox
	switch state {
	case cardSelected:
		box = SelectedCardBox
	case cardPlaying:
		box = PlayingCardBox
	}
	return box.Width(width - 2).Render(b.String())
}

// renderRow renders a one-line list entry for the vertical list views.
func renderRow(v model.Video, width int, state cardState) string {
	marker := "  "
	switch state {
	case cardSelected:
		marker = "› "
	case cardPlaying:
		marker = "♪ "
	}
	head := marker + badge(v) + " "
	title := truncate(v.Title, width-lipgloss.Width(head)-2)
	line := head + CardTitle.Render(title)
	meta := "    " + CardMeta.Render(truncate(author(v)+" · "+stats(v), width-6))
	out := line + "\n" + meta
	if r, ok := v.Variant.(model.Recommendation); ok && r.Reason != "" {
		out += "\n    " + Reason.Render(truncate(r.Reason, width-6))
	}
	return out
}

// truncate shortens s to maxLen runes, adding "…" if truncated.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
