package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/hogwash/internal/eventlog"
)

// debugPanelChrome is the number of lines DebugPanel's border (2) and
// vertical padding (2) take. Must follow the DebugPanel style.
const debugPanelChrome = 4

// debugOverlay renders event counts and the most recent events. Returns ""
// when ring is nil.
func debugOverlay(ring *eventlog.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Trough Stats"))
	lines = append(lines, fmt.Sprintf("  Fetches:    %d complete, %d fallback, %d errors",
		stats[eventlog.KindFetchComplete], stats[eventlog.KindFetchFallback], stats[eventlog.KindFetchError]))
	lines = append(lines, fmt.Sprintf("  Live:       %d polls", stats[eventlog.KindLivePoll]))
	lines = append(lines, fmt.Sprintf("  Player:     %d plays, %d ended, %d errors",
		stats[eventlog.KindPlay], stats[eventlog.KindPlayerEnded], stats[eventlog.KindPlayerError]))
	lines = append(lines, fmt.Sprintf("  Forage:     %d started, %d complete, %d failed",
		stats[eventlog.KindRecommendStart], stats[eventlog.KindRecommendComplete], stats[eventlog.KindRecommendError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-20s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Platform != "" {
			line += "  " + e.Platform
		}
		if e.Msg != "" {
			line += "  " + truncate(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncate(e.Err, 30)
		}
		if e.ReqID != "" {
			id := e.ReqID
			if len(id) > 8 {
				id = id[:8]
			}
			line += "  req:" + id
		}
		lines = append(lines, line)
	}

	maxHeight := max(1, height-debugPanelChrome)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 80
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string. Negative
// durations from clock skew clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}
