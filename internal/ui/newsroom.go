package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/hogwash/internal/newsroom"
	"github.com/charmbracelet/lipgloss"
)

// renderNewsroom draws the Size x Size stream wall.
func renderNewsroom(g *newsroom.Grid, width, height int) string {
	title := ViewTitle.Render("NEWSROOM") + CardMeta.Render(fmt.Sprintf("  %dx%d  ·  +/- resize  ·  e edit  ·  enter open", g.Size, g.Size))

	cellW := width / g.Size
	cellH := (height - 1) / g.Size
	if cellH < 4 {
		cellH = 4
	}

	rows := make([]string, 0, g.Size)
	for r := 0; r < g.Size; r++ {
		cells := make([]string, 0, g.Size)
		for c := 0; c < g.Size; c++ {
			i := r*g.Size + c
			cells = append(cells, renderCell(g.Streams[i], i, g.Muted(i), i == g.Focus, cellW, cellH))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return title + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(s newsroom.Stream, i int, muted, focused bool, width, height int) string {
	inner := width - 4
	if inner < 6 {
		inner = 6
	}

	var lines []string
	if s.Empty() {
		lines = append(lines, CardMeta.Render(fmt.Sprintf("Cell %d", i+1)), "", CardMeta.Render("empty"))
	} else {
		audio := "🔊 audio"
		if muted {
			audio = "🔇 muted"
		}
		lines = append(lines,
			CardTitle.Render(truncate(s.Name, inner)),
			CardMeta.Render(strings.ToUpper(s.Type)+"  "+audio),
			CardMeta.Render(truncate(s.URL, inner)),
		)
	}

	box := CellBox
	if focused {
		box = FocusedCellBox
	}
	return box.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}
