package ui

import (
	"math"
	"strings"

	"github.com/abelbrown/hogwash/internal/model"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const (
	minCardWidth = 28
	maxColumns   = 6
	cardChrome   = 2 // top and bottom border lines
)

// placement is where a card landed in the masonry grid.
type placement struct {
	index int // playlist index
	col   int
	y     int // top line within the column
	h     int // rendered height in lines
}

// masonry packs cards into the currently shortest column so portrait and
// landscape cards interleave tightly.
type masonry struct {
	cols     int
	colWidth int
	items    []placement
	heights  []int
}

// cardHeight is the rendered height of a card at the given width.
func cardHeight(v model.Video, width int) int {
	return lipgloss.Height(renderCard(v, width, cardNormal))
}

func layoutMasonry(videos []model.Video, width int) masonry {
	cols := width / minCardWidth
	if cols < 1 {
		cols = 1
	}
	if cols > maxColumns {
		cols = maxColumns
	}
	m := masonry{
		cols:     cols,
		colWidth: width / cols,
		heights:  make([]int, cols),
		items:    make([]placement, 0, len(videos)),
	}
	for i, v := range videos {
		col := m.shortest()
		h := cardHeight(v, m.colWidth)
		m.items = append(m.items, placement{index: i, col: col, y: m.heights[col], h: h})
		m.heights[col] += h
	}
	return m
}

func (m masonry) shortest() int {
	best := 0
	for c := 1; c < len(m.heights); c++ {
		if m.heights[c] < m.heights[best] {
			best = c
		}
	}
	return best
}

func (m masonry) height() int {
	h := 0
	for _, c := range m.heights {
		if c > h {
			h = c
		}
	}
	return h
}

// at returns the placement of playlist index i.
func (m masonry) at(i int) (placement, bool) {
	if i < 0 || i >= len(m.items) {
		return placement{}, false
	}
	return m.items[i], true
}

// vertical moves within a column: dir -1 is the card above, +1 below.
func (m masonry) vertical(i, dir int) int {
	cur, ok := m.at(i)
	if !ok {
		return i
	}
	best := i
	for _, p := range m.items {
		if p.col != cur.col {
			continue
		}
		if dir > 0 && p.y > cur.y && (best == i || p.y < m.items[best].y) {
			best = p.index
		}
		if dir < 0 && p.y < cur.y && (best == i || p.y > m.items[best].y) {
			best = p.index
		}
	}
	return best
}

// horizontal moves to the adjacent column, landing on the card whose top
// is nearest the current one.
func (m masonry) horizontal(i, dir int) int {
	cur, ok := m.at(i)
	if !ok {
		return i
	}
	target := cur.col + dir
	if target < 0 || target >= m.cols {
		return i
	}
	best, dist := i, math.MaxInt
	for _, p := range m.items {
		if p.col != target {
			continue
		}
		d := p.y - cur.y
		if d < 0 {
			d = -d
		}
		if d < dist {
			best, dist = p.index, d
		}
	}
	return best
}

// render draws the full grid. state reports how each playlist index is
// highlighted.
func (m masonry) render(videos []model.Video, state func(i int) cardState) string {
	columns := make([]string, m.cols)
	for c := range columns {
		var parts []string
		for _, p := range m.items {
			if p.col == c {
				parts = append(parts, renderCard(videos[p.index], m.colWidth, state(p.index)))
			}
		}
		columns[c] = lipgloss.NewStyle().Width(m.colWidth).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// window slices a rendered block to height lines starting at offset.
func window(block string, offset, height int) string {
	lines := strings.Split(block, "\n")
	if offset > len(lines) {
		offset = len(lines)
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}

// scroller animates a scroll offset toward a target with spring physics.
type scroller struct {
	spring   harmonica.Spring
	pos      float64
	velocity float64
	target   float64
}

func newScroller() scroller {
	// Higher frequency = faster response, higher damping = less bounce
	return scroller{spring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8)}
}

// follow sets the target so the span [top, top+h) is visible in a
// viewport of the given height over content of total lines.
func (s *scroller) follow(top, h, viewport, total int) {
	target := s.target
	if float64(top) < target {
		target = float64(top)
	}
	if float64(top+h) > target+float64(viewport) {
		target = float64(top + h - viewport)
	}
	maxOffset := float64(total - viewport)
	if maxOffset < 0 {
		maxOffset = 0
	}
	s.target = math.Max(0, math.Min(target, maxOffset))
}

func (s *scroller) step() {
	s.pos, s.velocity = s.spring.Update(s.pos, s.velocity, s.target)
}

func (s scroller) moving() bool {
	return math.Abs(s.pos-s.target) > 0.01
}

func (s scroller) offset() int {
	return int(math.Round(s.pos))
}

func (s *scroller) reset() {
	s.pos, s.velocity, s.target = 0, 0, 0
}
