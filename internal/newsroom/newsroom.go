// Package newsroom holds the state of the multi-cell stream wall. It is
// independent of the playback session: cells never advance and never touch
// watch history.
package newsroom

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	MinSize     = 1
	MaxSize     = 4
	DefaultSize = 2
	MaxCells    = MaxSize * MaxSize
)

// Stream types.
const (
	TypeYouTube = "youtube"
	TypeTwitch  = "twitch"
	TypeURL     = "url"
)

var (
	ErrCellOutOfRange = errors.New("cell out of range")
	ErrBadStream      = errors.New(`expected "name url"`)
)

// Stream is the content of one cell.
type Stream struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Empty reports whether the cell has nothing assigned.
func (s Stream) Empty() bool {
	return s.URL == ""
}

// Grid is a Size x Size wall of streams. Exactly one cell has focus; it is
// the only unmuted cell.
type Grid struct {
	Size    int
	Streams []Stream // always MaxCells long so shrinking keeps assignments
	Focus   int
}

// DefaultStream is placed in cell 0 of a fresh grid.
var DefaultStream = Stream{
	Name: "Global News Live",
	URL:  "https://www.youtube.com/watch?v=jfKfPfyJRdk",
	Type: TypeYouTube,
}

// New returns a 2x2 grid with the default stream in cell 0.
func New() *Grid {
	g := &Grid{Size: DefaultSize, Streams: make([]Stream, MaxCells)}
	g.Streams[0] = DefaultStream
	return g
}

// Restore builds a grid from persisted values, repairing anything out of
// range.
func Restore(size int, streams []Stream) *Grid {
	g := New()
	g.SetSize(size)
	if streams != nil {
		g.Streams = make([]Stream, MaxCells)
		copy(g.Streams, streams)
	}
	return g
}

// Cells returns the number of visible cells.
func (g *Grid) Cells() int {
	return g.Size * g.Size
}

// SetSize clamps n to [MinSize, MaxSize] and keeps focus on a visible cell.
func (g *Grid) SetSize(n int) {
	if n < MinSize {
		n = MinSize
	}
	if n > MaxSize {
		n = MaxSize
	}
	g.Size = n
	if g.Focus >= g.Cells() {
		g.Focus = 0
	}
}

// Grow adds a row and a column.
func (g *Grid) Grow() { g.SetSize(g.Size + 1) }

// Shrink removes a row and a column.
func (g *Grid) Shrink() { g.SetSize(g.Size - 1) }

// Assign puts s in cell i.
func (g *Grid) Assign(i int, s Stream) error {
	if i < 0 || i >= g.Cells() {
		return fmt.Errorf("assign cell %d: %w", i, ErrCellOutOfRange)
	}
	g.Streams[i] = s
	return nil
}

// Clear empties cell i.
func (g *Grid) Clear(i int) error {
	return g.Assign(i, Stream{})
}

// MoveFocus moves focus by dx columns and dy rows, stopping at the edges.
func (g *Grid) MoveFocus(dx, dy int) {
	row, col := g.Focus/g.Size, g.Focus%g.Size
	row = clamp(row+dy, 0, g.Size-1)
	col = clamp(col+dx, 0, g.Size-1)
	g.Focus = row*g.Size + col
}

// Muted reports whether cell i is muted.
func (g *Grid) Muted(i int) bool {
	return i != g.Focus
}

// Focused returns the stream in the focused cell.
func (g *Grid) Focused() (Stream, bool) {
	s := g.Streams[g.Focus]
	return s, !s.Empty()
}

// ParseStream reads "name url" (the url is the last field). A bare url uses
// its host as the name.
func ParseStream(input string) (Stream, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Stream{}, ErrBadStream
	}

	raw := fields[len(fields)-1]
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Stream{}, ErrBadStream
	}

	name := strings.Join(fields[:len(fields)-1], " ")
	if name == "" {
		name = u.Host
	}
	return Stream{Name: name, URL: raw, Type: streamType(u.Host)}, nil
}

func streamType(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	switch {
	case host == "youtube.com" || host == "youtu.be" || host == "m.youtube.com":
		return TypeYouTube
	case host == "twitch.tv" || strings.HasSuffix(host, ".twitch.tv"):
		return TypeTwitch
	default:
		return TypeURL
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
