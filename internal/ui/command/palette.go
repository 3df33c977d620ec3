// Package command is the jump palette: a fuzzy finder over platform troughs.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Target is one jump destination.
type Target struct {
	ID          string
	Name        string
	Description string
}

// targets adapts a Target slice to fuzzy.Source.
type targets []Target

func (t targets) String(i int) string { return t[i].Name }
func (t targets) Len() int            { return len(t) }

// Palette is a jump palette with fuzzy matching
type Palette struct {
	input    textinput.Model
	targets  []Target
	filtered []Target
	matches  [][]int // matched rune indexes per filtered entry
	cursor   int
	width    int
	active   bool
}

// New creates a new jump palette
func New() Palette {
	ti := textinput.New()
	ti.Placeholder = "Jump to a trough..."
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c9d1d9"))
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	ti.CharLimit = 32

	return Palette{input: ti, width: 60}
}

// Activate shows the palette over the given targets
func (p *Palette) Activate(ts []Target) tea.Cmd {
	p.active = true
	p.targets = ts
	p.input.SetValue("")
	p.input.Focus()
	p.filter()
	return textinput.Blink
}

// Deactivate hides the palette
func (p *Palette) Deactivate() {
	p.active = false
	p.input.Blur()
}

// IsActive returns whether palette is showing
func (p Palette) IsActive() bool {
	return p.active
}

// SetWidth sets the palette width
func (p *Palette) SetWidth(w int) {
	p.width = w
	p.input.Width = w - 10
}

// Selected returns the ID of the highlighted target
func (p Palette) Selected() string {
	if p.cursor >= 0 && p.cursor < len(p.filtered) {
		return p.filtered[p.cursor].ID
	}
	return ""
}

// Update handles input. The returned string is the chosen target ID once
// the user confirms.
func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd, string) {
	if !p.active {
		return p, nil, ""
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.Deactivate()
			return p, nil, ""

		case "enter":
			id := p.Selected()
			p.Deactivate()
			return p, nil, id

		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, ""

		case "down", "ctrl+n", "tab":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
			}
			return p, nil, ""
		}
	}

	oldValue := p.input.Value()

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)

	// Only filter when input actually changes
	if p.input.Value() != oldValue {
		p.filter()
	}

	return p, cmd, ""
}

// filter ranks targets by fuzzy score; an empty query keeps list order.
func (p *Palette) filter() {
	query := strings.TrimSpace(p.input.Value())
	p.cursor = 0
	if query == "" {
		p.filtered = p.targets
		p.matches = make([][]int, len(p.targets))
		return
	}

	found := fuzzy.FindFrom(query, targets(p.targets))
	p.filtered = make([]Target, 0, len(found))
	p.matches = make([][]int, 0, len(found))
	for _, m := range found {
		p.filtered = append(p.filtered, p.targets[m.Index])
		p.matches = append(p.matches, m.MatchedIndexes)
	}
}

// View renders the palette
func (p Palette) View() string {
	if !p.active {
		return ""
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(0, 1).
		Width(p.width - 4)

	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#c9d1d9"))
	matchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Underline(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))

	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")

	maxVisible := min(8, len(p.filtered))
	start := 0
	if p.cursor >= maxVisible {
		start = p.cursor - maxVisible + 1
	}
	for i := start; i < start+maxVisible; i++ {
		t := p.filtered[i]
		prefix := "  "
		if i == p.cursor {
			prefix = "› "
		}
		b.WriteString(prefix)
		b.WriteString(highlight(t.Name, p.matches[i], itemStyle, matchStyle))
		if t.Description != "" {
			b.WriteString(descStyle.Render("  " + t.Description))
		}
		b.WriteString("\n")
	}

	if len(p.filtered) == 0 {
		b.WriteString(descStyle.Render("  No matching troughs"))
		b.WriteString("\n")
	}

	b.WriteString(descStyle.Render("↑↓ navigate  enter jump  esc cancel"))
	return containerStyle.Render(b.String())
}

func highlight(s string, idx []int, normal, hit lipgloss.Style) string {
	if len(idx) == 0 {
		return normal.Render(s)
	}
	marked := make(map[int]bool, len(idx))
	for _, i := range idx {
		marked[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if marked[i] {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(normal.Render(string(r)))
		}
	}
	return b.String()
}
