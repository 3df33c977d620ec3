package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/hogwash/internal/model"
	"github.com/charmbracelet/glamour"
)

// markdown renders markdown with a renderer cached per wrap width.
type markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

func (m *markdown) render(src string, width int) string {
	wrap := width * 9 / 10
	if wrap > 100 {
		wrap = 100
	}
	if wrap < 20 {
		wrap = 20
	}
	if m.renderer == nil || m.width != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return src
		}
		m.renderer = r
		m.width = wrap
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

// mudholeMarkdown is the Mud Hole page: points, and what's been rooted
// through lately.
func mudholeMarkdown(points int, history []model.Video) string {
	var b strings.Builder
	b.WriteString("# THE MUD HOLE\n\n")
	fmt.Fprintf(&b, "You have **%d WALLER Points**.\n\n", points)
	b.WriteString("Press `s` on any card to share it. Fresh slop is worth more than viral slop, and every share is worth at least 10 points.\n\n")

	if len(history) == 0 {
		b.WriteString("_Nothing in the trough history yet. Go watch something._\n")
		return b.String()
	}

	b.WriteString("## Recently Wallowed\n\n")
	for i, v := range history {
		if i == 10 {
			break
		}
		who := v.Author
		if who == "" {
			who = v.Platform
		}
		fmt.Fprintf(&b, "%d. **%s** by %s (%s)\n", i+1, escapeMarkdown(v.Title), escapeMarkdown(who), v.Platform)
	}
	return b.String()
}

const recommendEmptyMarkdown = `# Forage For Me

You haven't watched anything yet, so there's nothing to forage from.

Open a trough with **enter** or go **HOGG WILD** with ` + "`B`" + `, then come back.
`

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
