package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAddPlatform
	promptEditCell
)

// prompt is a one-line modal input.
type prompt struct {
	kind  promptKind
	title string
	input textinput.Model
}

func newPrompt() prompt {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.PromptStyle = ViewTitle
	ti.CharLimit = 200
	return prompt{input: ti}
}

func (p *prompt) open(kind promptKind, title, placeholder, value string) tea.Cmd {
	p.kind = kind
	p.title = title
	p.input.Placeholder = placeholder
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.input.Focus()
	return textinput.Blink
}

func (p *prompt) close() {
	p.kind = promptNone
	p.input.Blur()
}

func (p prompt) active() bool { return p.kind != promptNone }

// update feeds a message to the input. done is set when the user confirmed
// or cancelled; value is empty on cancel.
func (p prompt) update(msg tea.Msg) (prompt, tea.Cmd, bool, string) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			p.close()
			return p, nil, true, ""
		case "enter":
			value := strings.TrimSpace(p.input.Value())
			return p, nil, true, value
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false, ""
}

func (p prompt) view(width int) string {
	w := width - 4
	if w > 70 {
		w = 70
	}
	p.input.Width = w - 6
	return ModalBox.Width(w).Render(ViewTitle.Render(p.title) + "\n" + p.input.View() + "\n" + HelpStyle.Render("enter confirm  esc cancel"))
}

// splitNameQuery parses "Name" or "Name https://feed.url". Names may hold
// spaces; a trailing URL becomes the query.
func splitNameQuery(input string) (name, query string) {
	fields := strings.Fields(input)
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		if strings.HasPrefix(last, "http://") || strings.HasPrefix(last, "https://") {
			return strings.Join(fields[:len(fields)-1], " "), last
		}
	}
	return strings.Join(fields, " "), ""
}
