package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Play     key.Binding
	Trough   key.Binding
	Live     key.Binding
	Binge    key.Binding
	Forage   key.Binding
	History  key.Binding
	Mudhole  key.Binding
	Newsroom key.Binding
	Add      key.Binding
	Jump     key.Binding
	Refresh  key.Binding
	Close    key.Binding
	Quit     key.Binding
	Help     key.Binding
	Debug    key.Binding

	Pause      key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	VolDown    key.Binding
	VolUp      key.Binding
	Mute       key.Binding
	Fullscreen key.Binding
	Share      key.Binding
	Open       key.Binding

	// newsroom only
	Grow   key.Binding
	Shrink key.Binding
	Edit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Trough:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trough")),
		Live:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "live")),
		Binge:    key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "hogg wild")),
		Forage:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "forage")),
		History:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "left-overs")),
		Mudhole:  key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mud hole")),
		Newsroom: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "newsroom")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add platform")),
		Jump:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "jump")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Debug:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "events")),

		Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		SeekBack:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "-10s")),
		SeekFwd:    key.NewBinding(key.WithKeys("."), key.WithHelp(".", "+10s")),
		VolDown:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "vol down")),
		VolUp:      key.NewBinding(key.WithKeys("="), key.WithHelp("=", "vol up")),
		Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Share:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "browser")),

		Grow:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more cells")),
		Shrink: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer cells")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit cell")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Live, k.Binge, k.Forage, k.History, k.Close, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Play, k.Trough},
		{k.Live, k.Binge, k.Forage, k.History, k.Mudhole, k.Newsroom},
		{k.Add, k.Jump, k.Refresh, k.Close, k.Debug, k.Help, k.Quit},
		{k.Pause, k.SeekBack, k.SeekFwd, k.VolDown, k.VolUp, k.Mute, k.Fullscreen, k.Share, k.Open},
	}
}
