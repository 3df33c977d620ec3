package ui

import (
	"fmt"

	"github.com/abelbrown/hogwash/internal/eventlog"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/newsroom"
	"github.com/abelbrown/hogwash/internal/session"
	"github.com/abelbrown/hogwash/internal/ui/command"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	seekStep   = 10
	volumeStep = 5
)

// handleKeyMsg processes keyboard input. Modals get keys first.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.prompt.active() {
		return a.handlePromptKey(msg)
	}
	if a.palette.IsActive() {
		var cmd tea.Cmd
		var id string
		a.palette, cmd, id = a.palette.Update(msg)
		if id == "" {
			return a, cmd
		}
		return a.openTrough(id)
	}

	s := a.deps.Session
	k := a.keys
	view := s.View()

	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit

	case key.Matches(msg, k.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, k.Debug):
		a.debug = !a.debug && a.deps.Ring != nil
		return a, nil

	case key.Matches(msg, k.Close):
		if view != session.ViewFeed {
			s.CloseToFeed()
			a.position, a.duration = 0, 0
			a.resetCursor()
		}
		return a, nil

	case key.Matches(msg, k.Live):
		if err := s.OpenLive(); err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		a.resetCursor()
		return a, nil

	case key.Matches(msg, k.Binge):
		if err := s.StartBinge(); err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		a.resetCursor()
		a.relayout()
		cmd := a.follow()
		return a, cmd

	case key.Matches(msg, k.Forage):
		return a.startRecommend()

	case key.Matches(msg, k.History):
		if err := s.OpenHistory(); err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		a.resetCursor()
		return a, nil

	case key.Matches(msg, k.Mudhole):
		s.OpenMudhole()
		a.resetCursor()
		if a.deps.Persist == nil {
			return a, nil
		}
		return a, loadPoints(a.deps.Persist)

	case key.Matches(msg, k.Newsroom):
		s.OpenNewsroom()
		a.resetCursor()
		return a, nil

	case key.Matches(msg, k.Add):
		cmd := a.prompt.open(promptAddPlatform, "Add a platform", "Name or Name https://example.com/feed.xml", "")
		return a, cmd

	case key.Matches(msg, k.Jump):
		cmd := a.palette.Activate(a.troughTargets())
		return a, cmd

	case key.Matches(msg, k.Refresh):
		return a, a.nextBulk("")
	}

	if view == session.ViewNewsroom {
		return a.handleNewsroomKey(msg)
	}

	if cmd, ok := a.handleControlKey(msg); ok {
		return a, cmd
	}

	if view == session.ViewFeed {
		return a.handleFeedKey(msg)
	}
	return a.handlePlaylistKey(msg)
}

// handleControlKey maps player and share keys. ok is false when msg is
// not one of them.
func (a *App) handleControlKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.deps.Session
	k := a.keys

	var err error
	switch {
	case key.Matches(msg, k.Pause):
		err = s.TogglePause()
	case key.Matches(msg, k.SeekBack):
		err = s.Seek(-seekStep)
	case key.Matches(msg, k.SeekFwd):
		err = s.Seek(seekStep)
	case key.Matches(msg, k.VolDown):
		err = s.AdjustVolume(-volumeStep)
	case key.Matches(msg, k.VolUp):
		err = s.AdjustVolume(volumeStep)
	case key.Matches(msg, k.Mute):
		err = s.ToggleMute()
	case key.Matches(msg, k.Fullscreen):
		err = s.ToggleFullscreen()

	case key.Matches(msg, k.Share):
		v, ok := a.target()
		if !ok {
			return a.warn("Nothing to share."), true
		}
		return share(v, a.deps.Clipboard, a.deps.Persist, a.deps.Log), true

	case key.Matches(msg, k.Open):
		v, ok := a.target()
		if !ok || a.deps.OpenURL == nil {
			return a.warn("Nothing to open."), true
		}
		return openURL(a.deps.OpenURL, model.ShareURL(v)), true

	default:
		return nil, false
	}
	if err != nil {
		return a.fail(err), true
	}
	return nil, true
}

// target is the record share and open act on: the selected card when
// there is one, else whatever is playing.
func (a App) target() (model.Video, bool) {
	if v, ok := a.selected(); ok {
		return v, true
	}
	return a.deps.Session.NowPlaying()
}

// selected returns the card under the cursor.
func (a App) selected() (model.Video, bool) {
	if a.deps.Session.View() == session.ViewFeed {
		platforms := a.deps.Content.Platforms()
		if a.row >= len(platforms) {
			return model.Video{}, false
		}
		list := a.deps.Content.List(platforms[a.row].ID)
		if a.col >= len(list) {
			return model.Video{}, false
		}
		return list[a.col], true
	}
	list := a.deps.Session.Playlist()
	if a.cursor < 0 || a.cursor >= len(list) {
		return model.Video{}, false
	}
	return list[a.cursor], true
}

func (a App) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	platforms := a.deps.Content.Platforms()
	if len(platforms) == 0 {
		return a, nil
	}
	a.row = min(a.row, len(platforms)-1)
	id := platforms[a.row].ID
	n := len(a.deps.Content.List(id))
	k := a.keys

	switch {
	case key.Matches(msg, k.Up):
		if a.row > 0 {
			a.row--
			a.col = 0
		}
	case key.Matches(msg, k.Down):
		if a.row < len(platforms)-1 {
			a.row++
			a.col = 0
		}
	case key.Matches(msg, k.Left):
		if a.col > 0 {
			a.col--
		}
	case key.Matches(msg, k.Right):
		if a.col < n-1 {
			a.col++
		}
		if n-1-a.col < a.deps.Feed.ScrollThreshold {
			return a, a.fetchMore(id)
		}

	case key.Matches(msg, k.Trough):
		col := a.col
		m, cmd := a.openTrough(id)
		app := m.(App)
		app.cursor = min(col, max(0, n-1))
		app.relayout()
		cmd = tea.Batch(cmd, app.follow())
		return app, cmd

	case key.Matches(msg, k.Play):
		if a.col >= n {
			return a, nil
		}
		if err := a.deps.Session.OpenPlayer(id); err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		a.resetCursor()
		a.cursor = a.col
		err := a.deps.Session.PlayAt(a.col)
		a.logPlay()
		a.relayout()
		cmd := a.follow()
		if err != nil {
			cmd = tea.Batch(cmd, a.fail(err))
			return a, cmd
		}
		return a, cmd
	}
	return a, nil
}

// handlePlaylistKey drives the grid and list views.
func (a App) handlePlaylistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.deps.Session
	n := len(s.Playlist())
	k := a.keys
	grid := a.showsGrid()

	switch {
	case key.Matches(msg, k.Up):
		if grid {
			a.cursor = a.grid.vertical(a.cursor, -1)
		} else if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, k.Down):
		if grid {
			a.cursor = a.grid.vertical(a.cursor, 1)
		} else if a.cursor < n-1 {
			a.cursor++
		}
	case key.Matches(msg, k.Left):
		if grid {
			a.cursor = a.grid.horizontal(a.cursor, -1)
		}
	case key.Matches(msg, k.Right):
		if grid {
			a.cursor = a.grid.horizontal(a.cursor, 1)
		}
	case key.Matches(msg, k.Play):
		if n == 0 {
			return a, nil
		}
		err := s.PlayAt(a.cursor)
		a.logPlay()
		if err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		return a, nil
	default:
		return a, nil
	}

	var cmds []tea.Cmd
	if grid {
		cmds = append(cmds, a.follow())
	}
	if s.View() == session.ViewPlayer && n-1-a.cursor < a.deps.Feed.ScrollThreshold {
		cmds = append(cmds, a.fetchMore(s.Platform()))
	}
	return a, tea.Batch(cmds...)
}

func (a App) logPlay() {
	v, ok := a.deps.Session.NowPlaying()
	if !ok {
		return
	}
	m := a.deps.Session.Media()
	a.deps.Log.Emit(eventlog.Event{Level: eventlog.LevelInfo, Kind: eventlog.KindPlay, Comp: "ui", Platform: v.Platform, Msg: m.Kind.String() + " " + m.URL})
}

func (a App) handleNewsroomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := a.deps.Newsroom
	k := a.keys

	switch {
	case key.Matches(msg, k.Up):
		g.MoveFocus(0, -1)
	case key.Matches(msg, k.Down):
		g.MoveFocus(0, 1)
	case key.Matches(msg, k.Left):
		g.MoveFocus(-1, 0)
	case key.Matches(msg, k.Right):
		g.MoveFocus(1, 0)
	case key.Matches(msg, k.Grow):
		g.Grow()
		return a, a.saveNewsroom()
	case key.Matches(msg, k.Shrink):
		g.Shrink()
		return a, a.saveNewsroom()
	case key.Matches(msg, k.Edit):
		value := ""
		if st := g.Streams[g.Focus]; !st.Empty() {
			value = st.Name + " " + st.URL
		}
		cmd := a.prompt.open(promptEditCell, fmt.Sprintf("Cell %d", g.Focus+1), "Name https://www.youtube.com/watch?v=...", value)
		return a, cmd
	case key.Matches(msg, k.Play):
		st, ok := g.Focused()
		if !ok || a.deps.OpenURL == nil {
			cmd := a.warn("This cell is empty. Press e to assign a stream.")
			return a, cmd
		}
		return a, openURL(a.deps.OpenURL, st.URL)
	}
	return a, nil
}

func (a App) saveNewsroom() tea.Cmd {
	if a.deps.Persist == nil {
		return nil
	}
	g := *a.deps.Newsroom
	g.Streams = append([]newsroom.Stream(nil), g.Streams...)
	return persist(func() error { return a.deps.Persist.SaveNewsroom(&g) })
}

func (a App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := a.prompt.kind
	var cmd tea.Cmd
	var done bool
	var value string
	a.prompt, cmd, done, value = a.prompt.update(msg)
	if !done {
		return a, cmd
	}
	if !a.prompt.active() {
		// cancelled
		return a, nil
	}
	a.prompt.close()

	switch kind {
	case promptAddPlatform:
		return a.addPlatform(value)
	case promptEditCell:
		return a.editCell(value)
	}
	return a, nil
}

func (a App) addPlatform(input string) (tea.Model, tea.Cmd) {
	name, query := splitNameQuery(input)
	p, err := a.deps.Content.AddPlatform(name, query)
	if err != nil {
		cmd := a.fail(err)
		return a, cmd
	}

	cmds := []tea.Cmd{a.say(fmt.Sprintf("Added %s to the trough.", p.Name)), a.fetchMore(p.ID)}
	if a.deps.Persist != nil {
		custom := a.deps.Content.Custom()
		cmds = append(cmds, persist(func() error { return a.deps.Persist.SavePlatforms(custom) }))
	}
	a.row = len(a.deps.Content.Platforms()) - 1
	a.col = 0
	return a, tea.Batch(cmds...)
}

func (a App) editCell(input string) (tea.Model, tea.Cmd) {
	g := a.deps.Newsroom
	if input == "" {
		if err := g.Clear(g.Focus); err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		return a, a.saveNewsroom()
	}
	st, err := newsroom.ParseStream(input)
	if err != nil {
		cmd := a.fail(err)
		return a, cmd
	}
	if err := g.Assign(g.Focus, st); err != nil {
		cmd := a.fail(err)
		return a, cmd
	}
	return a, a.saveNewsroom()
}

func (a App) troughTargets() []command.Target {
	platforms := a.deps.Content.Platforms()
	ts := make([]command.Target, 0, len(platforms))
	for _, p := range platforms {
		desc := fmt.Sprintf("%d cards", len(a.deps.Content.List(p.ID)))
		if p.Query != "" {
			desc = p.Query
		}
		ts = append(ts, command.Target{ID: p.ID, Name: p.Name, Description: desc})
	}
	return ts
}

// openTrough enters the player view of a platform without playing, and
// fetches a first page if it has none.
func (a App) openTrough(id string) (tea.Model, tea.Cmd) {
	if err := a.deps.Session.OpenPlayer(id); err != nil {
		cmd := a.fail(err)
		return a, cmd
	}
	a.resetCursor()
	a.relayout()
	if len(a.deps.Content.List(id)) == 0 {
		return a, a.fetchMore(id)
	}
	return a, nil
}

func (a App) startRecommend() (tea.Model, tea.Cmd) {
	s := a.deps.Session
	req, ok := s.BeginRecommend()
	a.resetCursor()
	if !ok {
		return a, nil
	}
	if a.deps.Recommender == nil {
		err := s.CompleteRecommend(req.ID, nil, errNoRecommender)
		if err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		return a, nil
	}
	return a, tea.Batch(recommend(a.deps.Recommender, req, a.deps.Log), a.spinner.Tick)
}
