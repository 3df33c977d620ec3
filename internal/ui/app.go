package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abelbrown/hogwash/internal/config"
	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/eventlog"
	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/newsroom"
	"github.com/abelbrown/hogwash/internal/player"
	"github.com/abelbrown/hogwash/internal/session"
	"github.com/abelbrown/hogwash/internal/ui/command"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Recommender produces suggestions from a watch-history seed.
type Recommender interface {
	Recommend(ctx context.Context, history []model.Video) ([]model.Suggestion, error)
}

// Persister is the slice of the store the UI writes through.
type Persister interface {
	SavePlatforms(platforms []model.Platform) error
	SaveNewsroom(g *newsroom.Grid) error
	RecordShare(v model.Video, url string, points int) (int, error)
	Points() (int, error)
}

var errNoRecommender = errors.New("no AI provider configured")

// Deps wires the App to the rest of the program.
// IMPORTANT: every mutation of Content and Session happens in Update. Commands
// only fetch and report back.
type Deps struct {
	Content     *content.Store
	Session     *session.Session
	Fetcher     content.Fetcher
	Fallback    content.Fetcher // placeholder source used when Fetcher fails
	Recommender Recommender     // nil disables Forage For Me
	Persist     Persister
	Events      <-chan player.Event
	Newsroom    *newsroom.Grid
	Clipboard   func(string) error
	OpenURL     func(string) error
	Feed        config.FeedConfig
	LivePoll    time.Duration
	Log         *eventlog.Logger     // may be nil
	Ring        *eventlog.RingBuffer // backs the debug overlay; may be nil
}

// App is the root Bubble Tea model.
type App struct {
	deps Deps

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	palette  command.Palette
	prompt   prompt
	md       *markdown

	width  int
	height int

	// feed shelves
	row int
	col int

	// grid and list views
	cursor    int
	grid      masonry
	scroll    scroller
	animating bool

	position float64
	duration float64

	notice    string
	noticeErr bool
	noticeID  int

	points int
	debug  bool
}

// NewApp creates the App. Content, Session and Fetcher are required.
func NewApp(d Deps) App {
	if d.Newsroom == nil {
		d.Newsroom = newsroom.New()
	}
	if d.LivePoll <= 0 {
		d.LivePoll = 30 * time.Second
	}
	if d.Feed.ScrollThreshold <= 0 {
		d.Feed.ScrollThreshold = 4
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ViewTitle

	return App{
		deps:     d,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		palette:  command.New(),
		prompt:   newPrompt(),
		md:       &markdown{},
		scroll:   newScroller(),
		width:    80,
		height:   24,
	}
}

// Init starts the bulk refresh, the live poll and the player listener.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{listenForPlayerEvents(a.deps.Events)}
	if a.deps.Feed.RefreshOnStart {
		cmds = append(cmds, a.nextBulk(""))
	}
	if err := a.deps.Content.BeginLive(); err == nil {
		cmds = append(cmds, pollLive(a.deps.Fetcher, a.deps.Log))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if eventlog.TraceEnabled() {
		a.deps.Log.Emit(eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.palette.SetWidth(min(msg.Width, 70))
		a.progress.Width = max(10, msg.Width-24)
		a.relayout()
		return a, nil

	case PageLoaded:
		return a.handlePageLoaded(msg)

	case LiveLoaded:
		if a.deps.Content.ApplyLive(msg.Videos, msg.Err) && a.deps.Session.View() == session.ViewLive {
			a.clampCursor()
		}
		return a, liveTick(a.deps.LivePoll)

	case LiveTick:
		if err := a.deps.Content.BeginLive(); err != nil {
			return a, liveTick(a.deps.LivePoll)
		}
		return a, pollLive(a.deps.Fetcher, a.deps.Log)

	case RecommendDone:
		err := a.deps.Session.CompleteRecommend(msg.ID, msg.Suggestions, msg.Err)
		a.cursor = 0
		a.relayout()
		if err != nil {
			cmd := a.fail(err)
			return a, cmd
		}
		return a, nil

	case PlayerEvent:
		cmd := a.handlePlayerEvent(msg.Event)
		return a, tea.Batch(cmd, listenForPlayerEvents(a.deps.Events))

	case NoticeExpired:
		if msg.ID == a.noticeID {
			a.notice = ""
			a.noticeErr = false
		}
		return a, nil

	case RelayoutTick:
		a.relayout()
		cmd := a.follow()
		return a, cmd

	case AnimTick:
		a.scroll.step()
		if a.scroll.moving() {
			return a, animate()
		}
		a.animating = false
		return a, nil

	case Shared:
		return a.handleShared(msg)

	case PointsLoaded:
		if msg.Err != nil {
			logging.Warn("Loading points failed", "error", msg.Err)
			return a, nil
		}
		a.points = msg.Total
		return a, nil

	case ActionFailed:
		cmd := a.fail(msg.Err)
		return a, cmd

	case spinner.TickMsg:
		if state, _ := a.deps.Session.Recommend(); state != session.RecommendLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.prompt.active() {
		var cmd tea.Cmd
		a.prompt.input, cmd = a.prompt.input.Update(msg)
		return a, cmd
	}
	if a.palette.IsActive() {
		var cmd tea.Cmd
		a.palette, cmd, _ = a.palette.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handlePageLoaded(msg PageLoaded) (tea.Model, tea.Cmd) {
	res := msg.Result
	_, err := a.deps.Content.Apply(res)

	var cmds []tea.Cmd
	switch {
	case err != nil && !errors.Is(err, content.ErrUnknownPlatform):
		cmds = append(cmds, a.warn(fmt.Sprintf("Could not load %s feed.", a.platformName(res.Platform))))
	case res.Fallback:
		cmds = append(cmds, a.warn(fmt.Sprintf("Could not load %s feed. Showing mock content.", a.platformName(res.Platform))))
	}
	if msg.Bulk {
		cmds = append(cmds, a.nextBulk(res.Platform))
	}
	if a.showsGrid() {
		cmds = append(cmds, relayoutAfter(relayoutDelay))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handlePlayerEvent(ev player.Event) tea.Cmd {
	s := a.deps.Session
	switch ev.Kind {
	case player.EventReady:
		a.deps.Log.Info(eventlog.KindPlayerReady, "player", "")
		if err := s.Ready(); err != nil {
			return a.fail(err)
		}
	case player.EventLoaded:
		a.position, a.duration = 0, 0
	case player.EventProgress:
		a.position = ev.Position
		if ev.Duration > 0 {
			a.duration = ev.Duration
		}
	case player.EventPaused:
		s.SetPaused(true)
	case player.EventResumed:
		s.SetPaused(false)
	case player.EventEnded:
		a.deps.Log.Info(eventlog.KindPlayerEnded, "player", a.deps.Session.Media().Title)
		a.position, a.duration = 0, 0
		before := s.View()
		err := s.Ended()
		if s.View() != before {
			a.resetCursor()
		} else {
			a.cursor = a.playingIndex()
		}
		a.relayout()
		cmd := a.follow()
		if err != nil {
			return tea.Batch(cmd, a.fail(err))
		}
		return cmd
	case player.EventError:
		logging.Warn("Player error", "error", ev.Err)
		a.deps.Log.Error(eventlog.KindPlayerError, "player", ev.Err)
		if ev.Err != nil {
			return a.fail(fmt.Errorf("player: %w", ev.Err))
		}
	}
	return nil
}

func (a App) handleShared(msg Shared) (tea.Model, tea.Cmd) {
	if msg.StoreErr != nil {
		logging.Warn("Recording share failed", "error", msg.StoreErr)
	} else {
		a.points = msg.Total
	}
	if !msg.Copied {
		cmd := a.say(fmt.Sprintf("SLOP SHARED! +%d WALLER Points! %s", msg.Points, msg.URL))
		return a, cmd
	}
	cmd := a.say(fmt.Sprintf("SLOP SHARED! +%d WALLER Points! Link copied.", msg.Points))
	return a, cmd
}

// nextBulk admits the first platform registered after `after` (or the
// first platform when after is empty) and returns its fetch. Platforms
// already loading are skipped.
func (a App) nextBulk(after string) tea.Cmd {
	platforms := a.deps.Content.Platforms()
	start := 0
	if after != "" {
		start = len(platforms)
		for i, p := range platforms {
			if p.ID == after {
				start = i + 1
				break
			}
		}
	}
	for _, p := range platforms[start:] {
		req, err := a.deps.Content.Begin(p.ID)
		if err != nil {
			continue
		}
		return fetchPage(req, a.deps.Fetcher, a.deps.Fallback, true, a.deps.Log)
	}
	return nil
}

// fetchMore starts a single-platform fetch unless one is in flight.
func (a App) fetchMore(id string) tea.Cmd {
	req, err := a.deps.Content.Begin(id)
	if err != nil {
		return nil
	}
	return fetchPage(req, a.deps.Fetcher, a.deps.Fallback, false, a.deps.Log)
}

func (a App) platformName(id string) string {
	if p, ok := a.deps.Content.Platform(id); ok {
		return p.Name
	}
	return id
}

// say shows a notice for a few seconds.
func (a *App) say(text string) tea.Cmd {
	a.noticeID++
	a.notice = text
	a.noticeErr = false
	return clearNoticeAfter(a.noticeID, noticeDuration)
}

func (a *App) warn(text string) tea.Cmd {
	cmd := a.say(text)
	a.noticeErr = true
	return cmd
}

func (a *App) fail(err error) tea.Cmd {
	switch {
	case errors.Is(err, player.ErrUnsupported):
		return a.warn("This player can't do that.")
	case errors.Is(err, session.ErrNothingPlaying):
		return a.warn("Nothing is playing.")
	case errors.Is(err, session.ErrNoLiveContent):
		return a.warn("Connecting to the forage... try again in a moment.")
	case errors.Is(err, session.ErrNothingToBinge):
		return a.warn("No playable videos loaded for HOGG WILD. Feeds might still be populating.")
	case errors.Is(err, session.ErrNoHistory):
		return a.warn("You haven't watched any videos yet!")
	case errors.Is(err, session.ErrForageExhausted):
		return a.warn("That's all the foraged slop for now!")
	}
	return a.warn(err.Error())
}

// showsGrid reports whether the current view is a masonry grid.
func (a App) showsGrid() bool {
	switch a.deps.Session.View() {
	case session.ViewPlayer, session.ViewBinge:
		return true
	}
	return false
}

// relayout recomputes the grid for the current playlist.
func (a *App) relayout() {
	a.clampCursor()
	if !a.showsGrid() {
		return
	}
	a.grid = layoutMasonry(a.deps.Session.Playlist(), a.width)
}

func (a *App) clampCursor() {
	n := len(a.deps.Session.Playlist())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// playingIndex is the playlist position of the playing record, or the
// current cursor when it isn't in the playlist.
func (a App) playingIndex() int {
	key := a.nowKey()
	for i, v := range a.deps.Session.Playlist() {
		if v.Key() == key {
			return i
		}
	}
	return a.cursor
}

func (a *App) resetCursor() {
	a.cursor = 0
	a.scroll.reset()
	a.animating = false
}

// follow keeps the grid cursor in view, animating the scroll.
func (a *App) follow() tea.Cmd {
	if !a.showsGrid() {
		return nil
	}
	p, ok := a.grid.at(a.cursor)
	if !ok {
		return nil
	}
	a.scroll.follow(p.y, p.h, a.bodyHeight(), a.grid.height())
	if a.scroll.moving() && !a.animating {
		a.animating = true
		return animate()
	}
	return nil
}
