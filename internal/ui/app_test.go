package ui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/abelbrown/hogwash/internal/config"
	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/eventlog"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/newsroom"
	"github.com/abelbrown/hogwash/internal/player"
	"github.com/abelbrown/hogwash/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

type stubFetcher struct {
	n   int
	err error
}

var _ content.Fetcher = stubFetcher{}

func (f stubFetcher) list(platform string, variant func(i int) model.Variant) ([]model.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Video, f.n)
	for i := range out {
		out[i] = model.Video{
			ID:       fmt.Sprintf("%s-%d", platform, i),
			Platform: platform,
			Title:    fmt.Sprintf("%s clip %d", platform, i),
			Author:   "hog",
			Variant:  variant(i),
		}
	}
	return out, nil
}

func (f stubFetcher) FetchPage(ctx context.Context, p model.Platform, page, size int) ([]model.Video, error) {
	return f.list(p.ID, func(i int) model.Variant { return model.VOD{Virality: 900 - i, MediaID: "dQw4w9WgXcQ"} })
}

func (f stubFetcher) FetchTrending(ctx context.Context) ([]model.Video, error) {
	return f.list(model.PlatformTikTok, func(i int) model.Variant { return model.Clip{Virality: 500 - i} })
}

func (f stubFetcher) FetchTopStreams(ctx context.Context) ([]model.Video, error) {
	return f.list(model.PlatformTwitch, func(i int) model.Variant { return model.Stream{UserName: "streamer"} })
}

func (f stubFetcher) FetchLive(ctx context.Context) ([]model.Video, error) {
	return f.list(model.PlatformLive, func(i int) model.Variant { return model.Live{MediaID: "kJQP7kiw5Fk"} })
}

type stubEmbed struct {
	loads []player.Media
	stops int
}

func (e *stubEmbed) Ready() bool                 { return true }
func (e *stubEmbed) Load(m player.Media) error   { e.loads = append(e.loads, m); return nil }
func (e *stubEmbed) Stop() error                 { e.stops++; return nil }
func (e *stubEmbed) Events() <-chan player.Event { return nil }
func (e *stubEmbed) Close() error                { return nil }
func (e *stubEmbed) TogglePause() error          { return nil }
func (e *stubEmbed) Seek(float64) error          { return nil }
func (e *stubEmbed) AdjustVolume(int) error      { return nil }
func (e *stubEmbed) ToggleMute() error           { return nil }
func (e *stubEmbed) ToggleFullscreen() error     { return player.ErrUnsupported }

type stubPersist struct {
	platforms [][]model.Platform
	grids     []newsroom.Grid
	shares    []string
	total     int
}

func (p *stubPersist) SavePlatforms(ps []model.Platform) error {
	p.platforms = append(p.platforms, ps)
	return nil
}

func (p *stubPersist) SaveNewsroom(g *newsroom.Grid) error {
	p.grids = append(p.grids, *g)
	return nil
}

func (p *stubPersist) RecordShare(v model.Video, url string, points int) (int, error) {
	p.shares = append(p.shares, url)
	p.total += points
	return p.total, nil
}

func (p *stubPersist) Points() (int, error) { return p.total, nil }

type stubRecommender struct {
	sugs []model.Suggestion
	err  error
}

func (r stubRecommender) Recommend(ctx context.Context, history []model.Video) ([]model.Suggestion, error) {
	return r.sugs, r.err
}

type harness struct {
	app     App
	content *content.Store
	session *session.Session
	embed   *stubEmbed
	persist *stubPersist
	copied  []string
	opened  []string
}

func newHarness(t *testing.T, n int, rec Recommender) *harness {
	t.Helper()
	h := &harness{
		content: content.New(20),
		embed:   &stubEmbed{},
		persist: &stubPersist{},
	}
	h.session = session.New(session.Options{
		Content: h.content,
		Embed:   h.embed,
		Rand:    rand.New(rand.NewSource(1)),
	})
	h.app = NewApp(Deps{
		Content:     h.content,
		Session:     h.session,
		Fetcher:     stubFetcher{n: n},
		Fallback:    stubFetcher{n: 3},
		Recommender: rec,
		Persist:     h.persist,
		Newsroom:    newsroom.New(),
		Clipboard:   func(s string) error { h.copied = append(h.copied, s); return nil },
		OpenURL:     func(s string) error { h.opened = append(h.opened, s); return nil },
		Feed:        config.FeedConfig{PageSize: 20, ScrollThreshold: 2},
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	m, cmd := h.app.Update(msg)
	h.app = m.(App)
	return cmd
}

func (h *harness) press(keys string) tea.Cmd {
	switch keys {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case " ":
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// load fills a platform synchronously.
func (h *harness) load(t *testing.T, id string, f content.Fetcher) {
	t.Helper()
	if _, err := h.content.Load(context.Background(), id, f, nil); err != nil {
		t.Fatalf("load %s: %v", id, err)
	}
}

// run executes cmd and any batch it expands to. Only use it for commands
// known not to sleep.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestInitAdmitsFirstPlatformAndLive(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.app.deps.Feed.RefreshOnStart = true

	if cmd := h.app.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if !h.content.Loading(model.PlatformYouTube) {
		t.Error("bulk refresh should start with the first platform")
	}
	if h.content.Loading(model.PlatformTikTok) {
		t.Error("bulk refresh is sequential")
	}
	if !h.content.Loading(content.LiveKey) {
		t.Error("Init should start the live poll")
	}
}

func TestBulkRefreshChainsPlatforms(t *testing.T) {
	h := newHarness(t, 5, nil)

	req, err := h.content.Begin(model.PlatformYouTube)
	if err != nil {
		t.Fatal(err)
	}
	res := req.Fetch(context.Background(), stubFetcher{n: 5}, nil)
	if cmd := h.send(PageLoaded{Result: res, Bulk: true}); cmd == nil {
		t.Fatal("bulk step should chain the next platform")
	}

	if got := len(h.content.List(model.PlatformYouTube)); got != 5 {
		t.Errorf("youtube has %d cards, want 5", got)
	}
	if !h.content.Loading(model.PlatformTikTok) {
		t.Error("tiktok should be next")
	}
}

func TestFallbackShowsNotice(t *testing.T) {
	h := newHarness(t, 5, nil)

	req, _ := h.content.Begin(model.PlatformTikTok)
	res := req.Fetch(context.Background(), stubFetcher{err: errors.New("oembed down")}, stubFetcher{n: 3})
	h.send(PageLoaded{Result: res})

	if h.app.notice != "Could not load TikTok feed. Showing mock content." {
		t.Errorf("notice = %q", h.app.notice)
	}
	if got := len(h.content.List(model.PlatformTikTok)); got != 3 {
		t.Errorf("tiktok has %d cards, want 3 placeholders", got)
	}
}

func TestFeedEnterPlaysSelectedCard(t *testing.T) {
	h := newHarness(t, 6, nil)
	h.load(t, model.PlatformYouTube, stubFetcher{n: 6})

	h.press("l")
	h.press("l")
	h.press("enter")

	if h.session.View() != session.ViewPlayer || h.session.Platform() != model.PlatformYouTube {
		t.Fatalf("view = %v/%s", h.session.View(), h.session.Platform())
	}
	v, ok := h.session.NowPlaying()
	if !ok || v.ID != "youtube-2" {
		t.Errorf("now playing = %+v", v)
	}
	if h.app.cursor != 2 {
		t.Errorf("grid cursor = %d, want 2", h.app.cursor)
	}
	if len(h.embed.loads) != 1 {
		t.Errorf("embed loads = %d", len(h.embed.loads))
	}
}

func TestScrollNearEndFetchesNextPage(t *testing.T) {
	h := newHarness(t, 4, nil)
	h.load(t, model.PlatformYouTube, stubFetcher{n: 4})

	h.press("l")
	if h.content.Loading(model.PlatformYouTube) {
		t.Fatal("should not fetch far from the end")
	}
	h.press("l")
	if !h.content.Loading(model.PlatformYouTube) {
		t.Error("moving within the threshold should fetch the next page")
	}
}

func TestEndedAdvancesAndFollows(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.load(t, model.PlatformYouTube, stubFetcher{n: 3})
	h.press("enter")

	h.send(PlayerEvent{Event: player.Event{Kind: player.EventEnded}})
	v, _ := h.session.NowPlaying()
	if v.ID != "youtube-1" {
		t.Errorf("after ended now playing = %s, want youtube-1", v.ID)
	}
	if h.app.cursor != 1 {
		t.Errorf("cursor = %d, want 1", h.app.cursor)
	}
}

func TestRefusedBingeShowsNotice(t *testing.T) {
	h := newHarness(t, 0, nil)
	h.press("B")

	if h.session.View() != session.ViewFeed {
		t.Errorf("view = %v", h.session.View())
	}
	if h.app.notice != "No playable videos loaded for HOGG WILD. Feeds might still be populating." || !h.app.noticeErr {
		t.Errorf("notice = %q", h.app.notice)
	}
}

func TestSessionErrorsBecomeNotices(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{session.ErrNoLiveContent, "Connecting to the forage... try again in a moment."},
		{session.ErrNoHistory, "You haven't watched any videos yet!"},
		{fmt.Errorf("advance: %w", session.ErrForageExhausted), "That's all the foraged slop for now!"},
		{session.ErrNothingPlaying, "Nothing is playing."},
		{errors.New("quota exceeded"), "quota exceeded"},
	}
	for _, tt := range tests {
		h := newHarness(t, 0, nil)
		h.app.fail(tt.err)
		if h.app.notice != tt.want || !h.app.noticeErr {
			t.Errorf("fail(%v) notice = %q, want %q", tt.err, h.app.notice, tt.want)
		}
	}
}

func TestEscClosesToFeed(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.load(t, model.PlatformYouTube, stubFetcher{n: 3})
	h.press("B")
	if h.session.View() != session.ViewBinge {
		t.Fatalf("view = %v", h.session.View())
	}

	h.press("esc")
	if h.session.View() != session.ViewFeed {
		t.Errorf("view = %v", h.session.View())
	}
	if _, ok := h.session.NowPlaying(); ok {
		t.Error("closing should stop playback")
	}
	if h.embed.stops == 0 {
		t.Error("embed should be stopped")
	}
}

func TestForageFlow(t *testing.T) {
	rec := stubRecommender{sugs: []model.Suggestion{
		{Title: "Pig races", Author: "farm", Platform: "youtube", Reason: "you like pigs"},
		{Title: "Mud spa", Author: "spa", Platform: "tiktok", Reason: "relaxing"},
	}}
	h := newHarness(t, 3, rec)

	h.press("R")
	if state, _ := h.session.Recommend(); state != session.RecommendEmpty {
		t.Fatalf("empty history should not request, state = %v", state)
	}

	h.press("esc")
	h.load(t, model.PlatformYouTube, stubFetcher{n: 3})
	h.press("enter")
	cmd := h.press("R")
	if state, _ := h.session.Recommend(); state != session.RecommendLoading {
		t.Fatalf("state = %v, want loading", state)
	}

	var done *RecommendDone
	for _, msg := range run(cmd) {
		if d, ok := msg.(RecommendDone); ok {
			done = &d
		}
	}
	if done == nil {
		t.Fatal("no RecommendDone produced")
	}
	h.send(*done)

	if state, _ := h.session.Recommend(); state != session.RecommendReady {
		t.Fatalf("state = %v, want ready", state)
	}
	v, _ := h.session.NowPlaying()
	if v.Title != "Pig races" {
		t.Errorf("now playing %q", v.Title)
	}
	if !strings.Contains(h.app.View(), "Mud spa") {
		t.Error("recommend view should list the suggestions")
	}
}

func TestForageFailureShownInPlace(t *testing.T) {
	h := newHarness(t, 3, stubRecommender{err: errors.New("rate limited")})
	h.load(t, model.PlatformYouTube, stubFetcher{n: 3})
	h.press("enter")

	for _, msg := range run(h.press("R")) {
		if d, ok := msg.(RecommendDone); ok {
			h.send(d)
		}
	}

	view := h.app.View()
	if !strings.Contains(view, recommendFailed) || !strings.Contains(view, "rate limited") {
		t.Errorf("failure should be shown in place, got:\n%s", view)
	}
}

func TestShareCopiesAndCredits(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.load(t, model.PlatformYouTube, stubFetcher{n: 3})

	msgs := run(h.press("s"))
	if len(msgs) != 1 {
		t.Fatalf("share produced %d messages", len(msgs))
	}
	shared, ok := msgs[0].(Shared)
	if !ok {
		t.Fatalf("got %T", msgs[0])
	}
	want := model.ShareURL(h.content.List(model.PlatformYouTube)[0])
	if len(h.copied) != 1 || h.copied[0] != want {
		t.Errorf("copied %v, want %s", h.copied, want)
	}

	h.send(shared)
	wantNotice := fmt.Sprintf("SLOP SHARED! +%d WALLER Points! Link copied.", shared.Points)
	if h.app.notice != wantNotice {
		t.Errorf("notice = %q, want %q", h.app.notice, wantNotice)
	}
	if h.app.points != shared.Points {
		t.Errorf("points = %d", h.app.points)
	}
}

func TestControlsWithoutPlayback(t *testing.T) {
	h := newHarness(t, 0, nil)
	h.press(" ")
	if h.app.notice != "Nothing is playing." {
		t.Errorf("notice = %q", h.app.notice)
	}
}

func TestNoticeExpiry(t *testing.T) {
	h := newHarness(t, 0, nil)
	h.press("B")
	id := h.app.noticeID

	h.send(NoticeExpired{ID: id - 1})
	if h.app.notice == "" {
		t.Error("stale expiry should not clear a newer notice")
	}
	h.send(NoticeExpired{ID: id})
	if h.app.notice != "" {
		t.Errorf("notice = %q after expiry", h.app.notice)
	}
}

func TestAddPlatformPrompt(t *testing.T) {
	h := newHarness(t, 0, nil)

	h.press("a")
	if !h.app.prompt.active() {
		t.Fatal("prompt should open")
	}
	h.typeText("Cute Pigs")
	h.press("enter")

	if h.app.prompt.active() {
		t.Error("prompt should close")
	}
	p, ok := h.content.Platform("cutepigs")
	if !ok || p.Name != "Cute Pigs" {
		t.Fatalf("platform = %+v, %v", p, ok)
	}
	if !h.content.Loading("cutepigs") {
		t.Error("new platform should fetch its first page")
	}
}

func TestAddPlatformCancel(t *testing.T) {
	h := newHarness(t, 0, nil)
	before := len(h.content.Platforms())

	h.press("a")
	h.typeText("Nope")
	h.press("esc")

	if h.app.prompt.active() || len(h.content.Platforms()) != before {
		t.Error("esc should cancel without adding")
	}
}

func TestJumpOpensTrough(t *testing.T) {
	h := newHarness(t, 0, nil)

	h.press("/")
	h.typeText("tik")
	h.press("enter")

	if h.session.View() != session.ViewPlayer || h.session.Platform() != model.PlatformTikTok {
		t.Errorf("view = %v/%s", h.session.View(), h.session.Platform())
	}
	if !h.content.Loading(model.PlatformTikTok) {
		t.Error("an empty trough should fetch")
	}
}

func TestNewsroomKeys(t *testing.T) {
	h := newHarness(t, 0, nil)
	g := h.app.deps.Newsroom

	h.press("N")
	if h.session.View() != session.ViewNewsroom {
		t.Fatalf("view = %v", h.session.View())
	}

	run(h.press("+"))
	if g.Size != 3 {
		t.Errorf("size = %d, want 3", g.Size)
	}
	if len(h.persist.grids) != 1 || h.persist.grids[0].Size != 3 {
		t.Errorf("grid not persisted: %+v", h.persist.grids)
	}

	h.press("l")
	if g.Focus != 1 || !g.Muted(0) {
		t.Errorf("focus = %d", g.Focus)
	}

	h.press("e")
	h.typeText("Hog Cam https://www.twitch.tv/hogcam")
	run(h.press("enter"))
	if s := g.Streams[1]; s.Name != "Hog Cam" || s.Type != newsroom.TypeTwitch {
		t.Errorf("cell 1 = %+v", s)
	}

	run(h.press("enter"))
	if len(h.opened) != 1 || h.opened[0] != "https://www.twitch.tv/hogcam" {
		t.Errorf("opened = %v", h.opened)
	}
}

func TestDebugToggleNeedsRing(t *testing.T) {
	h := newHarness(t, 0, nil)
	h.press("D")
	if h.app.debug {
		t.Error("debug overlay needs a ring buffer")
	}

	h.app.deps.Ring = eventlog.NewRingBuffer(8)
	h.press("D")
	if !h.app.debug || !strings.Contains(h.app.View(), "Trough Stats") {
		t.Error("debug overlay should show")
	}
}

func TestViewsRender(t *testing.T) {
	h := newHarness(t, 4, nil)
	h.load(t, model.PlatformYouTube, stubFetcher{n: 4})
	h.load(t, model.PlatformTikTok, stubFetcher{n: 4})
	if _, err := h.content.LoadLive(context.Background(), stubFetcher{n: 3}); err != nil {
		t.Fatal(err)
	}

	if v := h.app.View(); !strings.Contains(v, "YouTube") || !strings.Contains(v, "LIVE") {
		t.Errorf("feed view missing shelves:\n%s", v)
	}

	for _, k := range []string{"B", "L", "H", "M", "N"} {
		h.press(k)
		if h.app.View() == "" {
			t.Errorf("view after %q is empty", k)
		}
	}
}
