package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/player"
)

// fakeFetcher serves fixed-size lists with descending virality so sorted
// order equals generation order.
type fakeFetcher struct {
	youtube, tiktok, live int
}

func (f fakeFetcher) videos(platform string, n int, variant func(i int) model.Variant) []model.Video {
	out := make([]model.Video, n)
	for i := range out {
		out[i] = model.Video{
			ID:       fmt.Sprintf("%s-%d", platform, i),
			Platform: platform,
			Title:    fmt.Sprintf("%s video %d", platform, i),
			Variant:  variant(i),
		}
	}
	return out
}

func (f fakeFetcher) FetchPage(ctx context.Context, p model.Platform, page, size int) ([]model.Video, error) {
	return f.videos(p.ID, f.youtube, func(i int) model.Variant {
		return model.VOD{Virality: 999 - i, MediaID: "dQw4w9WgXcQ"}
	}), nil
}

func (f fakeFetcher) FetchTrending(ctx context.Context) ([]model.Video, error) {
	return f.videos(model.PlatformTikTok, f.tiktok, func(i int) model.Variant {
		return model.Clip{Virality: 500 - i}
	}), nil
}

func (f fakeFetcher) FetchTopStreams(ctx context.Context) ([]model.Video, error) {
	return nil, nil
}

func (f fakeFetcher) FetchLive(ctx context.Context) ([]model.Video, error) {
	return f.videos(model.PlatformLive, f.live, func(i int) model.Variant {
		return model.Live{MediaID: "kJQP7kiw5Fk"}
	}), nil
}

type fakeEmbed struct {
	ready   bool
	loadErr error
	loads   []player.Media
	stops   int
	pauses  int
}

func (e *fakeEmbed) Ready() bool { return e.ready }
func (e *fakeEmbed) Load(m player.Media) error {
	if e.loadErr != nil {
		return e.loadErr
	}
	e.loads = append(e.loads, m)
	return nil
}
func (e *fakeEmbed) Stop() error                 { e.stops++; return nil }
func (e *fakeEmbed) Events() <-chan player.Event { return nil }
func (e *fakeEmbed) Close() error                { return nil }
func (e *fakeEmbed) TogglePause() error          { e.pauses++; return nil }
func (e *fakeEmbed) Seek(float64) error          { return nil }
func (e *fakeEmbed) AdjustVolume(int) error      { return nil }
func (e *fakeEmbed) ToggleMute() error           { return nil }
func (e *fakeEmbed) ToggleFullscreen() error     { return player.ErrUnsupported }

type memSink struct {
	saved [][]model.Video
	err   error
}

func (m *memSink) SaveHistory(v []model.Video) error {
	m.saved = append(m.saved, v)
	return m.err
}

type fixture struct {
	s     *Session
	st    *content.Store
	embed *fakeEmbed
	sink  *memSink
}

func newFixture(t *testing.T, f fakeFetcher) fixture {
	t.Helper()
	st := content.New(20)
	ctx := context.Background()
	if f.youtube > 0 {
		if _, err := st.Load(ctx, model.PlatformYouTube, f, f); err != nil {
			t.Fatalf("load youtube: %v", err)
		}
	}
	if f.tiktok > 0 {
		if _, err := st.Load(ctx, model.PlatformTikTok, f, f); err != nil {
			t.Fatalf("load tiktok: %v", err)
		}
	}
	if f.live > 0 {
		if _, err := st.LoadLive(ctx, f); err != nil {
			t.Fatalf("load live: %v", err)
		}
	}

	embed := &fakeEmbed{ready: true}
	sink := &memSink{}
	s := New(Options{
		Content: st,
		Embed:   embed,
		History: NewHistory(5, nil),
		Sink:    sink,
		Rand:    rand.New(rand.NewSource(7)),
	})
	return fixture{s: s, st: st, embed: embed, sink: sink}
}

func TestBingeScenario(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 20, tiktok: 15})
	s := fx.s

	if err := s.StartBinge(); err != nil {
		t.Fatalf("StartBinge failed: %v", err)
	}
	if s.View() != ViewBinge {
		t.Errorf("view = %s, want binge", s.View())
	}
	list := s.Playlist()
	if len(list) != 35 {
		t.Fatalf("playlist length = %d, want 35", len(list))
	}
	now, ok := s.NowPlaying()
	if !ok || now.Key() != list[0].Key() {
		t.Errorf("now playing = %v, want playlist[0]", now.Key())
	}

	// permutation of youtube + tiktok
	want := make(map[string]int)
	for _, v := range append(fx.st.List(model.PlatformYouTube), fx.st.List(model.PlatformTikTok)...) {
		want[v.Key()]++
	}
	for _, v := range list {
		want[v.Key()]--
	}
	for k, n := range want {
		if n != 0 {
			t.Errorf("%s count off by %d", k, n)
		}
	}

	stopsBefore := fx.embed.stops
	s.CloseToFeed()
	if s.View() != ViewFeed {
		t.Errorf("view = %s, want feed", s.View())
	}
	if _, ok := s.NowPlaying(); ok {
		t.Error("nothing should be playing after close")
	}
	if fx.embed.stops <= stopsBefore {
		t.Error("close should stop the embed")
	}
	if len(s.Playlist()) != 0 {
		t.Error("feed has no playlist")
	}
}

func TestStartBingeRefusedLeavesState(t *testing.T) {
	fx := newFixture(t, fakeFetcher{live: 3})
	s := fx.s

	if err := s.OpenLive(); err != nil {
		t.Fatalf("OpenLive failed: %v", err)
	}
	playing, _ := s.NowPlaying()

	if err := s.StartBinge(); !errors.Is(err, ErrNothingToBinge) {
		t.Fatalf("err = %v, want ErrNothingToBinge", err)
	}
	if s.View() != ViewLive {
		t.Errorf("view = %s, want live", s.View())
	}
	if now, ok := s.NowPlaying(); !ok || now.Key() != playing.Key() {
		t.Error("refused binge should not touch playback")
	}
}

func TestPlatformAdvance(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 3})
	s := fx.s

	if err := s.OpenPlayer(model.PlatformYouTube); err != nil {
		t.Fatalf("OpenPlayer failed: %v", err)
	}
	if _, ok := s.NowPlaying(); ok {
		t.Fatal("player view should not auto-play")
	}

	list := s.Playlist()
	s.Play(list[0])
	s.Ended()
	if now, _ := s.NowPlaying(); now.Key() != list[1].Key() {
		t.Errorf("after A ends, now playing %s, want B", now.Key())
	}

	s.PlayAt(2)
	s.Ended()
	if s.View() != ViewFeed {
		t.Errorf("after C ends, view = %s, want feed", s.View())
	}
}

func TestBingeAdvance(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 2, tiktok: 1})
	s := fx.s

	if err := s.StartBinge(); err != nil {
		t.Fatalf("StartBinge failed: %v", err)
	}
	list := s.Playlist()
	if len(list) != 3 {
		t.Fatalf("playlist length = %d, want 3", len(list))
	}

	for i := 1; i < len(list); i++ {
		if err := s.Ended(); err != nil {
			t.Fatalf("Ended at %d: %v", i-1, err)
		}
		if s.View() != ViewBinge || s.Index() != i {
			t.Fatalf("after entry %d ends: view = %s, index = %d", i-1, s.View(), s.Index())
		}
		if now, _ := s.NowPlaying(); now.Key() != list[i].Key() {
			t.Errorf("after entry %d ends, now playing %s, want %s", i-1, now.Key(), list[i].Key())
		}
	}
	if err := s.Ended(); err != nil {
		t.Fatalf("Ended on last entry: %v", err)
	}
	if s.View() != ViewFeed {
		t.Errorf("after the last entry ends, view = %s, want feed", s.View())
	}
	if _, ok := s.NowPlaying(); ok {
		t.Error("nothing should be playing after the binge runs out")
	}
	if len(s.Playlist()) != 0 {
		t.Error("binge list should be cleared")
	}
}

func TestShuffleSortsByRandomKey(t *testing.T) {
	videos := make([]model.Video, 8)
	for i := range videos {
		videos[i] = model.Video{ID: fmt.Sprint(i), Platform: model.PlatformYouTube}
	}

	// replay the same key stream and sort by it
	keys := rand.New(rand.NewSource(42))
	type keyed struct {
		id  string
		key float64
	}
	want := make([]keyed, len(videos))
	for i, v := range videos {
		want[i] = keyed{id: v.ID, key: keys.Float64()}
	}
	sort.SliceStable(want, func(i, j int) bool { return want[i].key < want[j].key })

	got := shuffle(rand.New(rand.NewSource(42)), videos)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want[i].id)
		}
	}
	if videos[0].ID != "0" || videos[7].ID != "7" {
		t.Error("shuffle should not reorder its input")
	}
}

func TestOpenPlayerUnknown(t *testing.T) {
	fx := newFixture(t, fakeFetcher{})
	if err := fx.s.OpenPlayer("myspace"); !errors.Is(err, content.ErrUnknownPlatform) {
		t.Errorf("err = %v, want ErrUnknownPlatform", err)
	}
	if fx.s.View() != ViewFeed {
		t.Error("refused transition should not change view")
	}
}

func TestOpenLive(t *testing.T) {
	fx := newFixture(t, fakeFetcher{})
	if err := fx.s.OpenLive(); !errors.Is(err, ErrNoLiveContent) {
		t.Fatalf("err = %v, want ErrNoLiveContent", err)
	}

	fx = newFixture(t, fakeFetcher{live: 4})
	s := fx.s
	if err := s.OpenLive(); err != nil {
		t.Fatalf("OpenLive failed: %v", err)
	}
	now, _ := s.NowPlaying()
	if now.ID != "live-0" {
		t.Errorf("now playing %s, want newest live entry", now.ID)
	}
	if s.Media().Title != "LIVE: live video 0" {
		t.Errorf("title = %q", s.Media().Title)
	}
	if s.History().Len() != 0 {
		t.Error("live records never enter history")
	}

	s.Ended()
	if !s.Paused() || s.View() != ViewLive {
		t.Error("live does not advance; it pauses")
	}
}

func TestPlayIsIdempotent(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 2})
	s := fx.s
	s.OpenPlayer(model.PlatformYouTube)
	v := s.Playlist()[0]

	s.Play(v)
	s.Play(v)
	if len(fx.embed.loads) != 1 {
		t.Errorf("loads = %d, want 1", len(fx.embed.loads))
	}
	if len(fx.sink.saved) != 1 || s.History().Len() != 1 {
		t.Errorf("history should change once, saved %d times", len(fx.sink.saved))
	}
	if fx.embed.loads[0].Title != "Prime Cuts: youtube video 0" {
		t.Errorf("title = %q", fx.embed.loads[0].Title)
	}

	s.Play(model.Video{})
	if now, _ := s.NowPlaying(); now.Key() != v.Key() {
		t.Error("zero record should be ignored")
	}
}

func TestHistoryMovesToFrontAndCaps(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 8})
	s := fx.s
	s.OpenPlayer(model.PlatformYouTube)
	list := s.Playlist()

	for _, v := range list {
		s.Play(v)
	}
	if n := s.History().Len(); n != 5 {
		t.Errorf("history length = %d, want cap 5", n)
	}

	s.Play(list[5])
	items := s.History().Items()
	if items[0].Key() != list[5].Key() {
		t.Errorf("history[0] = %s, want %s", items[0].Key(), list[5].Key())
	}
	seen := map[string]bool{}
	for _, v := range items {
		if seen[v.Key()] {
			t.Errorf("duplicate %s in history", v.Key())
		}
		seen[v.Key()] = true
	}

	if err := s.OpenHistory(); err != nil {
		t.Fatalf("OpenHistory failed: %v", err)
	}
	if s.Playlist()[0].Key() != list[5].Key() {
		t.Error("history view should start at the most recent entry")
	}
	if _, ok := s.NowPlaying(); ok {
		t.Error("history view should not auto-play")
	}
}

func TestHistoryPersistErrorIsNotFatal(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 1})
	fx.sink.err = errors.New("disk full")
	fx.s.OpenPlayer(model.PlatformYouTube)
	if err := fx.s.PlayAt(0); err != nil {
		t.Errorf("PlayAt err = %v, want nil", err)
	}
}

func TestOpenHistoryEmpty(t *testing.T) {
	fx := newFixture(t, fakeFetcher{})
	if err := fx.s.OpenHistory(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

func TestQueuedUntilReady(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 3})
	fx.embed.ready = false
	s := fx.s
	s.OpenPlayer(model.PlatformYouTube)

	s.PlayAt(0)
	s.PlayAt(1) // last write wins
	if len(fx.embed.loads) != 0 || !s.Queued() {
		t.Fatal("loads should wait for the embed")
	}

	fx.embed.ready = true
	if err := s.Ready(); err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
	if len(fx.embed.loads) != 1 || fx.embed.loads[0].Title != "Prime Cuts: youtube video 1" {
		t.Errorf("loads = %+v", fx.embed.loads)
	}
	s.Ready()
	if len(fx.embed.loads) != 1 {
		t.Error("queued load replays only once")
	}
}

func TestLoadErrorQueues(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 1})
	boom := errors.New("boom")
	fx.embed.loadErr = boom
	fx.s.OpenPlayer(model.PlatformYouTube)

	if err := fx.s.PlayAt(0); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	fx.embed.loadErr = nil
	fx.s.Ready()
	if len(fx.embed.loads) != 1 {
		t.Error("failed load should replay on ready")
	}
}

func TestRecommendFlow(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 25})
	s := fx.s

	if _, ok := s.BeginRecommend(); ok {
		t.Fatal("empty history should not issue a request")
	}
	if st, _ := s.Recommend(); st != RecommendEmpty {
		t.Errorf("state = %v, want empty", st)
	}

	s.OpenPlayer(model.PlatformYouTube)
	s.PlayAt(0)
	s.PlayAt(1)

	req, ok := s.BeginRecommend()
	if !ok || req.ID == "" {
		t.Fatal("expected a request")
	}
	if len(req.Seed) != 2 || req.Seed[0].ID != "youtube-1" {
		t.Errorf("seed = %v", req.Seed)
	}

	sugs := []model.Suggestion{
		{Title: "Pig Parkour", Author: "HamSolo", Platform: "youtube", Reason: "stunts"},
		{Title: "Mud Spa", Author: "oinkers", Platform: "tiktok", Reason: "calm"},
	}

	if err := s.CompleteRecommend("stale-id", sugs, nil); err != nil {
		t.Fatal(err)
	}
	if st, _ := s.Recommend(); st != RecommendLoading {
		t.Error("stale result should be dropped")
	}

	if err := s.CompleteRecommend(req.ID, sugs, nil); err != nil {
		t.Fatalf("CompleteRecommend failed: %v", err)
	}
	list := s.Playlist()
	if len(list) != 2 || list[0].ID == list[1].ID {
		t.Fatalf("cards = %v", list)
	}
	if list[0].MediaID() != model.PlaceholderMediaIDs[0] || list[1].MediaID() != model.PlaceholderMediaIDs[1] {
		t.Error("cards should cycle through placeholder media")
	}
	if s.Media().Title != "Foraged: Pig Parkour" {
		t.Errorf("title = %q", s.Media().Title)
	}

	s.Ended()
	if now, _ := s.NowPlaying(); now.Title != "Mud Spa" {
		t.Errorf("now playing %q", now.Title)
	}
	if err := s.Ended(); !errors.Is(err, ErrForageExhausted) {
		t.Errorf("err = %v, want ErrForageExhausted", err)
	}
	if s.View() != ViewFeed {
		t.Errorf("view = %s, want feed", s.View())
	}
}

func TestRecommendCards(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 1})
	s := fx.s
	s.OpenPlayer(model.PlatformYouTube)
	s.PlayAt(0)

	sugs := []model.Suggestion{
		{Title: "Pig Parkour", Author: "HamSolo", Platform: "youtube"},
		{Title: "Mud Spa", Platform: "tiktok"},
	}

	first, _ := s.BeginRecommend()
	if err := s.CompleteRecommend(first.ID, sugs, nil); err != nil {
		t.Fatal(err)
	}
	cards := s.Playlist()
	if want := "rec-" + first.ID[:8] + "-1"; cards[0].ID != want {
		t.Errorf("id = %q, want %q", cards[0].ID, want)
	}
	if cards[0].Orientation != model.Landscape || cards[0].ThumbnailURL != model.YouTubeThumbnail(cards[0].MediaID()) {
		t.Errorf("youtube card = %+v", cards[0])
	}
	if cards[1].Orientation != model.Portrait || !strings.Contains(cards[1].ThumbnailURL, "/360/640") {
		t.Errorf("tiktok card should be portrait: %+v", cards[1])
	}
	if cards[0].Author != "HamSolo" || cards[1].Author != model.MockAuthors[1] {
		t.Errorf("authors = %q, %q", cards[0].Author, cards[1].Author)
	}

	// a later run with the same suggestions must not evict earlier cards
	second, _ := s.BeginRecommend()
	if err := s.CompleteRecommend(second.ID, sugs, nil); err != nil {
		t.Fatal(err)
	}
	again := s.Playlist()
	if again[0].Key() == cards[0].Key() {
		t.Fatalf("key %s reused across requests", again[0].Key())
	}
	items := s.History().Items()
	if len(items) != 3 || items[0].Key() != again[0].Key() || items[1].Key() != cards[0].Key() {
		t.Errorf("history = %v", items)
	}
}

func TestRecommendFailureLeavesPlayback(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 2})
	s := fx.s
	s.OpenPlayer(model.PlatformYouTube)
	s.PlayAt(0)

	req, _ := s.BeginRecommend()
	s.CompleteRecommend(req.ID, nil, errors.New("quota exceeded"))
	st, cause := s.Recommend()
	if st != RecommendFailed || cause != "quota exceeded" {
		t.Errorf("state = %v, cause = %q", st, cause)
	}
	if len(s.Playlist()) != 0 {
		t.Error("failed recommend has no playlist")
	}

	// a result arriving after leaving the view is ignored
	req, _ = s.BeginRecommend()
	s.CloseToFeed()
	s.CompleteRecommend(req.ID, []model.Suggestion{{Title: "t", Platform: "x"}}, nil)
	if s.View() != ViewFeed {
		t.Error("late result should not reopen the view")
	}
}

func TestEnteringViewClearsModePlaylists(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 3, tiktok: 2})
	s := fx.s

	s.StartBinge()
	s.PlayAt(2)
	if s.Index() != 2 {
		t.Errorf("index = %d, want 2", s.Index())
	}

	req, _ := s.BeginRecommend()
	if len(s.Playlist()) != 0 {
		t.Error("recommend should start without the binge list")
	}
	s.CompleteRecommend(req.ID, []model.Suggestion{{Title: "t", Platform: "x"}}, nil)

	s.OpenPlayer(model.PlatformTikTok)
	if s.binge != nil || s.recommend != nil {
		t.Error("entering player should clear binge and recommend")
	}
}

func TestControls(t *testing.T) {
	fx := newFixture(t, fakeFetcher{youtube: 1})
	s := fx.s
	if err := s.TogglePause(); !errors.Is(err, ErrNothingPlaying) {
		t.Errorf("err = %v, want ErrNothingPlaying", err)
	}

	s.OpenPlayer(model.PlatformYouTube)
	s.PlayAt(0)
	if err := s.TogglePause(); err != nil || fx.embed.pauses != 1 {
		t.Errorf("TogglePause err = %v, pauses = %d", err, fx.embed.pauses)
	}
	if err := s.ToggleFullscreen(); !errors.Is(err, player.ErrUnsupported) {
		t.Errorf("err = %v", err)
	}
	if _, ok := s.NowPlaying(); !ok {
		t.Error("control errors should not change state")
	}
}

func TestPostsArePreviewOnly(t *testing.T) {
	fx := newFixture(t, fakeFetcher{})
	s := fx.s
	post := model.Video{ID: "x-1-0", Platform: model.PlatformX, Title: "hot take", Variant: model.Post{Handle: "@hogg"}}

	if err := s.Play(post); err != nil {
		t.Fatal(err)
	}
	if len(fx.embed.loads) != 0 {
		t.Error("posts are not loaded into the embed")
	}
	if s.Media().Kind != player.Preview {
		t.Errorf("kind = %s", s.Media().Kind)
	}
}

func TestNewHistoryDedupesAndCaps(t *testing.T) {
	a := model.Video{ID: "1", Platform: "youtube"}
	b := model.Video{ID: "1", Platform: "tiktok"}
	h := NewHistory(2, []model.Video{a, a, b, {ID: "2", Platform: "youtube"}})
	items := h.Items()
	if len(items) != 2 || items[0].Key() != a.Key() || items[1].Key() != b.Key() {
		t.Errorf("items = %v", items)
	}
	if NewHistory(0, nil).Cap() != DefaultHistoryCap {
		t.Error("zero cap should fall back to the default")
	}
}
