// Package session owns the single active view and the playback session:
// which playlist is live, what is playing, and what plays next.
//
// Every method must be called from one goroutine (the Bubble Tea Update
// loop). Refused transitions return a sentinel error and leave all state
// untouched.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/player"
	"github.com/google/uuid"
)

// View is the active application view.
type View int

const (
	ViewFeed View = iota
	ViewPlayer
	ViewLive
	ViewRecommend
	ViewBinge
	ViewHistory
	ViewMudhole
	ViewNewsroom
)

func (v View) String() string {
	switch v {
	case ViewFeed:
		return "feed"
	case ViewPlayer:
		return "player"
	case ViewLive:
		return "live"
	case ViewRecommend:
		return "recommend"
	case ViewBinge:
		return "binge"
	case ViewHistory:
		return "history"
	case ViewMudhole:
		return "mudhole"
	case ViewNewsroom:
		return "newsroom"
	}
	return "unknown"
}

// RecommendState is the progress of the recommend view.
type RecommendState int

const (
	RecommendIdle RecommendState = iota
	RecommendEmpty
	RecommendLoading
	RecommendReady
	RecommendFailed
)

// SeedSize is how many history entries seed a recommendation request.
const SeedSize = 20

var (
	ErrNoLiveContent   = errors.New("no live content loaded")
	ErrNothingToBinge  = errors.New("no playable videos loaded")
	ErrNoHistory       = errors.New("watch history is empty")
	ErrForageExhausted = errors.New("recommendations exhausted")
	ErrNoSuggestions   = errors.New("no recommendations returned")
	ErrNothingPlaying  = errors.New("nothing is playing")
	ErrNoSuchEntry     = errors.New("no such playlist entry")
)

// RecommendRequest is an admitted recommendation call. The caller runs it
// and hands the outcome to CompleteRecommend with the same ID.
type RecommendRequest struct {
	ID   string
	Seed []model.Video
}

// Options configures New.
type Options struct {
	Content *content.Store
	Embed   player.Embed
	History *History
	Sink    HistorySink
	Rand    *rand.Rand
}

// Session is the view controller and player session.
type Session struct {
	content *content.Store
	embed   player.Embed
	history *History
	sink    HistorySink
	rng     *rand.Rand

	view     View
	platform string

	binge     []model.Video
	recommend []model.Video
	index     int // sequence position in binge and recommend

	nowPlaying *model.Video
	media      player.Media
	queued     *player.Media
	paused     bool

	recState RecommendState
	recErr   string
	recID    string
}

// New creates a session on the feed view.
func New(opts Options) *Session {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	hist := opts.History
	if hist == nil {
		hist = NewHistory(DefaultHistoryCap, nil)
	}
	return &Session{
		content: opts.Content,
		embed:   opts.Embed,
		history: hist,
		sink:    opts.Sink,
		rng:     rng,
		view:    ViewFeed,
	}
}

func (s *Session) View() View { return s.view }

// Platform is the active platform of the player view.
func (s *Session) Platform() string { return s.platform }

func (s *Session) History() *History { return s.history }

// Index is the sequence position in binge and recommend.
func (s *Session) Index() int { return s.index }

// NowPlaying returns the active record.
func (s *Session) NowPlaying() (model.Video, bool) {
	if s.nowPlaying == nil {
		return model.Video{}, false
	}
	return *s.nowPlaying, true
}

// Media is what was last handed to the embed, title prefix included.
func (s *Session) Media() player.Media { return s.media }

func (s *Session) Paused() bool { return s.paused }

// Queued reports whether a load is waiting for the embed.
func (s *Session) Queued() bool { return s.queued != nil }

// Recommend returns the recommend view's state and, when failed, the cause.
func (s *Session) Recommend() (RecommendState, string) { return s.recState, s.recErr }

// Playlist returns the active view's playlist.
func (s *Session) Playlist() []model.Video {
	switch s.view {
	case ViewPlayer:
		return s.content.List(s.platform)
	case ViewLive:
		return s.content.Live()
	case ViewBinge:
		return append([]model.Video(nil), s.binge...)
	case ViewRecommend:
		return append([]model.Video(nil), s.recommend...)
	case ViewHistory:
		return s.history.Items()
	}
	return nil
}

// teardown stops playback and clears every mode playlist.
func (s *Session) teardown() {
	if err := s.embed.Stop(); err != nil {
		logging.Debug("Embed stop failed", "error", err)
	}
	s.nowPlaying = nil
	s.media = player.Media{}
	s.queued = nil
	s.paused = false
	s.binge = nil
	s.recommend = nil
	s.index = 0
	s.recState = RecommendIdle
	s.recErr = ""
	s.recID = ""
	s.platform = ""
}

func (s *Session) enter(v View) {
	s.teardown()
	s.view = v
	logging.Debug("View entered", "view", v.String())
}

// CloseToFeed returns to the dashboard.
func (s *Session) CloseToFeed() {
	s.enter(ViewFeed)
}

// OpenPlayer opens a platform's trough. Nothing auto-plays.
func (s *Session) OpenPlayer(platformID string) error {
	if _, ok := s.content.Platform(platformID); !ok {
		return fmt.Errorf("%s: %w", platformID, content.ErrUnknownPlatform)
	}
	s.enter(ViewPlayer)
	s.platform = platformID
	return nil
}

// OpenLive enters the live view and plays the newest broadcast.
func (s *Session) OpenLive() error {
	live := s.content.Live()
	if len(live) == 0 {
		return ErrNoLiveContent
	}
	s.enter(ViewLive)
	return s.Play(live[0])
}

// BeginRecommend enters the recommend view. It returns false when history
// is empty and no request should be made.
func (s *Session) BeginRecommend() (RecommendRequest, bool) {
	s.enter(ViewRecommend)
	if s.history.Len() == 0 {
		s.recState = RecommendEmpty
		return RecommendRequest{}, false
	}

	seed := s.history.Items()
	if len(seed) > SeedSize {
		seed = seed[:SeedSize]
	}
	s.recID = uuid.NewString()
	s.recState = RecommendLoading
	return RecommendRequest{ID: s.recID, Seed: seed}, true
}

// CompleteRecommend applies a recommendation outcome. Outcomes for a
// request that is no longer current are dropped.
func (s *Session) CompleteRecommend(id string, suggestions []model.Suggestion, err error) error {
	if s.view != ViewRecommend || id == "" || id != s.recID {
		logging.Debug("Dropping stale recommendation result", "id", id)
		return nil
	}
	if err == nil && len(suggestions) == 0 {
		err = ErrNoSuggestions
	}
	if err != nil {
		s.recState = RecommendFailed
		s.recErr = err.Error()
		return nil
	}

	cards := make([]model.Video, 0, len(suggestions))
	for i, sug := range suggestions {
		cards = append(cards, s.recommendCard(i, sug))
	}

	s.recommend = cards
	s.recState = RecommendReady
	s.index = 0
	return s.Play(cards[0])
}

// recommendCard builds the playable card for the i-th suggestion of the
// current request. Ids carry the request prefix so cards from earlier runs
// never share a history key.
func (s *Session) recommendCard(i int, sug model.Suggestion) model.Video {
	prefix := s.recID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	media := model.PlaceholderMediaIDs[i%len(model.PlaceholderMediaIDs)]
	author := sug.Author
	if author == "" {
		author = model.MockAuthors[i%len(model.MockAuthors)]
	}

	card := model.Video{
		ID:           fmt.Sprintf("rec-%s-%d", prefix, i+1),
		Platform:     sug.Platform,
		Title:        sug.Title,
		Author:       author,
		ThumbnailURL: model.YouTubeThumbnail(media),
		Orientation:  model.Landscape,
		Variant: model.Recommendation{
			Virality: s.rng.Intn(1000),
			Reason:   sug.Reason,
			MediaID:  media,
		},
	}
	if sug.Platform == model.PlatformTikTok {
		card.Orientation = model.Portrait
		card.ThumbnailURL = model.PortraitThumbnail(fmt.Sprintf("buffet%d", i))
	}
	return card
}

// StartBinge shuffles every loaded youtube and tiktok record and plays the
// first.
func (s *Session) StartBinge() error {
	pool := append(s.content.List(model.PlatformYouTube), s.content.List(model.PlatformTikTok)...)
	if len(pool) == 0 {
		return ErrNothingToBinge
	}

	s.enter(ViewBinge)
	s.binge = shuffle(s.rng, pool)
	s.index = 0
	return s.Play(s.binge[0])
}

// shuffle orders videos by an independent random key each.
func shuffle(rng *rand.Rand, videos []model.Video) []model.Video {
	keys := make([]float64, len(videos))
	order := make([]int, len(videos))
	for i := range videos {
		keys[i] = rng.Float64()
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })

	out := make([]model.Video, len(videos))
	for i, j := range order {
		out[i] = videos[j]
	}
	return out
}

// OpenHistory lists the watch history. Nothing auto-plays.
func (s *Session) OpenHistory() error {
	if s.history.Len() == 0 {
		return ErrNoHistory
	}
	s.enter(ViewHistory)
	return nil
}

func (s *Session) OpenMudhole() { s.enter(ViewMudhole) }

func (s *Session) OpenNewsroom() { s.enter(ViewNewsroom) }
