// Package source provides the content collaborators behind the content
// store: mock generators, the TikTok oEmbed resolver, RSS-backed custom
// platforms and the rolling live window.
package source

import (
	"context"
	"math/rand"
	"time"

	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/model"
)

// Options configures New.
type Options struct {
	Rand         *rand.Rand
	FeedTimeout  time.Duration
	TikTok       bool
	OEmbedURL    string
	TikTokURLs   []string
	TikTokPerSec float64
}

// Source routes each fetch to the collaborator for its platform.
type Source struct {
	mock   *Mock
	tiktok *TikTok // nil when disabled
	feeds  *Feeds
	live   *LiveWindow
}

var _ content.Fetcher = (*Source)(nil)

// New wires the collaborators. The returned Mock is the fallback for every
// call that fails.
func New(opts Options) (*Source, *Mock) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	timeout := opts.FeedTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// The live window gets its own generator so its mutex never nests
	// inside the page generator's.
	mock := NewMock(rand.New(rand.NewSource(rng.Int63())))
	liveMock := NewMock(rand.New(rand.NewSource(rng.Int63())))

	s := &Source{
		mock:  mock,
		feeds: NewFeeds(timeout),
		live:  NewLiveWindow(rand.New(rand.NewSource(rng.Int63())), liveMock),
	}
	if opts.TikTok && len(opts.TikTokURLs) > 0 {
		s.tiktok = NewTikTok(opts.OEmbedURL, opts.TikTokURLs, opts.TikTokPerSec, mock.Virality)
	}
	return s, mock
}

// FetchPage serves feed-backed custom platforms from their feed and
// everything else from the generator.
func (s *Source) FetchPage(ctx context.Context, p model.Platform, page, size int) ([]model.Video, error) {
	if feedURL, ok := p.FeedURL(); ok {
		return s.feeds.FetchPage(ctx, feedURL, p, page, size)
	}
	return s.mock.FetchPage(ctx, p, page, size)
}

// FetchTrending resolves the TikTok list, or generates clips when the
// resolver is disabled.
func (s *Source) FetchTrending(ctx context.Context) ([]model.Video, error) {
	if s.tiktok == nil {
		return s.mock.FetchTrending(ctx)
	}
	return s.tiktok.Fetch(ctx)
}

// FetchTopStreams returns the current top streams.
func (s *Source) FetchTopStreams(ctx context.Context) ([]model.Video, error) {
	return s.mock.FetchTopStreams(ctx)
}

// FetchLive polls the rolling live window.
func (s *Source) FetchLive(ctx context.Context) ([]model.Video, error) {
	return s.live.Poll(ctx)
}
