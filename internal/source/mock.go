package source

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/model"
)

var (
	adjectives = []string{"Awesome", "Viral", "Crazy", "Incredible", "Shocking", "Funny", "Cute", "Epic", "Mind-Blowing"}
	nouns      = []string{"Cats", "Dogs", "Tech", "Lifehacks", "Dances", "Challenges", "News", "Goals", "Pranks", "Recipes"}
	newsNouns  = []string{"Market", "Election", "Weather", "Tech Launch", "Global Summit", "Sports Final", "Science Discovery"}
	streamers  = []string{"StreamHogg", "ProGamerX", "PixelQueen", "RageQuitRoy", "SnackStreamz"}
	games      = []string{"Hogcraft", "Call of Duty: Modern Boarfare", "League of Legends", "Fortnite", "Valorant", "Apex Legends"}

	// Real channels so widget URLs resolve to something.
	twitchChannels = []string{"xqc", "summit1g", "shroud", "pokimane", "sodapoppin", "asmongold", "lirik", "tarik"}

	newsTemplates = []string{
		"BREAKING: Unprecedented Event Shakes The %s",
		"LIVE COVERAGE: Press Conference on the Latest %s",
	}
	postTemplates = []func(noun, adj string) string{
		func(noun, adj string) string {
			return fmt.Sprintf("This clip is breaking the internet. A %s doing something %s.", strings.ToLower(noun), strings.ToLower(adj))
		},
		func(noun, _ string) string {
			return fmt.Sprintf("Everyone is talking about this video right now. #%s", noun)
		},
		func(noun, adj string) string {
			return fmt.Sprintf("Can't believe I just saw a %s go totally %s!", strings.ToLower(noun), strings.ToLower(adj))
		},
	}
)

const (
	mockTrendingCount = 15
	mockStreamCount   = 12
)

// Mock generates placeholder content. It satisfies content.Fetcher and
// never fails, so it doubles as the fallback for every real source.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
	seq int
}

var _ content.Fetcher = (*Mock)(nil)

// NewMock returns a generator drawing from rng.
func NewMock(rng *rand.Rand) *Mock {
	return &Mock{rng: rng}
}

func (m *Mock) intn(n int) int {
	return m.rng.Intn(n)
}

// between returns a value in [lo, lo+span).
func (m *Mock) between(lo, span int) int {
	return lo + m.intn(span)
}

func (m *Mock) pick(pool []string) string {
	return pool[m.intn(len(pool))]
}

func (m *Mock) next() int {
	m.seq++
	return m.seq
}

// FetchPage returns one page of cards for a paged platform. Ids embed the
// page and position so pages never collide within a list.
func (m *Mock) FetchPage(ctx context.Context, p model.Platform, page, size int) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	videos := make([]model.Video, 0, size)
	for i := 0; i < size; i++ {
		id := fmt.Sprintf("%s-%d-%d", p.ID, page, i)
		if p.ID == model.PlatformX {
			videos = append(videos, m.post(id))
			continue
		}
		videos = append(videos, m.vod(p, id))
	}
	return videos, nil
}

func (m *Mock) vod(p model.Platform, id string) model.Video {
	adj, noun := m.pick(adjectives), m.pick(nouns)
	media := m.pick(model.PlaceholderMediaIDs)

	title := fmt.Sprintf("%s %s Clip Goes Viral", adj, noun)
	if p.Query != "" && p.ID != model.PlatformYouTube {
		title = fmt.Sprintf("%s %s: %s", adj, p.Query, noun)
	}

	return model.Video{
		ID:           id,
		Platform:     p.ID,
		Title:        title,
		Author:       m.pick(model.MockAuthors),
		ThumbnailURL: model.YouTubeThumbnail(media),
		ViewCount:    m.between(10000, 8000000),
		Orientation:  model.Landscape,
		Variant:      model.VOD{Virality: m.intn(1000), MediaID: media},
	}
}

func (m *Mock) post(id string) model.Video {
	adj, noun := m.pick(adjectives), m.pick(nouns)
	author := m.pick(model.MockAuthors)

	post := model.Post{
		Text:     postTemplates[m.intn(len(postTemplates))](noun, adj),
		Handle:   "@" + strings.ToLower(author),
		Likes:    m.between(100, 5000),
		Retweets: m.between(50, 1500),
	}
	thumb := ""
	if m.intn(10) < 7 {
		post.MediaID = m.pick(model.PlaceholderMediaIDs)
		thumb = model.YouTubeThumbnail(post.MediaID)
	}

	return model.Video{
		ID:           id,
		Platform:     model.PlatformX,
		Title:        post.Text,
		Author:       author,
		ThumbnailURL: thumb,
		ViewCount:    m.between(1000, 100000),
		Orientation:  model.Landscape,
		Variant:      post,
	}
}

// FetchTrending returns a fixed-size set of portrait clips.
func (m *Mock) FetchTrending(ctx context.Context) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	videos := make([]model.Video, 0, mockTrendingCount)
	for i := 0; i < mockTrendingCount; i++ {
		adj, noun := m.pick(adjectives), m.pick(nouns)
		id := fmt.Sprintf("tiktok-mock-%d", m.next())
		videos = append(videos, model.Video{
			ID:           id,
			Platform:     model.PlatformTikTok,
			Title:        fmt.Sprintf("%s %s #fyp", adj, noun),
			Author:       strings.ToLower(m.pick(model.MockAuthors)),
			ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/360/640", id),
			ViewCount:    m.between(100000, 15000000),
			Orientation:  model.Portrait,
			Variant:      model.Clip{Virality: m.intn(1000), MockVideoID: m.pick(model.PlaceholderMediaIDs)},
		})
	}
	return videos, nil
}

// FetchTopStreams returns a fixed-size set of live channels.
func (m *Mock) FetchTopStreams(ctx context.Context) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	videos := make([]model.Video, 0, mockStreamCount)
	for i := 0; i < mockStreamCount; i++ {
		channel := twitchChannels[i%len(twitchChannels)]
		game := m.pick(games)
		videos = append(videos, model.Video{
			ID:           fmt.Sprintf("twitch-%s-%d", channel, i),
			Platform:     model.PlatformTwitch,
			Title:        fmt.Sprintf("%s | %s grind, come hang", strings.ToUpper(game), m.pick(streamers)),
			Author:       channel,
			ThumbnailURL: fmt.Sprintf("https://static-cdn.jtvnw.net/previews-ttv/live_user_%s-440x248.jpg", channel),
			ViewCount:    m.between(500, 25000),
			Orientation:  model.Landscape,
			Variant:      model.Stream{UserName: channel, GameName: game},
		})
	}
	return videos, nil
}

// FetchLive returns a fresh set of live entries. The rolling window in
// Live is what the app polls; this is its fallback.
func (m *Mock) FetchLive(ctx context.Context) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.between(5, 4)
	videos := make([]model.Video, 0, n)
	for i := 0; i < n; i++ {
		videos = append(videos, m.liveEntry())
	}
	return videos, nil
}

// LiveEntry returns one new live record.
func (m *Mock) LiveEntry() model.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveEntry()
}

// Virality returns a random score in [0, 1000).
func (m *Mock) Virality() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intn(1000)
}

// liveEntry builds one live record. Caller holds mu.
func (m *Mock) liveEntry() model.Video {
	media := m.pick(model.PlaceholderMediaIDs)
	return model.Video{
		ID:           fmt.Sprintf("live-%d", m.next()),
		Platform:     model.PlatformLive,
		Title:        fmt.Sprintf(newsTemplates[m.intn(len(newsTemplates))], m.pick(newsNouns)),
		Author:       "Global News Network",
		ThumbnailURL: model.YouTubeThumbnail(media),
		ViewCount:    m.between(5000, 150000),
		Orientation:  model.Landscape,
		Variant:      model.Live{MediaID: media},
	}
}
