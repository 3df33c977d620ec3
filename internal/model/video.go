// Package model defines the records that flow between the content store,
// the playback session and the renderers.
//
// A Video carries the fields every platform shares and a Variant holding the
// platform-specific payload. Code that needs per-platform behavior switches
// on the Variant type rather than probing for optional fields.
package model

// Built-in platform ids. Custom platforms use ids derived by Slug.
const (
	PlatformYouTube = "youtube"
	PlatformTikTok  = "tiktok"
	PlatformTwitch  = "twitch"
	PlatformX       = "x"
	PlatformLive    = "live"
)

// Orientation is the aspect class of a card.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// Video is one card. ID is unique within the list it lives in, not across
// platforms; use Key for cross-list identity.
type Video struct {
	ID           string
	Platform     string
	Title        string
	Author       string
	ThumbnailURL string
	ViewCount    int
	Orientation  Orientation
	Variant      Variant
}

// Variant is the platform-specific payload of a Video. The set is closed.
type Variant interface {
	variant()
}

// VOD is an on-demand video (youtube and custom feeds).
type VOD struct {
	Virality int
	MediaID  string // youtube id used for playback
	URL      string // direct link, set for feed-backed platforms
}

// Clip is a short vertical video (tiktok).
type Clip struct {
	Virality    int
	EmbedHTML   string
	MockVideoID string
}

// Stream is a live channel (twitch).
type Stream struct {
	UserName string
	GameName string
}

// Post is a social post (x). MediaID is empty for text-only posts.
type Post struct {
	Text     string
	Handle   string
	Likes    int
	Retweets int
	MediaID  string
}

// Live is an entry of the rolling live feed.
type Live struct {
	MediaID string
}

// Recommendation is an AI-suggested card bound to placeholder media.
type Recommendation struct {
	Virality int
	Reason   string
	MediaID  string
}

func (VOD) variant()            {}
func (Clip) variant()           {}
func (Stream) variant()         {}
func (Post) variant()           {}
func (Live) variant()           {}
func (Recommendation) variant() {}

// Key identifies a record across lists.
func (v Video) Key() string {
	return v.Platform + ":" + v.ID
}

// Virality returns the ranking score. Posts, streams and live entries have
// none and report 0.
func (v Video) Virality() int {
	switch p := v.Variant.(type) {
	case VOD:
		return p.Virality
	case Clip:
		return p.Virality
	case Recommendation:
		return p.Virality
	case Stream, Post, Live, nil:
		return 0
	}
	return 0
}

// IsLive reports whether the record is a live broadcast.
func (v Video) IsLive() bool {
	switch v.Variant.(type) {
	case Live, Stream:
		return true
	default:
		return false
	}
}

// MediaID returns the id used to build a playable URL, falling back to ID.
func (v Video) MediaID() string {
	var id string
	switch p := v.Variant.(type) {
	case VOD:
		id = p.MediaID
	case Clip:
		id = p.MockVideoID
	case Post:
		id = p.MediaID
	case Live:
		id = p.MediaID
	case Recommendation:
		id = p.MediaID
	case Stream, nil:
	}
	if id == "" {
		return v.ID
	}
	return id
}

// Suggestion is one entry of a recommendation response.
type Suggestion struct {
	Title    string
	Author   string
	Platform string
	Reason   string
}

// RecommendablePlatforms are the platforms a suggestion may name.
var RecommendablePlatforms = []string{PlatformYouTube, PlatformTikTok, PlatformX}

// IsRecommendable reports whether platform is a valid suggestion platform.
func IsRecommendable(platform string) bool {
	for _, p := range RecommendablePlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// PlaceholderMediaIDs is the pool of playable youtube ids used for mock
// content and recommendation cards.
var PlaceholderMediaIDs = []string{
	"dQw4w9WgXcQ",
	"3tmd-ClpJxA",
	"kJQP7kiw5Fk",
	"8-m4w_2cWwU",
	"nfWlot6h_JM",
	"e-ORhEE9VVg",
	"09m0B8RRiEE",
	"kXYiU_JCYtU",
	"Y-x0efG1knA",
}

// MockAuthors is the pool of channel names for generated content and
// suggestions that arrive without an author.
var MockAuthors = []string{"ViralVids", "TrendSetter", "MemeMachine", "DailyDoseOfNet", "ContentKing", "InfluencerHub"}

// PortraitThumbnail returns a 360x640 placeholder image for seed.
func PortraitThumbnail(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/360/640"
}

// YouTubeThumbnail returns the hqdefault thumbnail URL for a youtube id.
func YouTubeThumbnail(id string) string {
	return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
}
