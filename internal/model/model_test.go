package model

import (
	"encoding/json"
	"testing"
)

func TestVirality(t *testing.T) {
	tests := []struct {
		name string
		v    Video
		want int
	}{
		{"vod", Video{Variant: VOD{Virality: 420}}, 420},
		{"clip", Video{Variant: Clip{Virality: 77}}, 77},
		{"recommendation", Video{Variant: Recommendation{Virality: 5}}, 5},
		{"stream has none", Video{Variant: Stream{UserName: "xqc"}}, 0},
		{"post has none", Video{Variant: Post{Likes: 9000}}, 0},
		{"live has none", Video{Variant: Live{}}, 0},
		{"nil variant", Video{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Virality(); got != tt.want {
				t.Errorf("Virality() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsLive(t *testing.T) {
	if !(Video{Variant: Live{}}).IsLive() {
		t.Error("live entry should be live")
	}
	if !(Video{Variant: Stream{}}).IsLive() {
		t.Error("twitch stream should be live")
	}
	if (Video{Variant: VOD{}}).IsLive() {
		t.Error("vod should not be live")
	}
}

func TestMediaIDFallsBackToID(t *testing.T) {
	v := Video{ID: "abc", Variant: Post{Text: "text only"}}
	if got := v.MediaID(); got != "abc" {
		t.Errorf("MediaID() = %q, want %q", got, "abc")
	}
	v = Video{ID: "yt-1-0", Variant: VOD{MediaID: "dQw4w9WgXcQ"}}
	if got := v.MediaID(); got != "dQw4w9WgXcQ" {
		t.Errorf("MediaID() = %q, want %q", got, "dQw4w9WgXcQ")
	}
}

func TestVideoJSONKeepsVariant(t *testing.T) {
	in := []Video{
		{ID: "1", Platform: PlatformYouTube, Title: "a", Orientation: Landscape, Variant: VOD{Virality: 10, MediaID: "m"}},
		{ID: "2", Platform: PlatformTikTok, Title: "b", Orientation: Portrait, Variant: Clip{Virality: 3, MockVideoID: "7314"}},
		{ID: "3", Platform: PlatformTwitch, Title: "c", Orientation: Landscape, Variant: Stream{UserName: "shroud", GameName: "Valorant"}},
		{ID: "4", Platform: PlatformX, Title: "d", Orientation: Landscape, Variant: Post{Text: "hi", Handle: "@hogg", Likes: 1, Retweets: 2}},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out []Video
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d videos, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Key() != in[i].Key() {
			t.Errorf("video %d key = %q, want %q", i, out[i].Key(), in[i].Key())
		}
		if out[i].Variant != in[i].Variant {
			t.Errorf("video %d variant = %#v, want %#v", i, out[i].Variant, in[i].Variant)
		}
	}
}

func TestVideoJSONInfersKind(t *testing.T) {
	var v Video
	raw := `{"id":"q1","platform":"twitch","title":"t","user_name":"lirik","gameName":"Hogcraft","isLive":true}`
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	s, ok := v.Variant.(Stream)
	if !ok {
		t.Fatalf("variant = %T, want Stream", v.Variant)
	}
	if s.UserName != "lirik" {
		t.Errorf("UserName = %q, want lirik", s.UserName)
	}
	if v.Orientation != Landscape {
		t.Errorf("Orientation = %q, want landscape default", v.Orientation)
	}
}

func TestVideoJSONRejectsMissingID(t *testing.T) {
	var v Video
	if err := json.Unmarshal([]byte(`{"platform":"youtube"}`), &v); err == nil {
		t.Error("expected error for record without id")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"YouTube", "youtube"},
		{"Cat Videos!", "catvideos"},
		{"R2-D2 Fans", "r2d2fans"},
		{"   ", ""},
		{"日本", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFeedURL(t *testing.T) {
	p := Platform{Query: "https://example.com/feed.xml"}
	if u, ok := p.FeedURL(); !ok || u != p.Query {
		t.Errorf("FeedURL() = %q, %v", u, ok)
	}
	p = Platform{Query: "Cat Videos"}
	if _, ok := p.FeedURL(); ok {
		t.Error("plain query should not be a feed")
	}
}

func TestSortsByVirality(t *testing.T) {
	for _, id := range []string{PlatformYouTube, PlatformTikTok, "catvideos"} {
		if !SortsByVirality(id) {
			t.Errorf("%s should sort by virality", id)
		}
	}
	for _, id := range []string{PlatformX, PlatformTwitch} {
		if SortsByVirality(id) {
			t.Errorf("%s should keep arrival order", id)
		}
	}
}

func TestSharePoints(t *testing.T) {
	tests := []struct {
		name string
		v    Video
		want int
	}{
		{"fresh clip", Video{Variant: VOD{Virality: 100}}, 90},
		{"viral clip", Video{Variant: VOD{Virality: 999}}, 10},
		{"no score uses default", Video{Variant: Stream{}}, 10},
		{"rounds", Video{Variant: Clip{Virality: 505}}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SharePoints(tt.v); got != tt.want {
				t.Errorf("SharePoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShareURL(t *testing.T) {
	tests := []struct {
		v    Video
		want string
	}{
		{Video{ID: "yt-1-0", Variant: VOD{MediaID: "dQw4w9WgXcQ"}}, "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{Video{ID: "7314", Author: "zachking", Variant: Clip{}}, "https://www.tiktok.com/@zachking/video/7314"},
		{Video{ID: "s1", Variant: Stream{UserName: "pokimane"}}, "https://www.twitch.tv/pokimane"},
		{Video{ID: "99", Variant: Post{Handle: "@hogg"}}, "https://x.com/hogg/status/99"},
		{Video{ID: "f1", Variant: VOD{URL: "https://example.com/v/1"}}, "https://example.com/v/1"},
	}
	for _, tt := range tests {
		if got := ShareURL(tt.v); got != tt.want {
			t.Errorf("ShareURL(%s) = %q, want %q", tt.v.ID, got, tt.want)
		}
	}
}
