package model

import (
	"encoding/json"
	"fmt"
)

// Variant kinds as written to JSON.
const (
	kindVOD            = "vod"
	kindClip           = "clip"
	kindStream         = "stream"
	kindPost           = "post"
	kindLive           = "live"
	kindRecommendation = "recommendation"
)

// videoJSON is the flat wire shape of a Video. Field names match the keys
// the history blob has always used.
type videoJSON struct {
	Kind          string `json:"kind"`
	ID            string `json:"id"`
	Platform      string `json:"platform"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	ViewCount     int    `json:"viewCount"`
	Orientation   string `json:"orientation,omitempty"`
	ViralityScore int    `json:"viralityScore,omitempty"`
	IsLive        bool   `json:"isLive,omitempty"`
	MediaID       string `json:"mediaId,omitempty"`
	URL           string `json:"url,omitempty"`
	EmbedHTML     string `json:"embedHtml,omitempty"`
	MockVideoID   string `json:"mockVideoId,omitempty"`
	UserName      string `json:"user_name,omitempty"`
	GameName      string `json:"gameName,omitempty"`
	Text          string `json:"text,omitempty"`
	AuthorHandle  string `json:"authorHandle,omitempty"`
	Likes         int    `json:"likes,omitempty"`
	Retweets      int    `json:"retweets,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Video) MarshalJSON() ([]byte, error) {
	out := videoJSON{
		ID:           v.ID,
		Platform:     v.Platform,
		Title:        v.Title,
		Author:       v.Author,
		ThumbnailURL: v.ThumbnailURL,
		ViewCount:    v.ViewCount,
		Orientation:  string(v.Orientation),
		IsLive:       v.IsLive(),
	}

	switch p := v.Variant.(type) {
	case VOD:
		out.Kind = kindVOD
		out.ViralityScore = p.Virality
		out.MediaID = p.MediaID
		out.URL = p.URL
	case Clip:
		out.Kind = kindClip
		out.ViralityScore = p.Virality
		out.EmbedHTML = p.EmbedHTML
		out.MockVideoID = p.MockVideoID
	case Stream:
		out.Kind = kindStream
		out.UserName = p.UserName
		out.GameName = p.GameName
	case Post:
		out.Kind = kindPost
		out.Text = p.Text
		out.AuthorHandle = p.Handle
		out.Likes = p.Likes
		out.Retweets = p.Retweets
		out.MediaID = p.MediaID
	case Live:
		out.Kind = kindLive
		out.MediaID = p.MediaID
	case Recommendation:
		out.Kind = kindRecommendation
		out.ViralityScore = p.Virality
		out.Reason = p.Reason
		out.MediaID = p.MediaID
	case nil:
		return nil, fmt.Errorf("video %q has no variant", v.ID)
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Records written without a kind
// get one inferred from their platform.
func (v *Video) UnmarshalJSON(data []byte) error {
	var in videoJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.ID == "" {
		return fmt.Errorf("video without id")
	}

	kind := in.Kind
	if kind == "" {
		kind = inferKind(in.Platform)
	}

	*v = Video{
		ID:           in.ID,
		Platform:     in.Platform,
		Title:        in.Title,
		Author:       in.Author,
		ThumbnailURL: in.ThumbnailURL,
		ViewCount:    in.ViewCount,
		Orientation:  Orientation(in.Orientation),
	}
	if v.Orientation == "" {
		v.Orientation = Landscape
	}

	switch kind {
	case kindVOD:
		v.Variant = VOD{Virality: in.ViralityScore, MediaID: in.MediaID, URL: in.URL}
	case kindClip:
		v.Variant = Clip{Virality: in.ViralityScore, EmbedHTML: in.EmbedHTML, MockVideoID: in.MockVideoID}
	case kindStream:
		v.Variant = Stream{UserName: in.UserName, GameName: in.GameName}
	case kindPost:
		v.Variant = Post{Text: in.Text, Handle: in.AuthorHandle, Likes: in.Likes, Retweets: in.Retweets, MediaID: in.MediaID}
	case kindLive:
		v.Variant = Live{MediaID: in.MediaID}
	case kindRecommendation:
		v.Variant = Recommendation{Virality: in.ViralityScore, Reason: in.Reason, MediaID: in.MediaID}
	default:
		return fmt.Errorf("video %q: unknown kind %q", in.ID, kind)
	}
	return nil
}

func inferKind(platform string) string {
	switch platform {
	case PlatformTikTok:
		return kindClip
	case PlatformTwitch:
		return kindStream
	case PlatformX:
		return kindPost
	case PlatformLive:
		return kindLive
	default:
		return kindVOD
	}
}
