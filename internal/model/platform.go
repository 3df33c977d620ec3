package model

import (
	"net/url"
	"strings"
)

// Kind describes how a platform's list grows.
type Kind int

const (
	// Paged platforms append one page per fetch.
	Paged Kind = iota
	// Replace platforms swap the whole list on every fetch.
	Replace
)

// Platform is a registered content source.
type Platform struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
	Kind  Kind   `json:"kind"`
}

// DefaultPlatforms returns the built-in sources in display order.
func DefaultPlatforms() []Platform {
	return []Platform{
		{ID: PlatformYouTube, Name: "YouTube", Query: "Viral", Kind: Paged},
		{ID: PlatformTikTok, Name: "TikTok", Query: "Trending", Kind: Replace},
		{ID: PlatformTwitch, Name: "Twitch", Query: "Live", Kind: Replace},
		{ID: PlatformX, Name: "X", Query: "Breaking", Kind: Paged},
	}
}

// Slug derives a platform id from a display name: lowercase, keeping only
// a-z and 0-9.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FeedURL returns the query as an RSS/Atom URL when it is one.
func (p Platform) FeedURL() (string, bool) {
	u, err := url.Parse(p.Query)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return p.Query, true
}

// SortsByVirality reports whether lists for platform id are ordered by
// virality. X and twitch stay in arrival order.
func SortsByVirality(id string) bool {
	switch id {
	case PlatformX, PlatformTwitch:
		return false
	default:
		return true
	}
}
