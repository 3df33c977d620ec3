// Package player drives the external playback surfaces: an mpv process over
// its JSON IPC socket for native media, and the system browser for widget
// embeds.
package player

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/abelbrown/hogwash/internal/model"
)

// Kind is how a card is presented.
type Kind int

const (
	Native  Kind = iota // played by mpv
	Widget              // platform-hosted embed, opened in the browser
	Preview             // text card, nothing to play
)

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case Widget:
		return "widget"
	default:
		return "preview"
	}
}

var (
	ErrNotReady    = errors.New("player not ready")
	ErrUnsupported = errors.New("control not supported by this player")
	ErrNotPlayable = errors.New("nothing to play")
)

// Media is a resolved playback request.
type Media struct {
	Kind  Kind
	URL   string
	Title string
}

// Playable reports whether the media can be loaded.
func (m Media) Playable() bool {
	return m.Kind != Preview && m.URL != ""
}

// MediaFor resolves the presentation of a card. Native media is addressed
// by a watch URL that mpv hands to yt-dlp.
func MediaFor(v model.Video) Media {
	switch x := v.Variant.(type) {
	case model.VOD:
		if x.URL != "" && x.MediaID == "" {
			return Media{Kind: Native, URL: x.URL, Title: v.Title}
		}
		return Media{Kind: Native, URL: watchURL(v.MediaID()), Title: v.Title}
	case model.Live, model.Recommendation:
		return Media{Kind: Native, URL: watchURL(v.MediaID()), Title: v.Title}
	case model.Clip:
		if x.MockVideoID != "" {
			return Media{Kind: Native, URL: watchURL(x.MockVideoID), Title: v.Title}
		}
		return Media{Kind: Widget, URL: "https://www.tiktok.com/embed/v2/" + url.PathEscape(v.ID), Title: v.Title}
	case model.Stream:
		return Media{Kind: Widget, URL: "https://player.twitch.tv/?channel=" + url.QueryEscape(x.UserName) + "&parent=localhost", Title: v.Title}
	case model.Post:
		return Media{Kind: Preview, URL: model.ShareURL(v), Title: v.Title}
	default:
		return Media{Kind: Native, URL: watchURL(v.MediaID()), Title: v.Title}
	}
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// EventKind identifies a player event.
type EventKind int

const (
	EventReady EventKind = iota
	EventLoaded
	EventProgress
	EventPaused
	EventResumed
	EventEnded
	EventError
)

// Event is emitted by an Embed on its Events channel.
type Event struct {
	Kind     EventKind
	Position float64 // seconds
	Duration float64 // seconds, 0 when unknown
	Err      error
}

func (e Event) String() string {
	switch e.Kind {
	case EventReady:
		return "ready"
	case EventLoaded:
		return "loaded"
	case EventProgress:
		return fmt.Sprintf("progress %.1f/%.1f", e.Position, e.Duration)
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventEnded:
		return "ended"
	default:
		return fmt.Sprintf("error: %v", e.Err)
	}
}

// Controls are the transport commands a session can send.
type Controls interface {
	TogglePause() error
	Seek(seconds float64) error
	AdjustVolume(delta int) error
	ToggleMute() error
	ToggleFullscreen() error
}

// Embed is a playback surface.
type Embed interface {
	Controls
	// Ready reports whether Load can be called.
	Ready() bool
	Load(m Media) error
	Stop() error
	// Events delivers lifecycle events. The channel is never closed while
	// the embed is open.
	Events() <-chan Event
	Close() error
}
