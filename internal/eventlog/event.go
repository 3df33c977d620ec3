// Package eventlog records what the app did as typed events.
//
// Events are serialized as JSONL lines. The Logger writes them asynchronously
// via a buffered channel and a background drain goroutine. An optional
// RingBuffer keeps the most recent events in memory for the debug overlay.
package eventlog

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Kind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type Kind string

const (
	// Content events
	KindFetchStart    Kind = "fetch.start"
	KindFetchComplete Kind = "fetch.complete"
	KindFetchFallback Kind = "fetch.fallback"
	KindFetchError    Kind = "fetch.error"
	KindLivePoll      Kind = "live.poll"

	// Playback events
	KindPlay        Kind = "player.play"
	KindPlayerReady Kind = "player.ready"
	KindPlayerEnded Kind = "player.ended"
	KindPlayerError Kind = "player.error"

	// Forage For Me
	KindRecommendStart    Kind = "recommend.start"
	KindRecommendComplete Kind = "recommend.complete"
	KindRecommendError    Kind = "recommend.error"

	KindShare      Kind = "share"
	KindStoreError Kind = "store.error"

	// System events
	KindStartup  Kind = "sys.startup"
	KindShutdown Kind = "sys.shutdown"

	// Trace events
	KindMsgReceived Kind = "trace.msg_received"
)

// Event is the universal record. Every field except Kind and Time is
// optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      Kind           `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // "ui", "main", "player"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for the whole run
	ReqID     string         `json:"req_id,omitempty"`     // recommendation correlation id
	Platform  string         `json:"platform,omitempty"`
	Page      int            `json:"page,omitempty"`
	Count     int            `json:"count,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
