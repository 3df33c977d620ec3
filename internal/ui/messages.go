// Package ui provides the Bubble Tea TUI for hogwash.
package ui

import (
	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/player"
)

// PageLoaded is sent when a platform fetch finishes. Bulk marks a step of
// a bulk refresh, which starts the next platform.
type PageLoaded struct {
	Result content.Result
	Bulk   bool
}

// LiveLoaded is sent when a live poll finishes.
type LiveLoaded struct {
	Videos []model.Video
	Err    error
}

// LiveTick triggers the periodic live poll.
type LiveTick struct{}

// RecommendDone carries a recommendation outcome. ID correlates it with
// the request so stale answers can be dropped.
type RecommendDone struct {
	ID          string
	Suggestions []model.Suggestion
	Err         error
}

// PlayerEvent wraps an event from the embed.
type PlayerEvent struct {
	Event player.Event
}

// NoticeExpired clears the notice with the same ID.
type NoticeExpired struct {
	ID int
}

// RelayoutTick recomputes the masonry grid after the view settles.
type RelayoutTick struct{}

// AnimTick advances the scroll spring one frame.
type AnimTick struct{}

// Shared is sent after a share link was copied and the points recorded.
type Shared struct {
	URL      string
	Points   int
	Total    int
	Copied   bool
	StoreErr error
}

// ActionFailed reports a failed side effect, shown as a notice.
type ActionFailed struct {
	Err error
}

// PointsLoaded carries the WALLER points total for the Mud Hole.
type PointsLoaded struct {
	Total int
	Err   error
}
