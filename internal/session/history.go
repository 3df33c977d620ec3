package session

import "github.com/abelbrown/hogwash/internal/model"

// DefaultHistoryCap bounds the watch history when no cap is configured.
const DefaultHistoryCap = 50

// HistorySink persists the watch history after every change.
type HistorySink interface {
	SaveHistory(videos []model.Video) error
}

// History is the capped, most-recent-first watch history. Identity is
// (platform, id).
type History struct {
	cap   int
	items []model.Video
}

// NewHistory seeds a history from stored items, dropping duplicates and
// anything past the cap.
func NewHistory(cap int, items []model.Video) *History {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	h := &History{cap: cap}
	seen := make(map[string]bool, len(items))
	for _, v := range items {
		if seen[v.Key()] || len(h.items) == cap {
			continue
		}
		seen[v.Key()] = true
		h.items = append(h.items, v)
	}
	return h
}

// Push moves v to the front, removing any earlier occurrence.
func (h *History) Push(v model.Video) {
	out := make([]model.Video, 0, len(h.items)+1)
	out = append(out, v)
	for _, old := range h.items {
		if old.Key() != v.Key() {
			out = append(out, old)
		}
	}
	if len(out) > h.cap {
		out = out[:h.cap]
	}
	h.items = out
}

// Items returns a copy, most recent first.
func (h *History) Items() []model.Video {
	return append([]model.Video(nil), h.items...)
}

func (h *History) Len() int { return len(h.items) }

func (h *History) Cap() int { return h.cap }
