package source

import (
	"context"
	"math/rand"
	"sync"

	"github.com/abelbrown/hogwash/internal/model"
)

const (
	liveDropChance = 0.10
	liveAddChance  = 0.35
	liveMinKeep    = 5 // never drop below this many
	liveMaxGrow    = 8 // only add while shorter than this
)

// LiveWindow simulates a server-side rolling window of live broadcasts.
// Each poll may drop the oldest entry and may push a new one on top.
type LiveWindow struct {
	mu    sync.Mutex
	rng   *rand.Rand
	mock  *Mock
	items []model.Video
}

// NewLiveWindow returns an empty window; the first poll seeds it.
func NewLiveWindow(rng *rand.Rand, mock *Mock) *LiveWindow {
	return &LiveWindow{rng: rng, mock: mock}
}

// Poll advances the window one step and returns the current set, most
// recent first.
func (w *LiveWindow) Poll(ctx context.Context) ([]model.Video, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.items) == 0 {
		seed, err := w.mock.FetchLive(ctx)
		if err != nil {
			return nil, err
		}
		w.items = seed
		return append([]model.Video(nil), w.items...), nil
	}

	if len(w.items) > liveMinKeep && w.rng.Float64() < liveDropChance {
		w.items = w.items[:len(w.items)-1]
	}
	if len(w.items) < liveMaxGrow && w.rng.Float64() < liveAddChance {
		w.items = append([]model.Video{w.mock.LiveEntry()}, w.items...)
	}
	return append([]model.Video(nil), w.items...), nil
}
