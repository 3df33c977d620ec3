package eventlog

import "sync"

// DefaultRingSize is how many trough events the debug overlay can look back
// over.
const DefaultRingSize = 512

// RingBuffer keeps the newest events for the in-app debug overlay. The
// logger pushes from command goroutines while the UI reads.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
}

// NewRingBuffer returns a ring holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{events: make([]Event, size)}
}

// Push records e, dropping the oldest event once the ring is full.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		extra := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			extra[k] = v
		}
		e.Extra = extra
	}

	r.mu.Lock()
	r.events[r.next] = e
	r.next++
	if r.next == len(r.events) {
		r.next = 0
		r.filled = true
	}
	r.mu.Unlock()
}

// Last returns up to n of the newest events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.ordered()
	if len(all) == 0 {
		return nil
	}
	if n > len(all) {
		n = len(all)
	}
	return all[len(all)-n:]
}

// Len is the number of events held.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held()
}

func (r *RingBuffer) Cap() int { return len(r.events) }

// Stats tallies held events per kind for the overlay header.
func (r *RingBuffer) Stats() map[Kind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Kind]int)
	for _, e := range r.ordered() {
		counts[e.Kind]++
	}
	return counts
}

func (r *RingBuffer) held() int {
	if r.filled {
		return len(r.events)
	}
	return r.next
}

// ordered copies the held events oldest first. Callers hold mu.
func (r *RingBuffer) ordered() []Event {
	if !r.filled {
		return append([]Event(nil), r.events[:r.next]...)
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}
