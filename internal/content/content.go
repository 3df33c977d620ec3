// Package content holds the per-platform card lists, their page counters and
// the loading gate that keeps two fetches for one platform from interleaving.
//
// A fetch is split in three so the network call can run off the UI
// goroutine while every mutation happens on it:
//
//	req, err := st.Begin(id)      // acquire the gate, or ErrBusy
//	res := req.Fetch(ctx, f, fb)  // in a tea.Cmd
//	st.Apply(res)                 // release the gate and mutate
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
)

// LiveKey is the gate key of the live list. No platform may use it as
// its id.
const LiveKey = model.PlatformLive

var (
	ErrBusy              = errors.New("fetch already in flight")
	ErrUnknownPlatform   = errors.New("unknown platform")
	ErrEmptyPlatformName = errors.New("platform name needs a letter or digit")
	ErrDuplicatePlatform = errors.New("platform already exists")
	ErrReservedPlatform  = errors.New("platform name is reserved")
)

// Fetcher is a remote content source. Any call may fail.
type Fetcher interface {
	FetchPage(ctx context.Context, p model.Platform, page, size int) ([]model.Video, error)
	FetchTrending(ctx context.Context) ([]model.Video, error)
	FetchTopStreams(ctx context.Context) ([]model.Video, error)
	FetchLive(ctx context.Context) ([]model.Video, error)
}

// Request is one admitted fetch.
type Request struct {
	Platform model.Platform
	Page     int
	Size     int
}

// Result is the outcome of a Request. Err is the primary source's error;
// when Fallback is set the videos came from the fallback source instead and
// the fetch still counts as a success.
type Result struct {
	Platform string
	Page     int
	Videos   []model.Video
	Err      error
	Fallback bool
}

// OK reports whether the result carries usable data.
func (r Result) OK() bool {
	return r.Err == nil || r.Fallback
}

// Fetch calls the method of f matching the platform, and fb when that fails.
// fb may be nil.
func (r Request) Fetch(ctx context.Context, f, fb Fetcher) Result {
	res := Result{Platform: r.Platform.ID, Page: r.Page}

	res.Videos, res.Err = r.call(ctx, f)
	if res.Err == nil || fb == nil {
		return res
	}

	logging.Warn("Content fetch failed, using placeholders", "platform", r.Platform.ID, "page", r.Page, "error", res.Err)
	videos, err := r.call(ctx, fb)
	if err != nil {
		res.Err = fmt.Errorf("%w (fallback: %v)", res.Err, err)
		return res
	}
	res.Videos = videos
	res.Fallback = true
	return res
}

func (r Request) call(ctx context.Context, f Fetcher) ([]model.Video, error) {
	switch r.Platform.ID {
	case model.PlatformTikTok:
		return f.FetchTrending(ctx)
	case model.PlatformTwitch:
		return f.FetchTopStreams(ctx)
	default:
		return f.FetchPage(ctx, r.Platform, r.Page, r.Size)
	}
}

// Store is the in-memory content store. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	pageSize  int
	platforms []model.Platform
	lists     map[string][]model.Video
	pages     map[string]int
	loading   map[string]bool
	live      []model.Video
}

// New returns a store with the built-in platforms registered.
func New(pageSize int) *Store {
	s := &Store{
		pageSize: pageSize,
		lists:    make(map[string][]model.Video),
		pages:    make(map[string]int),
		loading:  make(map[string]bool),
	}
	for _, p := range model.DefaultPlatforms() {
		s.register(p)
	}
	return s
}

// register adds p. Caller holds mu or owns s exclusively.
func (s *Store) register(p model.Platform) {
	s.platforms = append(s.platforms, p)
	s.lists[p.ID] = nil
	s.pages[p.ID] = 1
}

// Platforms returns registered platforms in registration order.
func (s *Store) Platforms() []model.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Platform(nil), s.platforms...)
}

// Platform looks up a registered platform.
func (s *Store) Platform(id string) (model.Platform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.platform(id)
}

func (s *Store) platform(id string) (model.Platform, bool) {
	for _, p := range s.platforms {
		if p.ID == id {
			return p, true
		}
	}
	return model.Platform{}, false
}

// Custom returns the platforms added at runtime.
func (s *Store) Custom() []model.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	builtin := len(model.DefaultPlatforms())
	return append([]model.Platform(nil), s.platforms[builtin:]...)
}

// AddPlatform registers a custom platform. The id is Slug(name); query
// defaults to name.
func (s *Store) AddPlatform(name, query string) (model.Platform, error) {
	id := model.Slug(name)
	if id == "" {
		return model.Platform{}, ErrEmptyPlatformName
	}
	if id == LiveKey {
		return model.Platform{}, fmt.Errorf("%s: %w", id, ErrReservedPlatform)
	}
	if query == "" {
		query = name
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.platform(id); exists {
		return model.Platform{}, fmt.Errorf("%s: %w", id, ErrDuplicatePlatform)
	}
	p := model.Platform{ID: id, Name: name, Query: query, Kind: model.Paged}
	s.register(p)
	return p, nil
}

// Restore re-registers persisted custom platforms, skipping invalid or
// duplicate entries.
func (s *Store) Restore(platforms []model.Platform) {
	for _, p := range platforms {
		if _, err := s.AddPlatform(p.Name, p.Query); err != nil {
			logging.Warn("Skipping stored platform", "name", p.Name, "error", err)
		}
	}
}

// List returns a copy of a platform's list in display order.
func (s *Store) List(id string) []model.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Video(nil), s.lists[id]...)
}

// Live returns a copy of the live list, most recent first.
func (s *Store) Live() []model.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Video(nil), s.live...)
}

// Page returns the next page to request for a platform. Counters start at 1.
func (s *Store) Page(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pages[id]
}

// Loading reports whether a fetch for key is in flight.
func (s *Store) Loading(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[key]
}

// Begin admits a fetch for a platform. It returns ErrBusy while another
// fetch for the same platform is in flight; the caller drops the request.
func (s *Store) Begin(id string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.platform(id)
	if !ok {
		return Request{}, fmt.Errorf("%s: %w", id, ErrUnknownPlatform)
	}
	if s.loading[id] {
		return Request{}, ErrBusy
	}
	s.loading[id] = true
	return Request{Platform: p, Page: s.pages[id], Size: s.pageSize}, nil
}

// Apply releases the gate taken by Begin and, if the result is usable,
// merges it. Paged platforms append (dropping ids already present), other
// platforms replace. The counter advances on every usable result, empty
// pages included. It returns the number of records added.
func (s *Store) Apply(res Result) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.loading, res.Platform)

	if !res.OK() {
		return 0, res.Err
	}
	p, ok := s.platform(res.Platform)
	if !ok {
		return 0, fmt.Errorf("%s: %w", res.Platform, ErrUnknownPlatform)
	}

	s.pages[p.ID]++

	var list []model.Video
	if p.Kind == model.Paged {
		list = s.lists[p.ID]
	}
	before := len(list)
	list = appendUnique(list, res.Videos)
	if model.SortsByVirality(p.ID) {
		sortByVirality(list)
	}
	s.lists[p.ID] = list

	if p.Kind == model.Paged {
		return len(list) - before, nil
	}
	return len(list), nil
}

// Load runs Begin, Fetch and Apply in one call.
func (s *Store) Load(ctx context.Context, id string, f, fb Fetcher) (Result, error) {
	req, err := s.Begin(id)
	if err != nil {
		return Result{Platform: id}, err
	}
	res := req.Fetch(ctx, f, fb)
	_, err = s.Apply(res)
	return res, err
}

// BeginLive admits a live refresh.
func (s *Store) BeginLive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading[LiveKey] {
		return ErrBusy
	}
	s.loading[LiveKey] = true
	return nil
}

// ApplyLive releases the live gate and replaces the live list when the new
// one is non-empty and differs in length or head. It reports whether the
// list changed.
func (s *Store) ApplyLive(videos []model.Video, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.loading, LiveKey)
	if err != nil {
		logging.Warn("Live refresh failed", "error", err)
		return false
	}
	if len(videos) == 0 {
		return false
	}
	if len(videos) == len(s.live) && len(s.live) > 0 && videos[0].ID == s.live[0].ID {
		return false
	}
	s.live = appendUnique(nil, videos)
	return true
}

// LoadLive runs BeginLive, FetchLive and ApplyLive in one call.
func (s *Store) LoadLive(ctx context.Context, f Fetcher) (bool, error) {
	if err := s.BeginLive(); err != nil {
		return false, err
	}
	videos, err := f.FetchLive(ctx)
	return s.ApplyLive(videos, err), err
}

func appendUnique(list, add []model.Video) []model.Video {
	seen := make(map[string]bool, len(list)+len(add))
	for _, v := range list {
		seen[v.ID] = true
	}
	for _, v := range add {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		list = append(list, v)
	}
	return list
}

func sortByVirality(list []model.Video) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Virality() > list[j].Virality()
	})
}
