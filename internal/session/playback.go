package session

import (
	"fmt"

	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/player"
)

var titlePrefix = map[View]string{
	ViewLive:      "LIVE:",
	ViewBinge:     "SLOP:",
	ViewRecommend: "Foraged:",
	ViewPlayer:    "Prime Cuts:",
	ViewHistory:   "Left-Overs:",
}

// advance is the end-of-playback rule per view. Views without an entry do
// not advance.
var advance = map[View]func(*Session) error{
	ViewPlayer:    (*Session).advancePlatform,
	ViewBinge:     (*Session).advanceBinge,
	ViewRecommend: (*Session).advanceRecommend,
}

// Play makes v the active record. Replaying the active record is a no-op.
// A zero record is ignored.
func (s *Session) Play(v model.Video) error {
	if v.ID == "" {
		return nil
	}
	if s.nowPlaying != nil && s.nowPlaying.Key() == v.Key() {
		return nil
	}

	if v.Platform != model.PlatformLive {
		s.history.Push(v)
		if s.sink != nil {
			if err := s.sink.SaveHistory(s.history.Items()); err != nil {
				logging.Warn("Failed to persist history", "error", err)
			}
		}
	}

	media := player.MediaFor(v)
	if prefix, ok := titlePrefix[s.view]; ok {
		media.Title = prefix + " " + v.Title
	}

	if err := s.embed.Stop(); err != nil {
		logging.Debug("Embed stop failed", "error", err)
	}
	s.nowPlaying = &v
	s.media = media
	s.queued = nil
	s.paused = false

	if !media.Playable() {
		return nil
	}
	return s.load(media)
}

// load hands media to the embed, parking it in the single queue slot when
// the embed is not ready or refuses it.
func (s *Session) load(media player.Media) error {
	if !s.embed.Ready() {
		s.queued = &media
		logging.Debug("Embed not ready, queued", "url", media.URL)
		return nil
	}
	if err := s.embed.Load(media); err != nil {
		s.queued = &media
		return fmt.Errorf("load %s: %w", media.URL, err)
	}
	return nil
}

// PlayAt plays entry i of the active playlist.
func (s *Session) PlayAt(i int) error {
	list := s.Playlist()
	if i < 0 || i >= len(list) {
		return ErrNoSuchEntry
	}
	if s.view == ViewBinge || s.view == ViewRecommend {
		s.index = i
	}
	return s.Play(list[i])
}

// Ready replays the queued load, once. Call it when the embed reports
// readiness.
func (s *Session) Ready() error {
	if s.queued == nil {
		return nil
	}
	media := *s.queued
	s.queued = nil
	if err := s.embed.Load(media); err != nil {
		return fmt.Errorf("load %s: %w", media.URL, err)
	}
	return nil
}

// Ended applies the active view's advance rule.
func (s *Session) Ended() error {
	if next, ok := advance[s.view]; ok {
		return next(s)
	}
	s.paused = true
	return nil
}

func (s *Session) advancePlatform() error {
	list := s.content.List(s.platform)
	idx := -1
	if s.nowPlaying != nil {
		for i, v := range list {
			if v.Key() == s.nowPlaying.Key() {
				idx = i
				break
			}
		}
	}
	if idx >= 0 && idx+1 < len(list) {
		return s.Play(list[idx+1])
	}
	s.CloseToFeed()
	return nil
}

func (s *Session) advanceBinge() error {
	s.index++
	if s.index < len(s.binge) {
		return s.Play(s.binge[s.index])
	}
	s.CloseToFeed()
	return nil
}

func (s *Session) advanceRecommend() error {
	s.index++
	if s.index < len(s.recommend) {
		return s.Play(s.recommend[s.index])
	}
	s.CloseToFeed()
	return ErrForageExhausted
}

// SetPaused records the embed's reported pause state.
func (s *Session) SetPaused(paused bool) { s.paused = paused }

func (s *Session) control(f func() error) error {
	if s.nowPlaying == nil {
		return ErrNothingPlaying
	}
	return f()
}

func (s *Session) TogglePause() error {
	return s.control(s.embed.TogglePause)
}

func (s *Session) Seek(seconds float64) error {
	return s.control(func() error { return s.embed.Seek(seconds) })
}

func (s *Session) AdjustVolume(delta int) error {
	return s.control(func() error { return s.embed.AdjustVolume(delta) })
}

func (s *Session) ToggleMute() error {
	return s.control(s.embed.ToggleMute)
}

func (s *Session) ToggleFullscreen() error {
	return s.control(s.embed.ToggleFullscreen)
}
