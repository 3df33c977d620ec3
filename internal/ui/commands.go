package ui

import (
	"context"
	"time"

	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/eventlog"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/player"
	"github.com/abelbrown/hogwash/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fetchTimeout     = 45 * time.Second
	recommendTimeout = 90 * time.Second
	noticeDuration   = 3 * time.Second
	relayoutDelay    = 50 * time.Millisecond
	animFrame        = time.Second / 60
)

// fetchPage runs an admitted request off the UI goroutine.
func fetchPage(req content.Request, f, fb content.Fetcher, bulk bool, log *eventlog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		log.Emit(eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindFetchStart, Comp: "ui", Platform: req.Platform.ID, Page: req.Page})
		start := time.Now()
		res := req.Fetch(ctx, f, fb)

		ev := eventlog.Event{Level: eventlog.LevelInfo, Kind: eventlog.KindFetchComplete, Comp: "ui", Platform: res.Platform, Page: res.Page, Count: len(res.Videos), Dur: time.Since(start)}
		switch {
		case res.Fallback:
			ev.Level, ev.Kind, ev.Err = eventlog.LevelWarn, eventlog.KindFetchFallback, res.Err.Error()
		case res.Err != nil:
			ev.Level, ev.Kind, ev.Err = eventlog.LevelError, eventlog.KindFetchError, res.Err.Error()
		}
		log.Emit(ev)

		return PageLoaded{Result: res, Bulk: bulk}
	}
}

// pollLive fetches the current live set.
func pollLive(f content.Fetcher, log *eventlog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		videos, err := f.FetchLive(ctx)
		ev := eventlog.Event{Level: eventlog.LevelDebug, Kind: eventlog.KindLivePoll, Comp: "ui", Count: len(videos)}
		if err != nil {
			ev.Level, ev.Err = eventlog.LevelWarn, err.Error()
		}
		log.Emit(ev)
		return LiveLoaded{Videos: videos, Err: err}
	}
}

func liveTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return LiveTick{}
	})
}

// recommend runs one recommendation request.
func recommend(r Recommender, req session.RecommendRequest, log *eventlog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
		defer cancel()

		log.Emit(eventlog.Event{Level: eventlog.LevelInfo, Kind: eventlog.KindRecommendStart, Comp: "ui", ReqID: req.ID, Count: len(req.Seed)})
		start := time.Now()
		sugs, err := r.Recommend(ctx, req.Seed)

		ev := eventlog.Event{Level: eventlog.LevelInfo, Kind: eventlog.KindRecommendComplete, Comp: "ui", ReqID: req.ID, Count: len(sugs), Dur: time.Since(start)}
		if err != nil {
			ev.Level, ev.Kind, ev.Err = eventlog.LevelError, eventlog.KindRecommendError, err.Error()
		}
		log.Emit(ev)

		return RecommendDone{ID: req.ID, Suggestions: sugs, Err: err}
	}
}

// listenForPlayerEvents waits for the next embed event. The handler
// re-arms it after each delivery.
func listenForPlayerEvents(ch <-chan player.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return PlayerEvent{Event: ev}
	}
}

// clearNoticeAfter expires notice id after d.
func clearNoticeAfter(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return NoticeExpired{ID: id}
	})
}

func relayoutAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return RelayoutTick{}
	})
}

func animate() tea.Cmd {
	return tea.Tick(animFrame, func(time.Time) tea.Msg {
		return AnimTick{}
	})
}

// share copies the record's link and credits the points.
func share(v model.Video, copyFn func(string) error, rec Persister, log *eventlog.Logger) tea.Cmd {
	return func() tea.Msg {
		url := model.ShareURL(v)
		points := model.SharePoints(v)
		msg := Shared{URL: url, Points: points}
		msg.Copied = copyFn != nil && copyFn(url) == nil
		if rec != nil {
			msg.Total, msg.StoreErr = rec.RecordShare(v, url, points)
		}
		log.Emit(eventlog.Event{Level: eventlog.LevelInfo, Kind: eventlog.KindShare, Comp: "ui", Platform: v.Platform, Msg: url, Extra: map[string]any{"points": points}})
		if msg.StoreErr != nil {
			log.Error(eventlog.KindStoreError, "ui", msg.StoreErr)
		}
		return msg
	}
}

// openURL hands a link to the system opener.
func openURL(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if err := open(url); err != nil {
			return ActionFailed{Err: err}
		}
		return nil
	}
}

// persist runs a save off the UI goroutine, reporting only failures.
func persist(save func() error) tea.Cmd {
	return func() tea.Msg {
		if err := save(); err != nil {
			return ActionFailed{Err: err}
		}
		return nil
	}
}

func loadPoints(rec Persister) tea.Cmd {
	return func() tea.Msg {
		total, err := rec.Points()
		return PointsLoaded{Total: total, Err: err}
	}
}
