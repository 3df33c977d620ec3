// Command hogwash is the OINK video aggregator: platform shelves, a live
// ticker, HOGG WILD binge mode and Forage For Me recommendations, played
// through mpv or the system browser.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/abelbrown/hogwash/internal/brain"
	"github.com/abelbrown/hogwash/internal/config"
	"github.com/abelbrown/hogwash/internal/content"
	"github.com/abelbrown/hogwash/internal/eventlog"
	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/newsroom"
	"github.com/abelbrown/hogwash/internal/player"
	"github.com/abelbrown/hogwash/internal/session"
	"github.com/abelbrown/hogwash/internal/source"
	"github.com/abelbrown/hogwash/internal/store"
	"github.com/abelbrown/hogwash/internal/ui"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const version = "0.3.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	cfg.AutoPopulateFromEnv()

	dataDir := cfg.DataPath()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir, version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	events, err := eventlog.Open(dataDir)
	if err != nil {
		logging.Warn("Event log disabled", "error", err)
		events = eventlog.NewNullLogger()
	}
	ring := eventlog.NewRingBuffer(eventlog.DefaultRingSize)
	events.SetRingBuffer(ring)
	events.Info(eventlog.KindStartup, "main", "hogwash "+version)

	st, err := store.Open(store.DefaultPath(dataDir))
	if err != nil {
		fatal("Failed to open database: %v", err)
	}
	defer st.Close()

	// Content store, with custom platforms from the last run
	cs := content.New(cfg.Feed.PageSize)
	if saved, err := st.LoadPlatforms(); err != nil {
		logging.Warn("Failed to load custom platforms", "error", err)
	} else {
		cs.Restore(saved)
	}

	src, mock := source.New(source.Options{
		FeedTimeout:  30 * time.Second,
		TikTok:       cfg.TikTok.Enabled,
		OEmbedURL:    cfg.TikTok.OEmbedEndpoint,
		TikTokURLs:   cfg.TikTok.URLs,
		TikTokPerSec: cfg.TikTok.RequestsPerSecond,
	})

	embed := newEmbed(ctx, cfg)
	defer embed.Close()

	watched, err := st.LoadHistory()
	if err != nil {
		logging.Warn("Failed to load history", "error", err)
	}
	sess := session.New(session.Options{
		Content: cs,
		Embed:   embed,
		History: session.NewHistory(cfg.Feed.HistoryCap, watched),
		Sink:    st,
	})

	grid, err := st.LoadNewsroom()
	if err != nil {
		logging.Warn("Failed to load newsroom", "error", err)
		grid = newsroom.New()
	}

	deps := ui.Deps{
		Content:   cs,
		Session:   sess,
		Fetcher:   src,
		Fallback:  mock,
		Persist:   st,
		Events:    embed.Events(),
		Newsroom:  grid,
		Clipboard: clipboard.WriteAll,
		OpenURL:   player.OpenURL,
		Feed:      cfg.Feed,
		LivePoll:  cfg.LivePoll(),
		Log:       events,
		Ring:      ring,
	}

	// Forage For Me stays visible but fails in place without a provider
	rec := brain.NewRecommender(brain.NewManager(ctx, cfg.AI, logging.Info))
	if rec.Available() {
		deps.Recommender = rec
	} else {
		logging.Info("No AI provider available, Forage For Me disabled")
	}

	program := tea.NewProgram(ui.NewApp(deps), tea.WithAltScreen())

	logging.Info("Starting UI")
	if _, err := program.Run(); err != nil {
		logging.Error("Application error", "error", err)
		events.Info(eventlog.KindShutdown, "main", "error: "+err.Error())
		events.Close()
		fatal("Error: %v", err)
	}

	events.Info(eventlog.KindShutdown, "main", "exit")
	events.Close()
	if n := events.Dropped(); n > 0 {
		logging.Warn("Event log dropped events", "count", n)
	}
}

// newEmbed starts mpv when it is installed and routes widget media to the
// browser. Without mpv the browser plays everything.
func newEmbed(ctx context.Context, cfg *config.Config) player.Embed {
	browser := player.NewBrowser()
	if _, err := exec.LookPath(cfg.Player.Command); err != nil {
		logging.Info("Player not found, using browser", "command", cfg.Player.Command)
		return browser
	}

	mpv := player.NewMpv(cfg.Player.Command, cfg.Player.Args, cfg.SocketPath())
	startCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mpv.Start(startCtx); err != nil {
		logging.Warn("Player failed to start, using browser", "command", cfg.Player.Command, "error", err)
		mpv.Close()
		return browser
	}
	logging.Info("Player started", "command", cfg.Player.Command, "socket", cfg.SocketPath())
	return player.NewRouter(mpv, browser)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
