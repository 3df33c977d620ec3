package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/hogwash/internal/brain"
	"github.com/abelbrown/hogwash/internal/model"
)

// sampleHistory seeds a request when the store has no watch history yet.
var sampleHistory = []model.Video{
	{ID: "s1", Platform: model.PlatformYouTube, Title: "Pig Plays Piano Better Than Me", Author: "HoggTV"},
	{ID: "s2", Platform: model.PlatformTikTok, Title: "mud bath asmr (extended cut)", Author: "@slopqueen"},
	{ID: "s3", Platform: model.PlatformX, Title: "I have eaten 40 hot dogs and regret nothing", Author: "@dogwater"},
	{ID: "s4", Platform: model.PlatformYouTube, Title: "Ranking Every Gas Station Burrito", Author: "Trough Reviews"},
}

func runForage() {
	fs := flag.NewFlagSet("forage", flag.ExitOnError)
	provider := fs.String("provider", "", "Preferred provider (claude, openai, gemini, grok, ollama)")
	sample := fs.Bool("sample", false, "Seed from a built-in sample instead of stored history")
	timeout := fs.Duration("timeout", 90*time.Second, "Request timeout")
	showPrompt := fs.Bool("prompt", false, "Print the prompt and exit without calling a provider")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	if *provider != "" {
		cfg.AI.Preferred = *provider
	}

	seed := sampleHistory
	if !*sample {
		st := openDB(cfg)
		history, err := st.LoadHistory()
		st.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if len(history) == 0 {
			fmt.Println("No watch history yet, using the sample seed.")
		} else {
			seed = history
		}
	}
	if len(seed) > brain.SeedSize {
		seed = seed[:brain.SeedSize]
	}

	fmt.Println("=== Forage For Me ===")
	fmt.Println()
	fmt.Printf("Seed entries: %d\n", len(seed))

	if *showPrompt {
		fmt.Println()
		fmt.Println(brain.BuildPrompt(seed))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pm := brain.NewManager(ctx, cfg.AI, func(msg string, args ...any) {
		fmt.Printf("  %s %v\n", msg, args)
	})
	fmt.Printf("Providers: %s\n", strings.Join(pm.Ready(), ", "))
	rec := brain.NewRecommender(pm)
	if !rec.Available() {
		fmt.Println("ERROR: No AI provider available!")
		fmt.Println("Set one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, XAI_API_KEY or run Ollama.")
		os.Exit(1)
	}
	fmt.Printf("Using: %s\n", pm.Pick().Name())
	fmt.Println()

	start := time.Now()
	suggestions, err := rec.Recommend(ctx, seed)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("ERROR after %s: %v\n", elapsed.Round(time.Millisecond), err)
		os.Exit(1)
	}

	fmt.Printf("%d suggestions in %s\n\n", len(suggestions), elapsed.Round(time.Millisecond))
	for i, s := range suggestions {
		fmt.Printf("%2d. [%-7s] %s\n", i+1, s.Platform, truncate(s.Title, 70))
		fmt.Printf("    by %s\n", s.Author)
		if s.Reason != "" {
			fmt.Printf("    %s\n", truncate(s.Reason, 90))
		}
	}
}
