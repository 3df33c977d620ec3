package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	recent := fs.Int("recent", 10, "Number of recent history entries to list")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	history, err := st.LoadHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history: %v\n", err)
	}
	fmt.Printf("Watch history:         %d / %d\n", len(history), cfg.Feed.HistoryCap)

	byPlatform := map[string]int{}
	for _, v := range history {
		byPlatform[v.Platform]++
	}
	names := make([]string, 0, len(byPlatform))
	for name := range byPlatform {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-35s %d\n", name, byPlatform[name])
	}

	if *recent > 0 && len(history) > 0 {
		fmt.Printf("\nRecent left-overs:\n")
		for i, v := range history {
			if i == *recent {
				break
			}
			fmt.Printf("  %-10s %s\n", v.Platform, truncate(v.Title, 60))
		}
	}

	platforms, err := st.LoadPlatforms()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: platforms: %v\n", err)
	}
	fmt.Printf("\nCustom platforms (%d):\n", len(platforms))
	for _, p := range platforms {
		line := fmt.Sprintf("  %-20s %s", p.Name, p.ID)
		if feed, ok := p.FeedURL(); ok {
			line += "  feed=" + feed
		}
		fmt.Println(line)
	}

	grid, err := st.LoadNewsroom()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: newsroom: %v\n", err)
	} else {
		fmt.Printf("\nNewsroom:              %dx%d\n", grid.Size, grid.Size)
		for i, s := range grid.Streams {
			if s.URL == "" {
				continue
			}
			fmt.Printf("  cell %-2d %-20s %s\n", i, truncate(s.Name, 20), s.URL)
		}
	}

	points, err := st.Points()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: points: %v\n", err)
	}
	fmt.Printf("\nWALLER points:         %d\n", points)

	totals, err := st.ShareTotals()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: shares: %v\n", err)
	}
	for _, t := range totals {
		fmt.Printf("  %-20s %4d shares  %6d pts\n", t.Platform, t.Shares, t.Points)
	}
}

