// Command hogctl is the hogwash debug and maintenance CLI.
//
// Usage:
//
//	hogctl                  Show help
//	hogctl stats            History, platform and WALLER point totals
//	hogctl events           JSONL event log viewer
//	hogctl forage           Run one Forage For Me request from stored history
package main

import (
	"fmt"
	"os"
)

const usage = `hogctl: hogwash debug & maintenance CLI

Usage:
  hogctl <command> [flags]

Commands:
  stats       History, custom platforms, newsroom and share totals
  events      JSONL event log viewer
  forage      Run one recommendation request against the configured AI provider

Environment:
  ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, XAI_API_KEY
                     Provider keys (forage)
  HOGWASH_PROVIDER   Preferred provider (forage)

Run 'hogctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "stats":
		runStats()
	case "events":
		runEvents()
	case "forage":
		runForage()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "hogctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
