package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/platform/tui"
	"github.com/vovakirdan/neon-runner/internal/runner"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresInteractive bool
	flagScoresStats       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the ranking of a mode",
	Long: `Display the top scores of a mode. Without --mode all modes are
ranked together.

Examples:
  neonrunner scores
  neonrunner scores --mode hard
  neonrunner scores --limit 25
  neonrunner scores --stats
  neonrunner scores --interactive`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse the rankings in the TUI")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Show per-mode statistics")
}

func runScores(_ *cobra.Command, _ []string) {
	tier := modeFlag()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening scores database: %v", err)
	}
	defer store.Close()

	if flagScoresInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if tier == "" {
			tier = config.TierNormal
		}
		if err := tui.RunScoreboard(store, tier, width, height); err != nil {
			exitf("%v", err)
		}
		return
	}

	ctx := context.Background()
	if flagScoresStats {
		printStats(ctx, store)
		return
	}

	scores, err := store.TopScores(ctx, string(tier), flagScoresLimit)
	if err != nil {
		exitf("retrieving scores: %v", err)
	}

	title := "All modes"
	if tier != "" {
		title = tier.Title()
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'neonrunner play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %-6s  %-8s  %s\n", "Rank", "Player", "Score", "Time", "Mode", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %-6s  %-8s  %s\n", "----", "------", "-----", "----", "----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-10s  %-6s  %-8s  %s\n",
			i+1, entry.Username, runner.FormatScore(entry.Score), runner.FormatTime(entry.TimeSeconds),
			entry.Mode, entry.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if tier != "" {
		fmt.Println()
		if high, err := store.HighScore(ctx, string(tier)); err == nil {
			fmt.Printf("Best: %s\n", runner.FormatScore(high))
		}
	}
}

func printStats(ctx context.Context, store *storage.Store) {
	stats, err := store.Stats(ctx)
	if err != nil {
		exitf("retrieving stats: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-8s  %-5s  %-10s  %-10s  %-7s  %-8s  %s\n", "Mode", "Runs", "Best", "Average", "Longest", "Played", "Last")
	fmt.Printf("  %-8s  %-5s  %-10s  %-10s  %-7s  %-8s  %s\n", "----", "----", "----", "-------", "-------", "------", "----")
	for _, t := range config.Tiers {
		s, ok := stats[string(t)]
		if !ok {
			continue
		}
		fmt.Printf("  %-8s  %-5d  %-10s  %-10s  %-7s  %-8s  %s\n",
			s.Mode, s.Runs, runner.FormatScore(s.HighScore), runner.FormatScore(int(s.AvgScore)),
			runner.FormatTime(s.BestTime), runner.FormatTime(int(s.TotalTime)), s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
