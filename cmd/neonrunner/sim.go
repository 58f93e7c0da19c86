package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/runner"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

var (
	flagSimRuns       int
	flagSimSeconds    int
	flagSimStepMS     int
	flagSimHesitation float64
	flagSimRecord     bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless games with an autopilot",
	Long: `Run sessions without a terminal. An autopilot steers toward the
lane with the most room; --hesitation makes it skip decisions at random.
Useful for tuning configs, policies and scripts.

Examples:
  neonrunner sim
  neonrunner sim --runs 50 --mode hard
  neonrunner sim --policy escalating --seconds 300
  neonrunner sim --script ./ramp.lua --hesitation 0.3
  neonrunner sim --record --user bot`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 10, "Number of runs")
	simCmd.Flags().IntVar(&flagSimSeconds, "seconds", 120, "Simulated seconds per run")
	simCmd.Flags().IntVar(&flagSimStepMS, "step", 16, "Simulation step in milliseconds")
	simCmd.Flags().Float64Var(&flagSimHesitation, "hesitation", 0.1, "Chance the autopilot skips a decision (0-1)")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Store results in the scores database")
}

func runSim(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	tier := modeFlag()
	if tier == "" {
		tier = config.TierNormal
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "neonrunner-sim",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var recorder runner.ScoreRecorder
	var rec runner.ScoreRecord
	if flagSimRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			exitf("opening scores database: %v", err)
		}
		defer store.Close()
		recorder = store

		rec.Username = playerName()
		rec.UserID, err = store.EnsureUser(context.Background(), rec.Username)
		if err != nil {
			exitf("registering user: %v", err)
		}
	}

	fmt.Printf("Simulating %d runs - %s, policy %s, collision %s, seed %d\n",
		flagSimRuns, tier.Title(), cfg.Difficulty.Policy, cfg.Collision.Strategy, seed)
	fmt.Println()
	fmt.Printf("  %-4s  %-10s  %-6s  %-7s  %s\n", "Run", "Score", "Time", "Frames", "Result")
	fmt.Printf("  %-4s  %-10s  %-6s  %-7s  %s\n", "---", "-----", "----", "------", "------")

	var total, best, deaths int
	for i := 0; i < flagSimRuns; i++ {
		sess, err := runner.NewSession(runner.Options{
			Config: cfg,
			Tier:   tier,
			Seed:   seed + int64(i),
			Logger: logger,
		})
		if err != nil {
			exitf("%v", err)
		}
		bot := runner.NewAutopilot(seed+int64(i), flagSimHesitation)
		res := runner.Simulate(sess, bot,
			time.Duration(flagSimStepMS)*time.Millisecond,
			time.Duration(flagSimSeconds)*time.Second)
		sess.Close()

		result := "survived"
		if res.GameOver {
			result = "hit"
			deaths++
		}
		fmt.Printf("  %-4d  %-10s  %-6s  %-7d  %s\n",
			i+1, runner.FormatScore(res.Score), runner.FormatTime(res.Seconds), res.Frames, result)

		total += res.Score
		best = max(best, res.Score)

		if recorder != nil && res.Score > 0 {
			rec.Score = res.Score
			rec.TimeSeconds = res.Seconds
			rec.Mode = string(tier)
			rec.Timestamp = time.Time{}
			<-runner.RecordAsync(recorder, rec, runner.DefaultRecordTimeout, logger)
		}
	}

	if flagSimRuns > 0 {
		fmt.Println()
		fmt.Printf("Best: %s  Average: %s  Hit: %d/%d\n",
			runner.FormatScore(best), runner.FormatScore(total/flagSimRuns), deaths, flagSimRuns)
	}
}
