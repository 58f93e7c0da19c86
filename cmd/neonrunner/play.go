package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/platform/tui"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Neon Runner",
	Long: `Start the game. Without --mode a mode picker is shown first.

Controls:
  Left/Right, A/D, H/L  - Switch lane
  1/2/3                 - Jump to a lane
  Mouse click           - Jump to the lane under the cursor
  P/Space               - Pause
  R                     - Restart (after game over)
  Esc/B                 - Back to the mode picker (paused or game over)
  ` + "`" + `/F3                  - Toggle debug line
  Q/Ctrl+C              - Quit

Modes:
  normal   - spawn every 1.2s, speed 600
  hard     - spawn every 0.85s, speed 950
  extreme  - spawn every 0.6s, speed 1400

Examples:
  neonrunner play
  neonrunner play --mode extreme
  neonrunner play --policy escalating
  neonrunner play --script ./ramp.lua
  neonrunner play --config ./my-runner.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	tier := modeFlag()

	logger, closeLog := fileLogger()
	defer closeLog()

	rt := core.DefaultConfig()
	rt.TickRate = flagFPS
	rt.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	name := playerName()
	var userID string
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		userID, err = store.EnsureUser(ctx, name)
		cancel()
		if err != nil {
			logger.Warn("could not register user", "user", name, "error", err)
		}
	}

	opts := tui.Options{
		Config:   cfg,
		Tier:     tier,
		Seed:     flagSeed,
		FPS:      flagFPS,
		Debug:    flagDebug,
		Store:    store,
		Username: name,
		UserID:   userID,
		Logger:   logger,
	}
	logger.Info("session started", "user", name, "mode", tier, "policy", cfg.Difficulty.Policy)
	runErr := tui.Run(opts, rt)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		exitf("%v", runErr)
	}
}
