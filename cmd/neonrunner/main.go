// neonrunner is a three-lane neon runner for the terminal.
//
// Usage:
//
//	neonrunner play          - Pick a mode and play
//	neonrunner sim           - Run headless games with an autopilot
//	neonrunner scores        - Show the ranking of a mode
//	neonrunner modes         - List modes and their parameters
//	neonrunner serve         - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Target frame rate (0 = config frame budget)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.neonrunner/scores.db)
//	--config <path>      - Custom runner config (YAML or TOML)
//	--mode <tier>        - normal, hard or extreme
//	--policy <name>      - Difficulty policy: flat, escalating, script
//	--collision <name>   - Collision strategy: distance, box
//	--user <name>        - Player name stored with scores
package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagMode      string
	flagPolicy    string
	flagCollision string
	flagScript    string
	flagUser      string
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neonrunner",
	Short: "Neon Runner - dodge the shapes in three lanes",
	Long: `Neon Runner is a terminal endless runner. Switch between three lanes
to dodge the falling shapes; you score for every second you survive.

Available commands:
  play     - Pick a mode and play
  sim      - Run headless games with an autopilot
  scores   - View the ranking of a mode
  modes    - List modes and their parameters
  serve    - Start SSH server for remote play

Examples:
  neonrunner play
  neonrunner play --mode hard
  neonrunner sim --runs 20 --mode extreme
  neonrunner scores --mode normal
  neonrunner serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 0, "Target frames per second (0 = config frame budget)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom runner config (YAML or TOML)")
	pf.StringVar(&flagMode, "mode", "", "Mode: normal, hard, extreme")
	pf.StringVar(&flagPolicy, "policy", "", "Difficulty policy: flat, escalating, script")
	pf.StringVar(&flagCollision, "collision", "", "Collision strategy: distance, box")
	pf.StringVar(&flagScript, "script", "", "Lua difficulty script (implies --policy script)")
	pf.StringVar(&flagUser, "user", "", "Player name stored with scores (default: login name)")
	pf.BoolVar(&flagDebug, "debug", false, "Show the spawn debug line")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(serveCmd)
}

// exitf prints an error in the CLI's format and exits.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the runner config and applies the flag overrides.
func loadConfig() config.RunnerConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		exitf("%v", err)
	}
	if err := config.ApplyOverrides(&cfg, flagPolicy, flagCollision, flagScript); err != nil {
		exitf("%v", err)
	}
	return cfg
}

// modeFlag parses --mode. An empty flag returns an empty tier.
func modeFlag() config.Tier {
	if flagMode == "" {
		return ""
	}
	tier, err := config.ParseTier(flagMode)
	if err != nil {
		exitf("%v", err)
	}
	return tier
}

// playerName returns --user or the login name.
func playerName() string {
	if flagUser != "" {
		return flagUser
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return filepath.Base(u.Username)
	}
	return "player"
}

// fileLogger logs to ~/.neonrunner/neonrunner.log so the TUI keeps the
// terminal. It falls back to a discarding logger.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".neonrunner")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "neonrunner.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "neonrunner",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { f.Close() }
}
