package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-runner/internal/config"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List modes and their parameters",
	Long:  `Shows every mode with the spawn parameters of the loaded config.`,
	Args:  cobra.NoArgs,
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	fmt.Println("Available modes:")
	fmt.Println()
	fmt.Printf("  %-8s  %-8s  %-6s  %s\n", "Mode", "Interval", "Speed", "Single")
	fmt.Printf("  %-8s  %-8s  %-6s  %s\n", "----", "--------", "-----", "------")

	for _, t := range config.Tiers {
		tc := cfg.Tier(t)
		fmt.Printf("  %-8s  %-8s  %-6.0f  %.0f%%\n",
			t, fmt.Sprintf("%.2fs", tc.IntervalSeconds), tc.Speed, tc.SingleChance*100)
	}

	fmt.Println()
	fmt.Printf("Policy: %s  Collision: %s\n", cfg.Difficulty.Policy, cfg.Collision.Strategy)
	fmt.Println("Run 'neonrunner play --mode <mode>' to play a mode.")
}
