package core

// RuntimeConfig is what a host hands to the simulation when it starts a
// session: its drawable surface and the determinism knobs.
type RuntimeConfig struct {
	ScreenW  int   // Surface width in characters
	ScreenH  int   // Surface height in characters
	TickRate int   // Target frames per second (default 60)
	Seed     int64 // RNG seed; 0 means use current time in the platform layer
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
