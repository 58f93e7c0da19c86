package core

// Color is a foreground color for a screen cell. The platform maps it to a
// terminal color; the renderer only picks from this palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWhite
	ColorGray
	ColorNeonCyan
	ColorNeonMagenta
	ColorNeonYellow
	ColorNeonGreen
	ColorNeonBlue
	ColorDanger
)
