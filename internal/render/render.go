// Package render draws runner snapshots into a core.Screen.
//
// World coordinates are scaled to whatever cell grid the host provides. Row
// 0 holds the HUD; the optional debug line takes the last row.
package render

import (
	"fmt"
	"math"

	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/runner"
)

// Glyphs used by the renderer.
const (
	PlayerGlyph    = '▲'
	LaneGlyph      = '┊'
	DangerGlyph    = '·'
	TriangleGlyph  = '▼'
	DiamondGlyph   = '◆'
	SquareGlyph    = '■'
	HexagonGlyph   = '⬢'
	UnknownGlyph   = '?'
	minPlayfieldHt = 3
)

// ShapeGlyph returns the rune drawn for an enemy shape.
func ShapeGlyph(s runner.Shape) rune {
	switch s {
	case runner.ShapeTriangle:
		return TriangleGlyph
	case runner.ShapeDiamond:
		return DiamondGlyph
	case runner.ShapeSquare:
		return SquareGlyph
	case runner.ShapeHexagon:
		return HexagonGlyph
	default:
		return UnknownGlyph
	}
}

// ShapeColor returns the neon color of an enemy shape outside the danger
// zone.
func ShapeColor(s runner.Shape) core.Color {
	switch s {
	case runner.ShapeTriangle:
		return core.ColorNeonCyan
	case runner.ShapeDiamond:
		return core.ColorNeonMagenta
	case runner.ShapeSquare:
		return core.ColorNeonYellow
	case runner.ShapeHexagon:
		return core.ColorNeonGreen
	default:
		return core.ColorWhite
	}
}

// EnemyColor returns the color of an enemy, red once it is in the danger
// zone.
func EnemyColor(e runner.EnemyView) core.Color {
	if e.Danger {
		return core.ColorDanger
	}
	return ShapeColor(e.Shape)
}

// Options tune what the renderer draws.
type Options struct {
	Debug bool // draw the spawn debug line on the last row
}

// Renderer maps snapshots to screen cells.
type Renderer struct {
	opts Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// SetDebug toggles the debug line.
func (r *Renderer) SetDebug(on bool) { r.opts.Debug = on }

// Debug reports whether the debug line is drawn.
func (r *Renderer) Debug() bool { return r.opts.Debug }

// viewport is the playfield area of the screen and the world it shows.
type viewport struct {
	top, rows, cols int
	width, height   float64 // world units
}

func (r *Renderer) viewport(dst *core.Screen, snap runner.Snapshot) viewport {
	rows := dst.Height() - 1
	if r.opts.Debug && rows > minPlayfieldHt {
		rows--
	}
	return viewport{top: 1, rows: rows, cols: dst.Width(), width: snap.Width, height: snap.Height}
}

// bounds returns the playfield in cells.
func (v viewport) bounds() core.Rect {
	return core.NewRect(0, v.top, v.cols, v.rows)
}

func (v viewport) col(x float64) int {
	if v.width <= 0 {
		return 0
	}
	return int(math.Floor(x * float64(v.cols) / v.width))
}

func (v viewport) row(y float64) int {
	if v.height <= 0 {
		return v.top
	}
	return v.top + int(math.Floor(y*float64(v.rows)/v.height))
}

// extent converts a world size to a cell count, at least one cell.
func extent(size float64, cells int, world float64) int {
	if world <= 0 {
		return 1
	}
	return core.Max(1, int(math.Round(size*float64(cells)/world)))
}

// Render clears dst and draws one frame.
func (r *Renderer) Render(dst *core.Screen, snap runner.Snapshot) {
	dst.Clear()
	if dst.Width() <= 0 || dst.Height() <= 0 {
		return
	}

	v := r.viewport(dst, snap)
	if v.rows > 0 {
		r.drawLanes(dst, v, snap)
		for _, e := range snap.Enemies {
			drawEntity(dst, v, e.X, e.Y, e.Size, ShapeGlyph(e.Shape), EnemyColor(e))
		}
		p := snap.Player
		drawEntity(dst, v, p.X, p.Y, p.Size, PlayerGlyph, core.ColorNeonBlue)
	}

	r.drawHUD(dst, snap)
	if r.opts.Debug && dst.Height() > minPlayfieldHt+1 {
		dst.DrawTextColor(0, dst.Height()-1, snap.Debug, core.ColorGray)
	}

	switch snap.State {
	case runner.StatePaused:
		drawCenteredMessage(dst, core.ColorNeonCyan, "PAUSED", "Press P to resume")
	case runner.StateGameOver:
		drawCenteredMessage(dst, core.ColorDanger, "GAME OVER",
			fmt.Sprintf("Score: %s  Time: %s", snap.FormattedScore(), snap.FormattedTime()),
			"R to restart  Q to quit")
	}
}

// drawLanes draws the two lane separators and a dotted marker where the
// danger zone begins.
func (r *Renderer) drawLanes(dst *core.Screen, v viewport, snap runner.Snapshot) {
	for i := 1; i < runner.LaneCount; i++ {
		x := v.col(snap.Width * float64(i) / runner.LaneCount)
		dst.DrawVLine(x, v.top, v.rows, LaneGlyph, core.ColorGray)
	}
	if snap.DangerY <= 0 {
		return
	}
	y := v.row(snap.DangerY)
	for x := 0; x < v.cols; x += 2 {
		if dst.Get(x, y) == ' ' {
			dst.SetColor(x, y, DangerGlyph, core.ColorDanger)
		}
	}
}

// drawEntity draws a square entity centered on (x, y) in world units.
// Cells outside the playfield are clipped.
func drawEntity(dst *core.Screen, v viewport, x, y, size float64, glyph rune, c core.Color) {
	w := extent(size, v.cols, v.width)
	h := extent(size, v.rows, v.height)
	left := v.col(x) - w/2
	top := v.row(y) - h/2
	field := v.bounds()
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if field.Contains(left+dx, top+dy) {
				dst.SetColor(left+dx, top+dy, glyph, c)
			}
		}
	}
}

// drawHUD draws score, time and tier on the top row.
func (r *Renderer) drawHUD(dst *core.Screen, snap runner.Snapshot) {
	score := fmt.Sprintf(" %s ", snap.FormattedScore())
	clock := fmt.Sprintf(" %s ", snap.FormattedTime())
	tier := fmt.Sprintf(" %s ", snap.Tier)

	dst.DrawTextColor(0, 0, score, core.ColorNeonYellow)
	dst.DrawTextColor((dst.Width()-len(clock))/2, 0, clock, core.ColorWhite)
	dst.DrawTextColor(dst.Width()-len(tier), 0, tier, core.ColorNeonMagenta)
}

// drawCenteredMessage draws a framed message box in the middle of the screen.
func drawCenteredMessage(dst *core.Screen, c core.Color, title string, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := 3 + 2*len(lines)
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, c)

	dst.DrawTextColor(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, c)
	for i, l := range lines {
		dst.DrawTextColor(boxX+(boxW-len([]rune(l)))/2, boxY+3+2*i, l, core.ColorWhite)
	}
}
