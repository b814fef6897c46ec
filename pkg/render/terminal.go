// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/go-armada/pkg/entity"
	"github.com/opd-ai/go-armada/pkg/physics"
)

// Map symbols
const (
	SymbolPiloted    = '@'
	SymbolSpacecraft = 'A'
	SymbolWreck      = '*'
	SymbolProjectile = '.'
)

// Terminal draws a top-down ASCII radar of a battle. World X runs to the
// right and world Y to the top of the frame; Z is ignored.
type Terminal struct {
	out       io.Writer
	width     int
	height    int
	buffer    [][]rune
	scale     float64 // meters per character
	center    physics.Vector3D
	ClearTerm bool // emit an ANSI clear before every frame
}

// NewTerminal creates a width × height radar writing to out.
func NewTerminal(out io.Writer, width, height int, scale float64) *Terminal {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}
	if scale <= 0 {
		scale = 1
	}
	return &Terminal{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
}

// SetCenter sets the world position shown in the middle of the frame.
func (r *Terminal) SetCenter(pos physics.Vector3D) {
	r.center = pos
}

// worldToScreen converts a world position to a cell. ok is false outside
// the frame.
func (r *Terminal) worldToScreen(pos physics.Vector3D) (x, y int, ok bool) {
	fx := (pos.X-r.center.X)/r.scale + float64(r.width)/2
	fy := float64(r.height)/2 - (pos.Y-r.center.Y)/r.scale
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x, y = int(fx), int(fy)
	return x, y, x < r.width && y < r.height
}

// Clear blanks the frame.
func (r *Terminal) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

func (r *Terminal) plot(pos physics.Vector3D, symbol rune) {
	if x, y, ok := r.worldToScreen(pos); ok {
		r.buffer[y][x] = symbol
	}
}

// DrawSpacecraft plots a spacecraft. Destructing wrecks use SymbolWreck.
func (r *Terminal) DrawSpacecraft(s *entity.Spacecraft, piloted bool) {
	if s == nil || s.CanBeReused() {
		return
	}
	switch {
	case !s.IsAlive():
		r.plot(s.Position(), SymbolWreck)
	case piloted:
		r.plot(s.Position(), SymbolPiloted)
	default:
		r.plot(s.Position(), SymbolSpacecraft)
	}
}

// DrawProjectile plots a projectile in flight.
func (r *Terminal) DrawProjectile(p *entity.Projectile) {
	if p == nil || p.CanBeReused() {
		return
	}
	r.plot(p.Position(), SymbolProjectile)
}

// Present writes the frame with a border.
func (r *Terminal) Present() error {
	var b strings.Builder
	if r.ClearTerm {
		b.WriteString("\033[H\033[2J")
	}
	border := "+" + strings.Repeat("-", r.width) + "+\n"
	b.WriteString(border)
	for y := range r.buffer {
		b.WriteByte('|')
		b.WriteString(string(r.buffer[y]))
		b.WriteString("|\n")
	}
	b.WriteString(border)
	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Frame draws one complete frame. Projectiles are drawn first so that
// spacecraft stay visible under their own shots.
func (r *Terminal) Frame(crafts []*entity.Spacecraft, projectiles []*entity.Projectile, piloted *entity.Spacecraft) error {
	r.Clear()
	for _, p := range projectiles {
		r.DrawProjectile(p)
	}
	for _, s := range crafts {
		r.DrawSpacecraft(s, s == piloted)
	}
	return r.Present()
}
