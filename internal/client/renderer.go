package client

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"warlock/internal/game"
	"warlock/internal/net"
)

const (
	ScreenWidth  = 900
	ScreenHeight = 600
	// Fraction of the arena radius kept in view.
	viewMargin = 1.15
)

var (
	lavaColor       = color.RGBA{120, 30, 10, 255}
	floorColor      = color.RGBA{90, 90, 100, 255}
	selfColor       = color.RGBA{60, 200, 90, 255}
	enemyColor      = color.RGBA{70, 120, 230, 255}
	deadColor       = color.RGBA{40, 40, 40, 255}
	projectileColor = color.RGBA{250, 170, 40, 255}
	healthBack      = color.RGBA{60, 0, 0, 255}
	healthFront     = color.RGBA{220, 40, 40, 255}
)

// Renderer draws the arena from above. The floor plane is XZ; +Z points
// down the screen.
type Renderer struct {
	viewRadius float32
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) scale() float32 {
	if r.viewRadius <= 0 {
		return 1
	}
	return ScreenHeight / 2 / (r.viewRadius * viewMargin)
}

// WorldToScreen maps a floor position to screen pixels.
func (r *Renderer) WorldToScreen(p net.Vec3) (float32, float32) {
	s := r.scale()
	return ScreenWidth/2 + p.X*s, ScreenHeight/2 + p.Z*s
}

// ScreenToWorld maps screen pixels back onto the floor plane.
func (r *Renderer) ScreenToWorld(x, y int) net.Vec3 {
	s := r.scale()
	return net.Vec3{X: (float32(x) - ScreenWidth/2) / s, Z: (float32(y) - ScreenHeight/2) / s}
}

func (r *Renderer) Draw(screen *ebiten.Image, st *State) {
	// The view stays zoomed to the largest radius seen so shrinking is visible.
	if st.Radius > r.viewRadius {
		r.viewRadius = st.Radius
	}
	s := r.scale()

	screen.Fill(lavaColor)
	cx, cy := r.WorldToScreen(net.Vec3{})
	vector.DrawFilledCircle(screen, cx, cy, st.Radius*s, floorColor, true)

	for _, pr := range st.Projectiles {
		x, y := r.WorldToScreen(pr.Position)
		vector.DrawFilledCircle(screen, x, y, 0.5*s+2, projectileColor, true)
	}

	for _, p := range st.Players {
		x, y := r.WorldToScreen(p.Position)
		rad := game.PlayerRadius * s
		c := enemyColor
		switch {
		case p.Health <= 0:
			c = deadColor
		case p.ID == st.Me:
			c = selfColor
		}
		vector.DrawFilledCircle(screen, x, y, rad, c, true)

		if p.Health > 0 {
			w := rad * 2
			frac := p.Health / game.BaseMaxHealth
			if frac > 1 {
				frac = 1
			}
			vector.DrawFilledRect(screen, x-rad, y-rad-6, w, 3, healthBack, false)
			vector.DrawFilledRect(screen, x-rad, y-rad-6, w*frac, 3, healthFront, false)
		}
		ebitenutil.DebugPrintAt(screen, p.Name, int(x-rad), int(y+rad+2))
	}

	r.drawHUD(screen, st)
}

func (r *Renderer) drawHUD(screen *ebiten.Image, st *State) {
	status := "connecting..."
	if st.Connected {
		status = fmt.Sprintf("%s  %.1fs  round %d", st.Phase, st.Elapsed, st.Round)
		if st.Phase == game.PhaseCountdown {
			status = fmt.Sprintf("starting in %d", st.Countdown)
		}
	}
	if me, ok := st.Self(); ok {
		status += fmt.Sprintf("  hp %.0f  gold %d", me.Health, me.Gold)
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)
	ebitenutil.DebugPrintAt(screen, "RMB move  1-6 cast  Enter ready  F1 start  F2 rematch", 8, 24)

	for i, line := range st.Chat {
		ebitenutil.DebugPrintAt(screen, line, 8, ScreenHeight-16*(len(st.Chat)-i)-4)
	}
}
