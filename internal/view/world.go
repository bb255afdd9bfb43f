package view

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Trenchline/internal/game"
)

var (
	skyColor    = color.RGBA{R: 120, G: 128, B: 130, A: 255}
	earthColor  = color.RGBA{R: 88, G: 72, B: 50, A: 255}
	ridgeColor  = color.RGBA{R: 60, G: 48, B: 32, A: 255}
	holdColor   = color.RGBA{R: 220, G: 190, B: 60, A: 255}
	marchColor  = color.RGBA{R: 90, G: 200, B: 90, A: 255}
	friendlyCol = color.RGBA{R: 150, G: 130, B: 80, A: 255}
	enemyCol    = color.RGBA{R: 100, G: 110, B: 120, A: 255}
)

func sideColor(s game.Side) color.RGBA {
	if s == game.SideEnemy {
		return enemyCol
	}
	return friendlyCol
}

// stateTint shades a soldier box by state.
func stateTint(c color.RGBA, st game.SoldierState) color.RGBA {
	switch st {
	case game.StateFiring:
		return color.RGBA{R: clampAdd(c.R, 60), G: clampAdd(c.G, 40), B: c.B, A: 255}
	case game.StateIdle:
		return color.RGBA{R: c.R - c.R/5, G: c.G - c.G/5, B: c.B - c.B/5, A: 255}
	case game.StateDying:
		return color.RGBA{R: c.R / 2, G: c.G / 3, B: c.B / 3, A: 160}
	default:
		return c
	}
}

func clampAdd(v, d uint8) uint8 {
	if int(v)+int(d) > 255 {
		return 255
	}
	return v + d
}

// drawWorld renders the battlefield in world pixels.
func drawWorld(dst *ebiten.Image, snap game.Snapshot, fx *effects) {
	dst.Fill(skyColor)

	pts := snap.Paths[game.SideFriendly].Points
	w, h := float32(snap.Width), float32(snap.Height)

	// Earth below the silhouette, filled in two-pixel strips.
	const strip = 2
	for x := float32(0); x < w; x += strip {
		y := float32(surfaceAt(pts, float64(x)+strip/2))
		if y < h {
			vector.FillRect(dst, x, y, strip, h-y, earthColor, false)
		}
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1].Pos, pts[i].Pos
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, ridgeColor, false)
	}

	drawTrenchFlags(dst, snap)

	for _, list := range snap.Soldiers {
		for _, v := range list {
			drawSoldier(dst, v)
		}
	}
	for _, b := range snap.Bullets {
		drawBullet(dst, b)
	}
	fx.draw(dst)
}

// drawTrenchFlags plants a flag per trench: upper half shows the friendly
// action, lower half the enemy action. Objectives carry a taller pole.
func drawTrenchFlags(dst *ebiten.Image, snap game.Snapshot) {
	fp, ep := snap.Paths[game.SideFriendly], snap.Paths[game.SideEnemy]
	ts := float32(snap.TileSize)
	for _, i := range fp.Trenches() {
		p := fp.Points[i].Pos
		x, y := float32(p.X), float32(p.Y)-ts
		pole := ts * 0.9
		if i == fp.Objective || i == ep.Objective {
			pole = ts * 1.4
		}
		vector.StrokeLine(dst, x, y, x, y-pole, 1.5, color.RGBA{R: 40, G: 30, B: 20, A: 255}, false)

		flagW, flagH := ts*0.5, ts*0.2
		vector.FillRect(dst, x, y-pole, flagW, flagH, actionColor(fp.Points[i].Action), false)
		vector.FillRect(dst, x, y-pole+flagH, flagW, flagH, actionColor(ep.Points[i].Action), false)
	}
}

func actionColor(a game.PathAction) color.RGBA {
	if a == game.ActionMarch {
		return marchColor
	}
	return holdColor
}

func drawSoldier(dst *ebiten.Image, v game.SoldierView) {
	if v.Character == nil {
		return
	}
	size := v.Character.Size
	x, y := float32(v.Pos.X), float32(v.Pos.Y)
	sw, sh := float32(size.X), float32(size.Y)

	if v.State == game.StateDying {
		// Topple over the death animation.
		frac := float32(1)
		if v.Character.DeathFrames > 0 {
			frac = float32(v.Frame) / float32(v.Character.DeathFrames)
		}
		lying := sh - (sh-sw/2)*frac
		vector.FillRect(dst, x, y+sh-lying, sw, lying, stateTint(sideColor(v.Side), v.State), false)
		return
	}

	body := stateTint(sideColor(v.Side), v.State)
	// March frames bob the box by a pixel.
	bob := float32(0)
	if v.State == game.StateMarching && v.Frame%2 == 1 {
		bob = 1
	}
	vector.FillRect(dst, x, y+bob, sw, sh, body, false)
	vector.FillRect(dst, x+sw/4, y+bob, sw/2, sh/4, color.RGBA{R: 200, G: 170, B: 140, A: 255}, false)

	if v.Character.Health > 0 && v.Health < v.Character.Health {
		frac := float32(v.Health) / float32(v.Character.Health)
		vector.FillRect(dst, x, y-4, sw, 2, color.RGBA{R: 60, G: 0, B: 0, A: 200}, false)
		vector.FillRect(dst, x, y-4, sw*frac, 2, color.RGBA{R: 200, G: 40, B: 40, A: 255}, false)
	}
}

// surfaceAt interpolates the silhouette height at x.
func surfaceAt(pts []game.PathPoint, x float64) float64 {
	if len(pts) == 0 {
		return 0
	}
	if x <= pts[0].Pos.X {
		return pts[0].Pos.Y
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1].Pos, pts[i].Pos
		if x > b.X {
			continue
		}
		if b.X == a.X {
			return min(a.Y, b.Y)
		}
		return a.Y + (x-a.X)/(b.X-a.X)*(b.Y-a.Y)
	}
	return pts[len(pts)-1].Pos.Y
}
