package view

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Trenchline/internal/game"
)

const (
	flashLifetime = 4  // frames a muzzle flash persists
	sparkLifetime = 6  // frames an impact spark persists
	streakSeconds = 0.02
)

// muzzleFlash is a short-lived burst at the muzzle of a firing soldier.
type muzzleFlash struct {
	pos  game.Vec2
	side game.Side
	age  int
}

// spark marks where a round struck a soldier.
type spark struct {
	pos game.Vec2
	age int
}

// effects holds the purely visual aftermath of battle events.
type effects struct {
	flashes []*muzzleFlash
	sparks  []*spark
}

// add turns fired and hit events into visuals.
func (fx *effects) add(events []game.Event) {
	for _, e := range events {
		switch e.Kind {
		case game.EventFired:
			fx.flashes = append(fx.flashes, &muzzleFlash{pos: e.Pos, side: e.Side})
		case game.EventHit:
			fx.sparks = append(fx.sparks, &spark{pos: e.Pos})
		}
	}
}

// update ages and prunes flashes and sparks.
func (fx *effects) update() {
	kept := fx.flashes[:0]
	for _, f := range fx.flashes {
		f.age++
		if f.age < flashLifetime {
			kept = append(kept, f)
		}
	}
	fx.flashes = kept

	keptS := fx.sparks[:0]
	for _, s := range fx.sparks {
		s.age++
		if s.age < sparkLifetime {
			keptS = append(keptS, s)
		}
	}
	fx.sparks = keptS
}

func (fx *effects) draw(dst *ebiten.Image) {
	for _, f := range fx.flashes {
		progress := float64(f.age) / float64(flashLifetime)
		alpha := uint8(255 * (1.0 - progress))
		sx, sy := float32(f.pos.X), float32(f.pos.Y)

		glowR := float32(8.0) * float32(1.0-progress*0.6)
		glowCol := color.RGBA{R: 255, G: 180, B: 40, A: uint8(float64(alpha) * 0.3)}
		if f.side == game.SideEnemy {
			glowCol = color.RGBA{R: 255, G: 120, B: 80, A: uint8(float64(alpha) * 0.3)}
		}
		vector.FillCircle(dst, sx, sy, glowR, glowCol, false)

		coreR := float32(3.5) * float32(1.0-progress*0.5)
		vector.FillCircle(dst, sx, sy, coreR, color.RGBA{R: 255, G: 255, B: 220, A: alpha}, false)

		dir := 1.0
		if f.side == game.SideEnemy {
			dir = -1
		}
		lineLen := 12.0 * (1.0 - progress*0.7) * dir
		vector.StrokeLine(dst, sx, sy, sx+float32(lineLen), sy, 1.5,
			color.RGBA{R: 255, G: 240, B: 160, A: uint8(float64(alpha) * 0.7)}, false)
	}
	for _, s := range fx.sparks {
		fade := 1 - float32(s.age)/float32(sparkLifetime)
		vector.FillCircle(dst, float32(s.pos.X), float32(s.pos.Y), 2.5+2*fade,
			color.RGBA{R: 255, G: 240, B: 180, A: uint8(180 * fade)}, false)
	}
}

// drawBullet renders a round as a short streak behind its position, hot at
// the head and fading toward the tail.
func drawBullet(dst *ebiten.Image, b game.BulletView) {
	tail := b.Pos.Sub(b.Vel.Scale(streakSeconds))

	hotR, hotG, hotB := uint8(255), uint8(210), uint8(100)
	if b.Side == game.SideEnemy {
		hotR, hotG, hotB = 255, 150, 120
	}

	const nSeg = 4
	for i := 0; i < nSeg; i++ {
		t0 := float64(i) / nSeg
		t1 := float64(i+1) / nSeg
		p0 := tail.Add(b.Pos.Sub(tail).Scale(t0))
		p1 := tail.Add(b.Pos.Sub(tail).Scale(t1))
		intensity := float32(i+1) / nSeg
		vector.StrokeLine(dst, float32(p0.X), float32(p0.Y), float32(p1.X), float32(p1.Y), 1,
			color.RGBA{R: hotR, G: hotG, B: hotB, A: uint8(210 * intensity)}, false)
	}
	vector.FillCircle(dst, float32(b.Pos.X), float32(b.Pos.Y), 1.2,
		color.RGBA{R: 255, G: 255, B: 230, A: 230}, false)
}
