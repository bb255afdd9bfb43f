package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Trenchline/internal/game"
)

const hudLineHeight = 16

// speeds are the selectable simulation rates; 0 is paused.
var speeds = []float64{0, 0.5, 1, 2, 4}

func slower(cur float64) float64 {
	for i := len(speeds) - 1; i > 0; i-- {
		if speeds[i] <= cur {
			return speeds[i-1]
		}
	}
	return speeds[0]
}

func faster(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return speeds[len(speeds)-1]
}

func speedLabel(s float64) string {
	switch s {
	case 0:
		return "PAUSED"
	case 1, 2, 4:
		return fmt.Sprintf("%.0fx", s)
	default:
		return fmt.Sprintf("%.1fx", s)
	}
}

// hudLines is the text of the battle overlay.
func hudLines(bs *battleState, snap game.Snapshot, speed float64, status string) []string {
	lines := []string{
		fmt.Sprintf("%s   T=%d  %.1fs  %s", bs.title, snap.Tick, snap.Elapsed, speedLabel(speed)),
	}
	for _, side := range []game.Side{game.SideFriendly, game.SideEnemy} {
		name := side.String()
		if f := bs.factions[side]; f != nil {
			name = f.DisplayName
		}
		lines = append(lines, fmt.Sprintf("%-28s alive %2d  lost %2d  holding %d (%.1fs)",
			name, snap.Alive(side), snap.Casualties[side], snap.Holding[side], snap.HoldTime[side]))
	}
	roster := "Spawn:"
	if f := bs.factions[game.SideFriendly]; f != nil {
		for i, c := range f.Characters {
			if i >= len(digitKeys) {
				break
			}
			roster += fmt.Sprintf("  %d %s", i+1, c.DisplayName)
		}
	}
	lines = append(lines,
		roster+"   (Shift = enemy)",
		"Space advance friendly  Enter advance enemy  P pause  ,/. speed  C copy report  Esc menu",
	)
	if status != "" {
		lines = append(lines, status)
	}
	return lines
}

func drawHUD(dst *ebiten.Image, face text.Face, lines []string, x, y int) {
	const padX, padY = 6, 4
	maxW := 0.0
	for _, l := range lines {
		w, _ := text.Measure(l, face, hudLineHeight)
		maxW = max(maxW, w)
	}
	boxW := float32(maxW) + padX*2
	boxH := float32(len(lines)*hudLineHeight + padY*2)
	bx, by := float32(x), float32(y)

	vector.FillRect(dst, bx, by, boxW, boxH, color.RGBA{R: 12, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(dst, bx, by, boxW, boxH, 1.0, color.RGBA{R: 110, G: 95, B: 60, A: 180}, false)
	vector.StrokeLine(dst, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 150, G: 130, B: 80, A: 80}, false)

	for i, l := range lines {
		drawText(dst, face, l, x+padX, y+padY+i*hudLineHeight, color.RGBA{R: 235, G: 225, B: 200, A: 255})
	}
}
