package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Trenchline/internal/assets"
)

// menuField is the row of the menu under the cursor.
type menuField int

const (
	fieldMap menuField = iota
	fieldFriendly
	fieldEnemy
	fieldCount
)

func (f menuField) String() string {
	switch f {
	case fieldMap:
		return "Battlefield"
	case fieldFriendly:
		return "Friendly"
	case fieldEnemy:
		return "Enemy"
	default:
		return "?"
	}
}

// mapChoice is one selectable map with its qualified ID.
type mapChoice struct {
	ID  string // "campaign/map"
	Map *assets.Map
}

// menu picks the map and both factions before a battle.
type menu struct {
	maps     []mapChoice
	factions []*assets.Faction
	field    menuField
	sel      [fieldCount]int
}

func newMenu(repo *assets.Repository) *menu {
	m := &menu{factions: repo.Factions}
	for _, c := range repo.Campaigns {
		for _, mp := range c.Maps {
			m.maps = append(m.maps, mapChoice{ID: c.Name + "/" + mp.ID, Map: mp})
		}
	}
	// Default to opposing factions when there are at least two.
	if len(m.factions) > 1 {
		m.sel[fieldEnemy] = 1
	}
	return m
}

func (m *menu) options(f menuField) int {
	if f == fieldMap {
		return len(m.maps)
	}
	return len(m.factions)
}

// move shifts the cursor between rows.
func (m *menu) move(delta int) {
	m.field = menuField((int(m.field) + delta + int(fieldCount)) % int(fieldCount))
}

// cycle changes the choice on the current row, wrapping around.
func (m *menu) cycle(delta int) {
	n := m.options(m.field)
	if n == 0 {
		return
	}
	m.sel[m.field] = (m.sel[m.field] + delta%n + n) % n
}

// ready reports whether a battle can start.
func (m *menu) ready() bool {
	return len(m.maps) > 0 && len(m.factions) > 0
}

func (m *menu) selection() (mapChoice, *assets.Faction, *assets.Faction) {
	return m.maps[m.sel[fieldMap]], m.factions[m.sel[fieldFriendly]], m.factions[m.sel[fieldEnemy]]
}

func (m *menu) label(f menuField) string {
	switch {
	case m.options(f) == 0:
		return "(none)"
	case f == fieldMap:
		c := m.maps[m.sel[f]]
		return fmt.Sprintf("%s (%s)", c.Map.Name, c.ID)
	default:
		fa := m.factions[m.sel[f]]
		return fmt.Sprintf("%s [%d characters]", fa.DisplayName, len(fa.Characters))
	}
}

func (m *menu) draw(dst *ebiten.Image, face text.Face, w, h int) {
	dst.Fill(color.RGBA{R: 18, G: 16, B: 12, A: 255})

	drawText(dst, face, "TRENCHLINE", w/2-40, h/4, color.RGBA{R: 230, G: 200, B: 120, A: 255})

	y := h/4 + 48
	for f := menuField(0); f < fieldCount; f++ {
		fg := color.RGBA{R: 170, G: 165, B: 150, A: 255}
		if f == m.field {
			vector.FillRect(dst, float32(w/2-220), float32(y-3), 440, 20, color.RGBA{R: 50, G: 44, B: 30, A: 255}, false)
			fg = color.RGBA{R: 250, G: 245, B: 230, A: 255}
		}
		drawText(dst, face, fmt.Sprintf("%-12s < %s >", f, m.label(f)), w/2-210, y, fg)
		y += 28
	}
	help := "Up/Down choose row   Left/Right change   Enter start   Esc quit"
	if !m.ready() {
		help = "No maps or factions loaded"
	}
	drawText(dst, face, help, w/2-210, y+24, color.RGBA{R: 140, G: 130, B: 110, A: 255})
}
