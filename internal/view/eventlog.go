package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Trenchline/internal/game"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 15
)

// logEntry is a single line in the event log.
type logEntry struct {
	Tick    int
	Label   string // e.g. "F1", "E3", "--"
	Side    game.Side
	Message string
}

// eventLog is a ring buffer of battle events rendered beside the field.
type eventLog struct {
	entries []logEntry
	head    int
	count   int
}

func newEventLog() *eventLog {
	return &eventLog{entries: make([]logEntry, logMaxEntries)}
}

func (l *eventLog) add(tick int, label string, side game.Side, msg string) {
	l.entries[l.head] = logEntry{Tick: tick, Label: label, Side: side, Message: msg}
	l.head = (l.head + 1) % logMaxEntries
	if l.count < logMaxEntries {
		l.count++
	}
}

// record logs the events a player cares about. Individual shots are left to
// the muzzle flashes.
func (l *eventLog) record(events []game.Event) {
	for _, e := range events {
		label := game.SoldierLabel(e.Side, e.SoldierID)
		switch e.Kind {
		case game.EventSpawned:
			l.add(e.Tick, label, e.Side, "deployed")
		case game.EventHit:
			l.add(e.Tick, label, e.Side, fmt.Sprintf("hit %s for %d",
				game.SoldierLabel(e.Side.Opponent(), e.TargetID), e.Damage))
		case game.EventDied:
			l.add(e.Tick, label, e.Side, "down")
		case game.EventTrenchReset:
			l.add(e.Tick, "--", e.Side, fmt.Sprintf("trench #%d falls back to hold", e.PathIndex))
		case game.EventTrenchToggled:
			l.add(e.Tick, "--", e.Side, fmt.Sprintf("trench #%d set to %s", e.PathIndex, e.Action))
		}
	}
}

// recent returns entries oldest first.
func (l *eventLog) recent() []logEntry {
	out := make([]logEntry, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.head - l.count + i + logMaxEntries) % logMaxEntries
		out[i] = l.entries[idx]
	}
	return out
}

func (l *eventLog) draw(dst *ebiten.Image, face text.Face, panelX, panelH int) {
	px, ph := float32(panelX), float32(panelH)
	vector.FillRect(dst, px, 0, logPanelWidth, ph, color.RGBA{R: 14, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(dst, px, 0, px, ph, 1.0, color.RGBA{R: 70, G: 60, B: 45, A: 255}, false)

	vector.FillRect(dst, px, 0, logPanelWidth, 18, color.RGBA{R: 30, G: 26, B: 20, A: 255}, false)
	drawText(dst, face, "FIELD REPORTS", panelX+8, 3, color.White)
	vector.StrokeLine(dst, px, 18, px+logPanelWidth, 18, 1.0, color.RGBA{R: 80, G: 70, B: 50, A: 200}, false)

	entries := l.recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const highlighted = 3

	y := 22
	for i, e := range entries {
		isRecent := i >= len(entries)-highlighted
		if isRecent {
			vector.FillRect(dst, px+2, float32(y), logPanelWidth-4, logLineHeight,
				color.RGBA{R: 40, G: 34, B: 26, A: 160}, false)
		}
		vector.FillRect(dst, px+5, float32(y+4), 3, 6, sideColor(e.Side), false)

		fg := color.RGBA{R: 170, G: 165, B: 150, A: 255}
		if isRecent {
			fg = color.RGBA{R: 240, G: 235, B: 220, A: 255}
		}
		drawText(dst, face, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y, fg)
		y += logLineHeight
	}
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
