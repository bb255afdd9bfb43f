package tui

import (
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Trenchline/internal/game"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func rifleman() *game.CharacterTemplate {
	return &game.CharacterTemplate{
		Name: "rifleman", Size: game.Vec2{X: 16, Y: 24},
		MarchFrames: 4, FireFrames: 3, DeathFrames: 4,
		RPM: 60, RoundDamage: 25, MuzzleVelocity: 600,
		MarchSpeed: 40, Range: 100, Health: 100,
	}
}

func newBattle(t *testing.T, g game.Grid) *game.Battle {
	t.Helper()
	terrain, err := game.BuildTerrain(g, game.DefaultTileSize)
	require.NoError(t, err)
	b, err := game.NewBattle(terrain, game.WithSeed(1))
	require.NoError(t, err)
	return b
}

func press(m Model, k string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model)
}

func TestRender_Strip(t *testing.T) {
	b := newBattle(t, game.Grid{"          ", "##t####t##"})
	_, err := b.Spawn(rifleman(), game.SideFriendly)
	require.NoError(t, err)
	_, err = b.Spawn(rifleman(), game.SideEnemy)
	require.NoError(t, err)

	lines := strings.Split(plain(Render(b.Snapshot())), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, []rune(lines[0]), 20)
	assert.Equal(t, '>', []rune(lines[0])[1], lines[0])
	assert.Equal(t, '<', []rune(lines[0])[18], lines[0])
	assert.Equal(t, 2, strings.Count(lines[1], "T"), lines[1])
	assert.Equal(t, 18, strings.Count(lines[1], "#"), lines[1])
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(game.Snapshot{}))
}

func TestSurfaceY(t *testing.T) {
	pts := []game.PathPoint{
		{Pos: game.Vec2{X: 0, Y: 64}},
		{Pos: game.Vec2{X: 32, Y: 64}},
		{Pos: game.Vec2{X: 64, Y: 32}},
	}
	assert.Equal(t, 64.0, surfaceY(pts, -5))
	assert.Equal(t, 64.0, surfaceY(pts, 16))
	assert.Equal(t, 48.0, surfaceY(pts, 48))
	assert.Equal(t, 32.0, surfaceY(pts, 100))
}

func TestModel_Commands(t *testing.T) {
	b := newBattle(t, game.Grid{"          ", "##t####t##"})
	m := NewModel("test", b, Roster{{rifleman()}, {rifleman()}}, 1.0/60)

	m = press(m, "f")
	m = press(m, "e")
	snap := b.Snapshot()
	assert.Len(t, snap.Friendlies(), 1)
	assert.Len(t, snap.Enemies(), 1)
	assert.Contains(t, m.note, "enemy rifleman deployed")

	m = press(m, "a")
	assert.Contains(t, m.note, "advance past trench")
	m = press(m, "a")
	assert.Contains(t, m.note, "no held trench")

	m = press(m, "p")
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.NotNil(t, cmd, "ticking continues while paused")
	assert.Equal(t, 0, b.Tick())

	m = press(m, "p")
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.Equal(t, 1, b.Tick())

	view := plain(m.View())
	assert.Contains(t, view, "T=1")
	assert.Contains(t, view, "spawn friendly")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel("test", newBattle(t, game.Grid{"   ", "###"}), Roster{}, 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// Empty roster ignores spawn keys.
	m = press(m, "f")
	assert.Empty(t, m.battle.Snapshot().Friendlies())
}
