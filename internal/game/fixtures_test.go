package game

import "testing"

// rifleman returns a template tuned for tests: reaches across any test map,
// one round per second, four hits to kill, no spread.
func rifleman() *CharacterTemplate {
	return &CharacterTemplate{
		Name:           "rifleman",
		DisplayName:    "Rifleman",
		Size:           Vec2{16, 24},
		MarchFrames:    4,
		FireFrames:     3,
		DeathFrames:    4,
		FireFrame:      0,
		RPM:            60,
		RoundDamage:    25,
		MuzzleVelocity: 600,
		Spread:         0,
		MarchSpeed:     40,
		Range:          100,
		Health:         100,
	}
}

// scout is a rifleman who cannot see past its own boots.
func scout() *CharacterTemplate {
	c := rifleman()
	c.Name = "scout"
	c.Range = 0.01
	return c
}

var (
	flatMap   = Grid{"          ", "##########"}
	trenchMap = Grid{"          ", "##t####t##"}
)

func newTestBattle(t *testing.T, g Grid, opts ...Option) *Battle {
	t.Helper()
	terrain, err := BuildTerrain(g, DefaultTileSize)
	if err != nil {
		t.Fatalf("build terrain: %v", err)
	}
	b, err := NewBattle(terrain, append([]Option{WithSeed(7)}, opts...)...)
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}
	return b
}

func mustSpawn(t *testing.T, b *Battle, c *CharacterTemplate, side Side) *Soldier {
	t.Helper()
	id, err := b.Spawn(c, side)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	for _, s := range b.soldiers[side] {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("spawned soldier %d not in list", id)
	return nil
}

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.SimLog.Summary(ts.Snapshot()))
}
