package game

import (
	"math"
	"testing"
)

func TestBullet_LeavesMapBounds(t *testing.T) {
	b := newTestBattle(t, flatMap)
	right := b.terrain.Right()
	b.bullets = append(b.bullets, &Bullet{Pos: Vec2{right - 1, 10}, Vel: Vec2{600, 0}, Damage: 25})
	b.bullets = append(b.bullets, &Bullet{Pos: Vec2{b.terrain.Left() + 1, 10}, Vel: Vec2{-600, 0}, Damage: 25, FromEnemy: true})

	b.Step(1.0 / 60)
	if len(b.bullets) != 0 {
		t.Fatalf("bullets carried past the edge should be gone, %d remain", len(b.bullets))
	}
}

func TestBullet_TerrainAbsorbsRound(t *testing.T) {
	b := newTestBattle(t, flatMap)
	e := mustSpawn(t, b, rifleman(), SideEnemy)
	// Box straddles the ground line so the endpoint is inside it.
	e.Pos = Vec2{90, 60}
	b.bullets = append(b.bullets, &Bullet{Pos: Vec2{100, 20}, Vel: Vec2{0, 600}, Damage: 25})

	b.Step(0.1)
	if len(b.bullets) != 0 {
		t.Fatalf("round crossing the ground should be destroyed, %d remain", len(b.bullets))
	}
	if e.Health != e.Character.Health {
		t.Fatalf("round absorbed by terrain still did damage: health=%d", e.Health)
	}
}

func TestBullet_NoFriendlyFire(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := scout()
	e := mustSpawn(t, b, c, SideEnemy)
	inside := e.BodyPoint()

	b.bullets = append(b.bullets, &Bullet{Pos: inside, Vel: Vec2{-1, 0}, Damage: 25, FromEnemy: true})
	b.Step(1.0 / 60)
	if e.Health != c.Health {
		t.Fatalf("enemy round hurt an enemy: health=%d", e.Health)
	}
	if len(b.bullets) != 1 {
		t.Fatalf("round passing through a friend should keep flying, %d bullets", len(b.bullets))
	}

	f := mustSpawn(t, b, c, SideFriendly)
	b.bullets[0].Pos = f.BodyPoint()
	b.bullets[0].Vel = Vec2{}
	events := b.Step(1.0 / 60)
	if f.Health != c.Health-25 {
		t.Fatalf("enemy round should hurt a friendly: health=%d", f.Health)
	}
	if len(b.bullets) != 0 {
		t.Fatal("round that hit should be removed")
	}
	hits := 0
	for _, ev := range events {
		if ev.Kind == EventHit {
			hits++
			if ev.TargetID != f.ID || ev.Side != SideEnemy || ev.Damage != 25 {
				t.Fatalf("unexpected hit event %+v", ev)
			}
		}
	}
	if hits != 1 {
		t.Fatalf("expected one hit event, got %d", hits)
	}
}

func TestBullet_OneVictimPerRound(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := scout()
	first := mustSpawn(t, b, c, SideFriendly)
	second := mustSpawn(t, b, c, SideFriendly)
	b.bullets = append(b.bullets, &Bullet{Pos: first.BodyPoint(), Damage: 10, FromEnemy: true})

	b.Step(1.0 / 60)
	if first.Health != c.Health-10 || second.Health != c.Health {
		t.Fatalf("first match should absorb the round: first=%d second=%d", first.Health, second.Health)
	}
}

func TestBullet_DyingSoldiersAreIgnored(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := scout()
	f := mustSpawn(t, b, c, SideFriendly)
	f.Die()
	b.bullets = append(b.bullets, &Bullet{Pos: f.BodyPoint(), Damage: 10, FromEnemy: true})

	b.Step(1.0 / 60)
	if f.Health != c.Health {
		t.Fatalf("dying soldier took damage: %d", f.Health)
	}
}

func TestFindTarget_NearestInRange(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := rifleman()
	f := mustSpawn(t, b, c, SideFriendly)
	far := mustSpawn(t, b, c, SideEnemy)
	near := mustSpawn(t, b, c, SideEnemy)
	near.Pos.X = 100

	if got := b.findTarget(f); got != near {
		t.Fatalf("expected nearest enemy %s, got %v", near.Label(), got)
	}
	near.Die()
	if got := b.findTarget(f); got != far {
		t.Fatalf("dying soldiers are not targets; expected %s, got %v", far.Label(), got)
	}

	short := scout()
	f.Character = short
	if got := b.findTarget(f); got != nil {
		t.Fatalf("out-of-range enemy selected: %s", got.Label())
	}
}

func TestFindTarget_TieGoesToFirst(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := rifleman()
	f := mustSpawn(t, b, c, SideFriendly)
	first := mustSpawn(t, b, c, SideEnemy)
	mustSpawn(t, b, c, SideEnemy)

	if got := b.findTarget(f); got != first {
		t.Fatalf("equal distance should keep list order, got %s", got.Label())
	}
}

func TestEngage_BlockedByHill(t *testing.T) {
	hill := Grid{
		"    ##    ",
		"    ##    ",
		"##########",
	}
	b := newTestBattle(t, hill)
	c := rifleman()
	f := mustSpawn(t, b, c, SideFriendly)
	e := mustSpawn(t, b, c, SideEnemy)

	if b.findTarget(f) != e {
		t.Fatal("enemy should be in horizontal range")
	}
	if b.engage(f) {
		t.Fatal("hill should block both aim points")
	}
	if len(b.bullets) != 0 {
		t.Fatal("blocked shooter fired")
	}
}

func TestDischarge_SpreadPerturbsAngle(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := rifleman()
	c.Spread = 0.05
	f := mustSpawn(t, b, c, SideFriendly)

	muzzle, aim := f.Muzzle(), Vec2{300, f.Muzzle().Y}
	for i := 0; i < 20; i++ {
		b.discharge(f, muzzle, aim)
	}
	varied := false
	for _, bl := range b.bullets {
		if math.Abs(bl.Vel.Len()-c.MuzzleVelocity) > 1e-6 {
			t.Fatalf("spread must not change speed: %v", bl.Vel.Len())
		}
		if bl.Vel.Y != 0 {
			varied = true
		}
		if bl.Origin != muzzle || bl.FromEnemy {
			t.Fatalf("bad bullet %+v", bl)
		}
	}
	if !varied {
		t.Fatal("gaussian spread never moved a round off the aim line")
	}
	if f.Cooldown != c.Cooldown() {
		t.Fatalf("cooldown after discharge: %v want %v", f.Cooldown, c.Cooldown())
	}
}

func TestDischarge_ZeroLengthAimIsGuarded(t *testing.T) {
	b := newTestBattle(t, flatMap)
	e := mustSpawn(t, b, rifleman(), SideEnemy)
	m := e.Muzzle()
	b.discharge(e, m, m)
	v := b.bullets[0].Vel
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || v.X >= 0 {
		t.Fatalf("zero-length aim should fall back to facing direction, got %+v", v)
	}
}

func TestPolicy_NearestHit(t *testing.T) {
	c := rifleman()
	a := newSoldier(1, SideFriendly, c, Vec2{200, 0}, 1)
	bb := newSoldier(2, SideFriendly, c, Vec2{190, 0}, 1)
	bl := &Bullet{Origin: Vec2{400, 0}}

	if got := (FirstMatch{}).SelectHit(bl, []*Soldier{a, bb}); got != a {
		t.Fatalf("first match: got %s", got.Label())
	}
	if got := (NearestHit{}).SelectHit(bl, []*Soldier{bb, a}); got != a {
		t.Fatalf("nearest hit: got %s", got.Label())
	}
}

func TestDischarge_WaitsForFireFrame(t *testing.T) {
	b := newTestBattle(t, flatMap)
	c := rifleman()
	c.FireFrame = 2
	c.FireFrames = 4
	f := mustSpawn(t, b, c, SideFriendly)
	target := scout()
	target.Health = 1000
	mustSpawn(t, b, target, SideEnemy)

	const dt = 1.0 / 60
	started, fired := false, 0
	for tick := 1; tick <= 120; tick++ {
		var shots int
		for _, e := range b.Step(dt) {
			if e.Kind == EventFired && e.Side == SideFriendly {
				shots++
			}
		}
		if !started {
			if f.State != StateFiring {
				continue
			}
			started = true
			if f.FrameCounter != 0 || shots != 0 {
				t.Fatalf("tick %d: fire animation started at frame %d with %d shots", tick, f.FrameCounter, shots)
			}
			continue
		}
		if shots > 0 && f.FrameCounter != c.FireFrame {
			t.Fatalf("tick %d: round left the muzzle on frame %d, want %d", tick, f.FrameCounter, c.FireFrame)
		}
		fired += shots
		if f.State != StateFiring {
			break
		}
	}
	if !started {
		t.Fatal("soldier never started firing")
	}
	if fired != 1 {
		t.Fatalf("one fire animation should discharge exactly one round, got %d", fired)
	}
	if f.State == StateFiring {
		t.Fatal("fire animation should have finished within two seconds")
	}
}
