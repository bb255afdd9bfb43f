package game

import (
	"testing"
)

// --- Scenario: Mutual Duel ---

func TestScenario_MutualDuel(t *testing.T) {
	t.Log("=== TestScenario_MutualDuel ===")
	t.Log("--- Setup: 1 friendly vs 1 enemy, flat 10-tile map, 60rpm, 25 dmg, 100 hp ---")

	c := rifleman()
	ts, err := NewTestSim(
		WithGrid(flatMap...),
		WithFriendly(c, 1),
		WithEnemy(c, 1),
	)
	if err != nil {
		t.Fatal(err)
	}

	ts.RunFor(1.1)
	fired := ts.SimLog.Filter("combat", "fired")
	if len(fired) < 2 {
		dumpLog(t, ts)
		t.Fatalf("both soldiers should have fired once the cooldown elapsed, got %d shots", len(fired))
	}

	ts.RunFor(5)
	dumpLog(t, ts)
	dumpSummary(t, ts)

	hitsBy := map[string]int{}
	for _, e := range ts.SimLog.Filter("combat", "hit") {
		hitsBy[e.Side]++
	}
	if hitsBy["friendly"] != 4 || hitsBy["enemy"] != 4 {
		t.Fatalf("expected 4 hits each way, got %v", hitsBy)
	}

	died := ts.SimLog.Filter("state", "died")
	if len(died) != 2 {
		t.Fatalf("both soldiers should die, got %d deaths", len(died))
	}
	if d := died[1].Tick - died[0].Tick; d < 0 || d > 1 {
		t.Fatalf("deaths should land together, ticks %d and %d", died[0].Tick, died[1].Tick)
	}
	if lastHit, ok := ts.SimLog.LastOf("combat", "hit"); !ok || lastHit.Tick > died[1].Tick {
		t.Fatalf("no hit should land after both soldiers died: %+v", lastHit)
	}

	if n := ts.SimLog.CountCategory("state", "removed"); n != 2 {
		t.Fatalf("both bodies should be removed after the death animation, got %d", n)
	}
	snap := ts.Snapshot()
	if len(snap.Friendlies()) != 0 || len(snap.Enemies()) != 0 {
		t.Fatalf("lists should be empty: %d friendlies, %d enemies", len(snap.Friendlies()), len(snap.Enemies()))
	}
	if snap.Casualties != [2]int{1, 1} {
		t.Fatalf("casualties: %v", snap.Casualties)
	}
	if out := DetermineOutcome(snap); out.Outcome != OutcomeDraw {
		t.Fatalf("mutual kill should be a draw, got %s (%s)", out.Outcome, out.Description)
	}
}

// --- Scenario: Advance No Contact ---

func TestScenario_AdvanceNoContact(t *testing.T) {
	t.Log("=== TestScenario_AdvanceNoContact ===")
	t.Log("--- Setup: 3 friendlies, no enemies, flat map ---")

	ts, err := NewTestSim(
		WithGrid(flatMap...),
		WithFriendly(rifleman(), 3),
		WithVerbose(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	ts.RunFor(20)
	dumpSummary(t, ts)

	if n := ts.SimLog.CountCategory("combat", "fired"); n != 0 {
		t.Fatalf("nobody to shoot at, yet %d rounds fired", n)
	}
	for _, v := range ts.Snapshot().Friendlies() {
		if v.Pos.X+v.Character.Size.X/2 < 300 {
			t.Errorf("%s should have marched to the far end, x=%.1f", v.Label, v.Pos.X)
		}
		if v.State != StateIdle {
			t.Errorf("%s should be idle past the last vertex, got %s", v.Label, v.State)
		}
	}
}

// --- Scenario: Trench Standoff ---

func TestScenario_TrenchStandoff(t *testing.T) {
	t.Log("=== TestScenario_TrenchStandoff ===")
	t.Log("--- Setup: 3 v 3 scouts on the two-trench map ---")

	ts, err := NewTestSim(
		WithGrid(trenchMap...),
		WithFriendly(scout(), 3),
		WithEnemy(scout(), 3),
	)
	if err != nil {
		t.Fatal(err)
	}
	ts.RunFor(20)
	dumpSummary(t, ts)

	snap := ts.Snapshot()
	if snap.Alive(SideFriendly) != 3 || snap.Alive(SideEnemy) != 3 {
		t.Fatal("scouts never come within range of each other; nobody should die")
	}
	for _, v := range snap.Friendlies() {
		if v.State != StateIdle {
			t.Errorf("%s should be held at the first trench, got %s", v.Label, v.State)
		}
	}
	for _, v := range snap.Enemies() {
		if v.State != StateIdle {
			t.Errorf("%s should be held at the first trench, got %s", v.Label, v.State)
		}
	}
	if out := DetermineOutcome(snap); out.Outcome != OutcomeInconclusive {
		t.Fatalf("standoff should be inconclusive, got %s", out.Outcome)
	}
}

// --- Scenario: Hill Cover ---

func TestScenario_HillCover(t *testing.T) {
	t.Log("=== TestScenario_HillCover ===")
	t.Log("--- Setup: 1 v 1 riflemen either side of a two-tile hill ---")

	ts, err := NewTestSim(
		WithGrid(
			"    ##    ",
			"    ##    ",
			"##########",
		),
		WithFriendly(rifleman(), 1),
		WithEnemy(rifleman(), 1),
	)
	if err != nil {
		t.Fatal(err)
	}

	ts.RunTicks(30)
	if n := ts.SimLog.CountCategory("combat", "fired"); n != 0 {
		dumpLog(t, ts)
		t.Fatalf("the hill blocks every aim point at spawn, yet %d rounds fired", n)
	}
	if ts.Snapshot().Friendlies()[0].State != StateMarching {
		t.Fatal("blocked soldiers should keep marching toward the hill")
	}

	ts.RunFor(30)
	dumpLog(t, ts)
	if ts.SimLog.CountCategory("combat", "fired") == 0 {
		t.Log("NOTE: no shots exchanged over the crest")
	}
}
