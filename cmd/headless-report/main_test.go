package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Garsondee/Trenchline/internal/game"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TRENCHLINE_LOGLEVEL", "disabled")
}

func TestDetectStalemate_TrueWhenMutualSurvivalAndFireIneffective(t *testing.T) {
	rs := runStats{
		shots: [2]int{40, 38},
		hits:  [2]int{3, 4},
		outcome: game.BattleOutcomeReason{
			Outcome:           game.OutcomeInconclusive,
			FriendlyTotal:     6,
			EnemyTotal:        6,
			FriendlySurvivors: 5,
			EnemySurvivors:    4,
		},
	}

	isStalemate, reason := detectStalemate(rs)
	if !isStalemate {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "high_mutual_survival") {
		t.Fatalf("expected reason to mention high_mutual_survival, got: %s", reason)
	}
}

func TestDetectStalemate_FalseWhenObjectiveDecided(t *testing.T) {
	rs := runStats{
		outcome: game.BattleOutcomeReason{
			Outcome:           game.OutcomeFriendlyVictory,
			FriendlyTotal:     6,
			EnemyTotal:        6,
			FriendlySurvivors: 5,
			EnemySurvivors:    5,
		},
	}

	isStalemate, reason := detectStalemate(rs)
	if isStalemate || reason != "objective_decided" {
		t.Fatalf("expected objective_decided, got stalemate=%v reason=%s", isStalemate, reason)
	}
}

func TestDetectStalemate_FalseWhenAttritionDecisive(t *testing.T) {
	rs := runStats{
		outcome: game.BattleOutcomeReason{
			FriendlyTotal:     6,
			EnemyTotal:        6,
			FriendlySurvivors: 2,
			EnemySurvivors:    5,
		},
	}

	isStalemate, reason := detectStalemate(rs)
	if isStalemate {
		t.Fatalf("expected stalemate=false under decisive attrition (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWhenSideMissing(t *testing.T) {
	rs := runStats{outcome: game.BattleOutcomeReason{FriendlyTotal: 3}}
	if isStalemate, reason := detectStalemate(rs); isStalemate || reason != "side_not_deployed" {
		t.Fatalf("got stalemate=%v reason=%s", isStalemate, reason)
	}
}

func TestFirstTick(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Category: "state", Key: "spawned"},
		{Tick: 7, Category: "combat", Key: "fired", Value: "from (10,20)"},
		{Tick: 9, Category: "combat", Key: "hit", Value: "E2 for 40"},
		{Tick: 12, Category: "combat", Key: "hit", Value: "F1 for 25"},
	}
	if got := firstTick(entries, "combat", "fired", ""); got != 7 {
		t.Fatalf("first fired tick: got %d, want 7", got)
	}
	if got := firstTick(entries, "combat", "hit", "F1"); got != 12 {
		t.Fatalf("first hit on F1: got %d, want 12", got)
	}
	if got := firstTick(entries, "state", "died", ""); got != -1 {
		t.Fatalf("missing entry: got %d, want -1", got)
	}
}

func TestAvgHelpers(t *testing.T) {
	if got := avg(10, 4); got != 2.5 {
		t.Fatalf("avg: got %v", got)
	}
	if got := avg(10, 0); got != 0 {
		t.Fatalf("avg with no runs: got %v", got)
	}
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("avgTickString(nil): got %q", got)
	}
	if got := avgTickString([]int{10, 20, 40}); got != "23.3" {
		t.Fatalf("avgTickString: got %q", got)
	}
	if got := formatCounts(map[string]int{"draw": 1, "b": 2}); got != "b=2 draw=1" {
		t.Fatalf("formatCounts: got %q", got)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	quietEnv(t)
	var out bytes.Buffer
	if err := run(options{runs: 0, seconds: 1, dt: 0.1, perSide: 1}, &out); err == nil {
		t.Fatal("expected an error for zero runs")
	}
	o := options{runs: 1, seconds: 1, dt: 0.1, perSide: 1, mapID: "nowhere/none", friendly: "british", enemy: "german"}
	if err := run(o, &out); err == nil {
		t.Fatal("expected an error for an unknown map")
	}
}

func TestRunEndToEnd(t *testing.T) {
	quietEnv(t)
	var out bytes.Buffer
	o := options{
		runs:     2,
		seconds:  30,
		dt:       1.0 / 30.0,
		seedBase: 7,
		seedStep: 3,
		mapID:    "western-front/flats",
		friendly: "british",
		enemy:    "german",
		perSide:  3,
		persist:  true,
	}
	if err := run(o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"=== Headless Battle Report ===",
		"--- Run 1 (seed=7) ---",
		"--- Run 2 (seed=10) ---",
		"phase_markers:",
		"event_totals:",
		"=== Aggregate ===",
		"runs=2",
		"stored_outcomes[western-front/flats]:",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if !strings.Contains(report, "survivors: friendly=") {
		t.Fatalf("report missing survivor line:\n%s", report)
	}
}
