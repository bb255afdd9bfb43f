package game

import (
	"fmt"
)

// TestSim is a headless simulation harness used by tests and the batch
// reporter. It drives a Battle with a fixed timestep and records state
// changes and battle events into a SimLog.
type TestSim struct {
	Battle *Battle
	SimLog *SimLog
	Delta  float64

	grid     Grid
	tileSize float64
	opts     []Option
	spawns   []simSpawn

	prevStates map[int]SoldierState
}

type simSpawn struct {
	c    *CharacterTemplate
	side Side
	n    int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // map, tile size, seed, verbose; applied first
	simOptSoldier                      // spawn soldiers after the battle exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithGrid sets the battlefield map.
func WithGrid(rows ...string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.grid = Grid(rows)
	}}
}

// WithTileSize sets the pixel size of one map cell.
func WithTileSize(px float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tileSize = px
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithDelta sets the fixed timestep in seconds.
func WithDelta(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Delta = dt
	}}
}

// WithBattle forwards options to the underlying Battle.
func WithBattle(opts ...Option) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.opts = append(ts.opts, opts...)
	}}
}

// WithFriendly spawns n friendly soldiers of template c.
func WithFriendly(c *CharacterTemplate, n int) SimOption {
	return SimOption{simOptSoldier, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, simSpawn{c, SideFriendly, n})
	}}
}

// WithEnemy spawns n enemy soldiers of template c.
func WithEnemy(c *CharacterTemplate, n int) SimOption {
	return SimOption{simOptSoldier, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, simSpawn{c, SideEnemy, n})
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (map, tile size, seed, verbose)
//  2. Build terrain and battle
//  3. Soldiers
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		SimLog:     NewSimLog(false),
		Delta:      1.0 / 60.0,
		grid:       Grid{"          ", "##########"},
		tileSize:   DefaultTileSize,
		opts:       []Option{WithSeed(1)},
		prevStates: map[int]SoldierState{},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	terrain, err := BuildTerrain(ts.grid, ts.tileSize)
	if err != nil {
		return nil, fmt.Errorf("test sim: %w", err)
	}
	ts.Battle, err = NewBattle(terrain, ts.opts...)
	if err != nil {
		return nil, fmt.Errorf("test sim: %w", err)
	}

	for _, o := range opts {
		if o.kind == simOptSoldier {
			o.fn(ts)
		}
	}
	for _, sp := range ts.spawns {
		for i := 0; i < sp.n; i++ {
			if _, err := ts.Battle.Spawn(sp.c, sp.side); err != nil {
				return nil, fmt.Errorf("test sim: %w", err)
			}
		}
	}
	ts.recordStates(ts.Battle.Snapshot())
	return ts, nil
}

// RunTicks advances the simulation n ticks, logging events to SimLog.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunFor advances the simulation by at least seconds of simulated time.
func (ts *TestSim) RunFor(seconds float64) {
	if ts.Delta <= 0 {
		return
	}
	ts.RunTicks(int(seconds/ts.Delta + 0.5))
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Battle.Tick()
		}
	}
	return -1
}

func (ts *TestSim) runOneTick() {
	for _, e := range ts.Battle.Step(ts.Delta) {
		ts.SimLog.Record(e)
	}
	ts.recordStates(ts.Battle.Snapshot())
}

// recordStates logs state transitions since the previous tick, plus verbose
// per-soldier position and cooldown lines.
func (ts *TestSim) recordStates(snap Snapshot) {
	for _, list := range snap.Soldiers {
		for _, v := range list {
			side := v.Side.String()
			if prev, ok := ts.prevStates[v.ID]; ok && prev != v.State {
				ts.SimLog.Add(snap.Tick, v.Label, side, "state", "change",
					fmt.Sprintf("%s → %s", prev, v.State), 0)
			}
			ts.prevStates[v.ID] = v.State

			ts.SimLog.AddVerbose(snap.Tick, v.Label, side, "move", "position",
				fmt.Sprintf("(%.1f,%.1f)", v.Pos.X, v.Pos.Y), v.Pos.X)
			ts.SimLog.AddVerbose(snap.Tick, v.Label, side, "stats", "cooldown",
				fmt.Sprintf("%.3f", v.Cooldown), v.Cooldown)
		}
	}
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Battle.Tick()
}

// Snapshot returns the current battle state.
func (ts *TestSim) Snapshot() Snapshot {
	return ts.Battle.Snapshot()
}
