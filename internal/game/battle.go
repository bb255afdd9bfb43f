package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

const (
	// DefaultTileSize is the pixel size of one map cell.
	DefaultTileSize = 32.0
	// DefaultAnimFPS is the animation rate used for frame counters.
	DefaultAnimFPS = 12.0
	// spawnInset is the gap between the map edge and a freshly spawned soldier.
	spawnInset = 10.0
)

var (
	// ErrNotTrench is returned when a trench command targets a ground vertex.
	ErrNotTrench = errors.New("path point is not a trench")
	// ErrObjectiveTrench is returned when a command targets the side's objective.
	ErrObjectiveTrench = errors.New("objective trench cannot be toggled")
	// ErrPathIndex is returned for an out-of-range path index.
	ErrPathIndex = errors.New("path index out of range")
)

// Battle is the scenario state: both factions, their paths, the shared
// bullet list and running tallies. One Step is atomic with respect to
// Snapshot and the command methods.
type Battle struct {
	mu sync.RWMutex

	terrain  *Terrain
	paths    [2]*Path
	soldiers [2][]*Soldier
	bullets  []*Bullet

	rng       *rand.Rand
	policy    Policy
	log       zerolog.Logger
	meter     metric.Meter
	metrics   *battleMetrics
	frameTime float64

	nextID  int
	tick    int
	elapsed float64

	spawned    [2]int
	deployed   [2][]string
	casualties [2]int
	holding    [2]int
	holdTime   [2]float64

	events []Event
	struck []*Soldier
}

// Option configures a Battle.
type Option func(*Battle)

// WithSeed makes the battle's random draws reproducible.
func WithSeed(seed int64) Option {
	return func(b *Battle) {
		b.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only
	}
}

// WithPolicy replaces the default first-match tie-break policy.
func WithPolicy(p Policy) Option {
	return func(b *Battle) {
		if p != nil {
			b.policy = p
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Battle) { b.log = l }
}

// WithMeter records combat counters on m instead of the global meter.
func WithMeter(m metric.Meter) Option {
	return func(b *Battle) { b.meter = m }
}

// WithAnimFPS sets the animation frame rate.
func WithAnimFPS(fps float64) Option {
	return func(b *Battle) {
		if fps > 0 {
			b.frameTime = 1 / fps
		}
	}
}

// NewBattle creates an empty battle on the given terrain.
func NewBattle(t *Terrain, opts ...Option) (*Battle, error) {
	if t == nil || t.Friendly == nil || t.Enemy == nil || len(t.Friendly.Points) < 2 {
		return nil, fmt.Errorf("new battle: %w", ErrEmptyPath)
	}
	b := &Battle{
		terrain:   t,
		paths:     [2]*Path{t.Friendly, t.Enemy},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- simulation only
		policy:    FirstMatch{},
		log:       zerolog.Nop(),
		frameTime: 1 / DefaultAnimFPS,
	}
	for _, o := range opts {
		o(b)
	}
	b.metrics = newBattleMetrics(b.meter)
	return b, nil
}

// Terrain returns the battlefield geometry. Path action flags change during
// the battle; read them through Snapshot.
func (b *Battle) Terrain() *Terrain { return b.terrain }

// Spawn places a new soldier at its side's path origin and returns its ID.
func (b *Battle) Spawn(c *CharacterTemplate, side Side) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("spawn %s: %w", side, ErrNilTemplate)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pts := b.terrain.Friendly.Points
	var pos Vec2
	if side == SideEnemy {
		pos = Vec2{
			X: b.terrain.WidthPx() - spawnInset - c.Size.X,
			Y: pts[len(pts)-1].Pos.Y - c.Size.Y,
		}
	} else {
		pos = Vec2{X: spawnInset, Y: pts[0].Pos.Y - c.Size.Y}
	}

	rnd := 1 + 0.1*b.rng.NormFloat64()
	if rnd < 0.1 {
		rnd = 0.1
	}
	b.nextID++
	s := newSoldier(b.nextID, side, c, pos, rnd)
	b.soldiers[side] = append(b.soldiers[side], s)
	b.spawned[side]++
	if !slices.Contains(b.deployed[side], c.Name) {
		b.deployed[side] = append(b.deployed[side], c.Name)
	}

	b.emit(Event{Kind: EventSpawned, Side: side, SoldierID: s.ID, Pos: pos})
	b.log.Debug().Str("soldier", s.Label()).Str("character", c.Name).Float64("rand", rnd).Msg("spawned")
	return s.ID, nil
}

// Step advances the simulation by dt seconds and returns the events produced
// since the previous Step, including those from commands issued in between.
// Bullets move first, then the friendly faction (seeing enemies as they stood
// at the start of the tick), then the enemy faction (seeing the
// already-updated friendlies).
func (b *Battle) Step(dt float64) []Event {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tick++
	b.elapsed += dt

	b.updateBullets(dt)
	b.updateFaction(SideFriendly, dt)
	b.updateFaction(SideEnemy, dt)

	for side := range b.holding {
		if b.holding[side] > 0 {
			b.holdTime[side] += dt
		}
	}

	out := make([]Event, len(b.events))
	copy(out, b.events)
	b.events = b.events[:0]
	return out
}

// ToggleTrench flips a trench between HOLD and MARCH on side's path.
func (b *Battle) ToggleTrench(side Side, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.toggleLocked(side, index)
}

// toggleLocked is ToggleTrench with b.mu already held for writing.
func (b *Battle) toggleLocked(side Side, index int) error {
	p := b.paths[side]
	if index < 0 || index >= len(p.Points) {
		return fmt.Errorf("toggle trench %d: %w", index, ErrPathIndex)
	}
	if p.Points[index].Kind != PathTrench {
		return fmt.Errorf("toggle trench %d: %w", index, ErrNotTrench)
	}
	if index == p.Objective {
		return fmt.Errorf("toggle trench %d: %w", index, ErrObjectiveTrench)
	}
	pt := &p.Points[index]
	if pt.Action == ActionHold {
		pt.Action = ActionMarch
	} else {
		pt.Action = ActionHold
	}
	b.emit(Event{Kind: EventTrenchToggled, Side: side, PathIndex: index, Pos: pt.Pos, Action: pt.Action})
	b.log.Info().Str("side", side.String()).Int("index", index).Str("action", pt.Action.String()).Msg("trench toggled")
	return nil
}

// Advance opens the first held trench in side's direction of travel,
// skipping its objective. Returns the path index opened. The search and the
// flip happen under one lock.
func (b *Battle) Advance(side Side) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.paths[side]
	idx := -1
	if side == SideFriendly {
		for i, pt := range p.Points {
			if pt.Kind == PathTrench && pt.Action == ActionHold && i != p.Objective {
				idx = i
				break
			}
		}
	} else {
		for i := len(p.Points) - 1; i >= 0; i-- {
			pt := p.Points[i]
			if pt.Kind == PathTrench && pt.Action == ActionHold && i != p.Objective {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return -1, false
	}
	if err := b.toggleLocked(side, idx); err != nil {
		return -1, false
	}
	return idx, true
}

// Tick returns the number of completed steps.
func (b *Battle) Tick() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tick
}

func (b *Battle) emit(e Event) {
	e.Tick = b.tick
	b.events = append(b.events, e)
}
