package game

import "slices"

// SoldierView is the read-only presentation state of one soldier.
type SoldierView struct {
	ID        int
	Label     string
	Side      Side
	Character *CharacterTemplate
	Pos       Vec2
	Vel       Vec2
	State     SoldierState
	Frame     int
	Health    int
	Cooldown  float64
}

// BulletView is the read-only presentation state of one round.
type BulletView struct {
	Pos  Vec2
	Vel  Vec2
	Side Side
}

// Snapshot is a consistent copy of the battle taken between ticks. It shares
// no mutable memory with the Battle.
type Snapshot struct {
	Tick    int
	Elapsed float64

	Soldiers [2][]SoldierView
	Bullets  []BulletView
	Paths    [2]Path

	Spawned    [2]int
	Deployed   [2][]string // template names in first-spawn order
	Casualties [2]int
	Holding    [2]int
	HoldTime   [2]float64

	TileSize float64
	Width    float64
	Height   float64
}

// Friendlies returns the friendly soldiers in list order.
func (s Snapshot) Friendlies() []SoldierView { return s.Soldiers[SideFriendly] }

// Enemies returns the enemy soldiers in list order.
func (s Snapshot) Enemies() []SoldierView { return s.Soldiers[SideEnemy] }

// Alive counts side's soldiers that are not dying.
func (s Snapshot) Alive(side Side) int {
	n := 0
	for _, v := range s.Soldiers[side] {
		if v.State != StateDying {
			n++
		}
	}
	return n
}

// Soldier looks up a soldier by ID.
func (s Snapshot) Soldier(id int) (SoldierView, bool) {
	for _, list := range s.Soldiers {
		for _, v := range list {
			if v.ID == id {
				return v, true
			}
		}
	}
	return SoldierView{}, false
}

// Snapshot copies the current battle state for presentation.
func (b *Battle) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Tick:       b.tick,
		Elapsed:    b.elapsed,
		Spawned:    b.spawned,
		Casualties: b.casualties,
		Holding:    b.holding,
		HoldTime:   b.holdTime,
		TileSize:   b.terrain.TileSize,
		Width:      b.terrain.WidthPx(),
		Height:     b.terrain.HeightPx(),
	}
	for side, list := range b.soldiers {
		views := make([]SoldierView, len(list))
		for i, s := range list {
			views[i] = SoldierView{
				ID:        s.ID,
				Label:     s.Label(),
				Side:      s.Side,
				Character: s.Character,
				Pos:       s.Pos,
				Vel:       s.Vel,
				State:     s.State,
				Frame:     s.FrameCounter,
				Health:    s.Health,
				Cooldown:  s.Cooldown,
			}
		}
		snap.Soldiers[side] = views
		snap.Deployed[side] = slices.Clone(b.deployed[side])
		snap.Paths[side] = *b.paths[side].clone()
	}
	snap.Bullets = make([]BulletView, len(b.bullets))
	for i, bl := range b.bullets {
		snap.Bullets[i] = BulletView{Pos: bl.Pos, Vel: bl.Vel, Side: bl.Side()}
	}
	return snap
}

// Casualties returns the number of soldiers side has lost.
func (b *Battle) Casualties(side Side) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.casualties[side]
}

// Holding returns how many of side's soldiers held its objective last tick.
func (b *Battle) Holding(side Side) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.holding[side]
}
