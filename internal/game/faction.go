package game

import "math"

// updateFaction runs one side's per-tick update: death bookkeeping and
// animation, target acquisition and firing, movement along the path,
// objective tally and finally the trench reset policy. The opposing list is
// only read.
func (b *Battle) updateFaction(side Side, dt float64) {
	b.holding[side] = 0
	path := b.paths[side]
	obj, hasObj := path.ObjectivePoint()

	for _, s := range b.soldiers[side] {
		if s.Health <= 0 && s.Die() {
			b.casualties[side]++
			b.emit(Event{Kind: EventDied, Side: side, SoldierID: s.ID, Pos: s.Pos})
			b.metrics.add(b.metrics.casualties, side)
			b.log.Debug().Str("soldier", s.Label()).Int("health", s.Health).Msg("died")
		}

		s.Animate(dt, b.frameTime)

		if s.State == StateDying {
			if s.DeathDone() {
				b.emit(Event{Kind: EventRemoved, Side: side, SoldierID: s.ID, Pos: s.Pos})
			}
			continue
		}

		engaged := b.engage(s)
		s.Cooldown -= dt
		b.march(s, path, engaged, dt)

		if hasObj && math.Abs(s.CenterX()-obj.Pos.X) <= b.terrain.TileSize {
			b.holding[side]++
		}
	}

	list := b.soldiers[side]
	kept := list[:0]
	for _, s := range list {
		if !s.DeathDone() {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(list); i++ {
		list[i] = nil
	}
	b.soldiers[side] = kept

	b.resetTrenches(side)
}

// march moves s toward the next path point ahead of its centre. The action
// of the point just behind decides between MARCHING and IDLE unless the
// soldier engaged a target this tick, in which case its state is left alone.
func (b *Battle) march(s *Soldier, path *Path, engaged bool, dt float64) {
	pts := path.Points
	cx := s.CenterX()

	next, gate := -1, -1
	if s.Side == SideFriendly {
		for i := 1; i < len(pts); i++ {
			if pts[i].Pos.X > cx {
				next, gate = i, i-1
				break
			}
		}
	} else {
		for i := len(pts) - 2; i >= 0; i-- {
			if pts[i].Pos.X < cx {
				next, gate = i, i+1
				break
			}
		}
	}

	if next < 0 {
		// Past the end of the path.
		if !engaged && s.State != StateFiring {
			s.setState(StateIdle)
		}
		s.Vel = Vec2{}
		return
	}

	if !engaged {
		if pts[gate].Action == ActionMarch {
			s.setState(StateMarching)
		} else {
			s.setState(StateIdle)
		}
	}

	if s.State != StateMarching {
		s.Vel = Vec2{}
		return
	}
	dir, ok := pts[next].Pos.Sub(s.Foot()).Unit()
	if !ok {
		// Standing exactly on the vertex: step across it.
		dir = Vec2{X: 1}
		if s.Side == SideEnemy {
			dir.X = -1
		}
	}
	s.Vel = dir.Scale(s.Rand * s.Character.MarchSpeed)
	s.Pos = s.Pos.Add(s.Vel.Scale(dt))
}

// resetTrenches forces MARCH trenches back to HOLD once the side no longer
// has a living soldier within one tile of them. Trenches behind the side's
// front stay open; with no living soldier every trench closes.
func (b *Battle) resetTrenches(side Side) {
	path := b.paths[side]
	ts := b.terrain.TileSize

	front, found := 0.0, false
	for _, s := range b.soldiers[side] {
		if s.State == StateDying {
			continue
		}
		cx := s.CenterX()
		switch {
		case !found:
			front, found = cx, true
		case side == SideFriendly && cx > front:
			front = cx
		case side == SideEnemy && cx < front:
			front = cx
		}
	}

	for i := range path.Points {
		pt := &path.Points[i]
		if pt.Kind != PathTrench || pt.Action != ActionMarch {
			continue
		}
		if found {
			if side == SideFriendly && pt.Pos.X <= front+ts {
				continue
			}
			if side == SideEnemy && pt.Pos.X >= front-ts {
				continue
			}
		}
		pt.Action = ActionHold
		b.emit(Event{Kind: EventTrenchReset, Side: side, PathIndex: i, Pos: pt.Pos, Action: ActionHold})
		b.metrics.add(b.metrics.trenchResets, side)
		b.log.Info().Str("side", side.String()).Int("index", i).Msg("trench reset to hold")
	}
}
