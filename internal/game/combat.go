package game

import "math"

// Bullet is an in-flight round. Bullets are not owned by either faction;
// FromEnemy only decides which side they can hurt.
type Bullet struct {
	Pos       Vec2
	Vel       Vec2
	Origin    Vec2 // muzzle position at discharge
	Damage    int
	FromEnemy bool
	ShooterID int
}

// Side returns the faction that fired the round.
func (bl *Bullet) Side() Side {
	if bl.FromEnemy {
		return SideEnemy
	}
	return SideFriendly
}

// updateBullets integrates every round and resolves it against the map edges,
// the terrain and the opposing faction. A round is removed at most once.
func (b *Battle) updateBullets(dt float64) {
	left, right := b.terrain.Left(), b.terrain.Right()
	ground := b.terrain.Friendly.Points

	kept := b.bullets[:0]
	for _, bl := range b.bullets {
		prev := bl.Pos
		bl.Pos = bl.Pos.Add(bl.Vel.Scale(dt))

		if bl.Pos.X < left || bl.Pos.X > right {
			continue
		}
		if IntersectsPath(prev, bl.Pos, ground) {
			continue
		}
		if b.strike(bl) {
			continue
		}
		kept = append(kept, bl)
	}
	// Drop stale pointers past the new length.
	for i := len(kept); i < len(b.bullets); i++ {
		b.bullets[i] = nil
	}
	b.bullets = kept
}

// strike applies the round to one opposing soldier whose box contains it.
// Reports whether the round was absorbed.
func (b *Battle) strike(bl *Bullet) bool {
	victims := bl.Side().Opponent()
	b.struck = b.struck[:0]
	for _, s := range b.soldiers[victims] {
		if s.State == StateDying {
			continue
		}
		if s.Contains(bl.Pos) {
			b.struck = append(b.struck, s)
		}
	}
	if len(b.struck) == 0 {
		return false
	}

	target := b.policy.SelectHit(bl, b.struck)
	target.Health -= bl.Damage
	b.emit(Event{
		Kind:      EventHit,
		Side:      bl.Side(),
		SoldierID: bl.ShooterID,
		TargetID:  target.ID,
		Pos:       bl.Pos,
		Damage:    bl.Damage,
	})
	b.metrics.add(b.metrics.hits, bl.Side())
	b.log.Debug().Int("shooter", bl.ShooterID).Str("target", target.Label()).
		Int("damage", bl.Damage).Int("health", target.Health).Msg("hit")
	return true
}

// findTarget returns the best opposing soldier within the shooter's
// horizontal range, or nil. Dying soldiers are never chosen.
func (b *Battle) findTarget(s *Soldier) *Soldier {
	rangePx := s.Rand * s.Character.Range * b.terrain.TileSize
	cx := s.CenterX()

	var best *Soldier
	for _, o := range b.soldiers[s.Side.Opponent()] {
		if o.State == StateDying {
			continue
		}
		if math.Abs(o.CenterX()-cx) >= rangePx {
			continue
		}
		if best == nil || b.policy.PreferTarget(s, o, best) {
			best = o
		}
	}
	return best
}

// engage aims at the current target and, when the weapon is ready, runs the
// fire animation and discharges on the designated frame. Reports whether the
// soldier is engaged, which suppresses marching this tick.
func (b *Battle) engage(s *Soldier) bool {
	target := b.findTarget(s)
	if target == nil {
		return false
	}

	ground := b.terrain.Friendly.Points
	muzzle := s.Muzzle()
	aim := target.BodyPoint()
	if IntersectsPath(muzzle, aim, ground) {
		aim = target.HeadPoint()
		if IntersectsPath(muzzle, aim, ground) {
			return false
		}
	}

	if s.State != StateFiring {
		s.setState(StateIdle)
	}
	if s.Cooldown <= 0 {
		s.Fire()
		if s.State == StateFiring && s.FrameCounter == s.Character.FireFrame && !s.discharged {
			b.discharge(s, muzzle, aim)
		}
	}
	return true
}

// discharge spawns one round from muzzle toward aim with Gaussian angular
// spread and resets the shooter's cooldown.
func (b *Battle) discharge(s *Soldier, muzzle, aim Vec2) {
	c := s.Character
	dir, ok := aim.Sub(muzzle).Unit()
	if !ok {
		dir = Vec2{X: 1}
		if s.Side == SideEnemy {
			dir.X = -1
		}
	}
	p := dir.Scale(c.MuzzleVelocity).ToPolar()
	p.Theta += c.Spread * b.rng.NormFloat64()

	b.bullets = append(b.bullets, &Bullet{
		Pos:       muzzle,
		Vel:       p.Vec(),
		Origin:    muzzle,
		Damage:    c.RoundDamage,
		FromEnemy: s.Side == SideEnemy,
		ShooterID: s.ID,
	})
	s.discharged = true
	s.Cooldown = c.Cooldown()

	b.emit(Event{Kind: EventFired, Side: s.Side, SoldierID: s.ID, Pos: muzzle})
	b.metrics.add(b.metrics.shots, s.Side)
}
