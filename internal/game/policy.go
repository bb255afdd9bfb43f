package game

import "math"

// Policy resolves ties where several soldiers qualify for the same query.
type Policy interface {
	// PreferTarget reports whether candidate should replace best as the
	// shooter's target. Both are already known to be in range.
	PreferTarget(shooter, candidate, best *Soldier) bool
	// SelectHit picks the soldier that absorbs a round from those whose box
	// contains it. struck is non-empty and in faction list order.
	SelectHit(b *Bullet, struck []*Soldier) *Soldier
}

// FirstMatch keeps list order: the nearest target wins with ties going to
// the earlier soldier, and a round hits the first soldier it overlaps.
type FirstMatch struct{}

func (FirstMatch) PreferTarget(shooter, candidate, best *Soldier) bool {
	cx := shooter.CenterX()
	return math.Abs(candidate.CenterX()-cx) < math.Abs(best.CenterX()-cx)
}

func (FirstMatch) SelectHit(_ *Bullet, struck []*Soldier) *Soldier {
	return struck[0]
}

// NearestHit is an alternative policy: a round hits the overlapping soldier
// closest to the point it was fired from along its travel direction.
type NearestHit struct {
	FirstMatch
}

func (NearestHit) SelectHit(b *Bullet, struck []*Soldier) *Soldier {
	best := struck[0]
	bestD := math.Abs(best.CenterX() - b.Origin.X)
	for _, s := range struck[1:] {
		if d := math.Abs(s.CenterX() - b.Origin.X); d < bestD {
			best, bestD = s, d
		}
	}
	return best
}
