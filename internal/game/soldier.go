package game

import "errors"

// ErrNilTemplate is returned when a soldier is spawned without a character.
var ErrNilTemplate = errors.New("character template is nil")

// Side distinguishes the two factions.
type Side int

const (
	SideFriendly Side = iota // advances left to right
	SideEnemy                // advances right to left
)

func (s Side) String() string {
	switch s {
	case SideFriendly:
		return "friendly"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideFriendly {
		return SideEnemy
	}
	return SideFriendly
}

// SoldierState represents the soldier's animation/behaviour state.
type SoldierState int

const (
	StateIdle     SoldierState = iota // stopped: held at a trench or aiming
	StateMarching                     // advancing along the path
	StateFiring                       // playing the fire animation
	StateDying                        // terminal; removed when the death animation ends
)

func (ss SoldierState) String() string {
	switch ss {
	case StateIdle:
		return "idle"
	case StateMarching:
		return "marching"
	case StateFiring:
		return "firing"
	case StateDying:
		return "dying"
	default:
		return "unknown"
	}
}

// CharacterTemplate is the immutable per-character combat profile supplied
// by the asset repository. Soldiers share it by pointer and never mutate it.
type CharacterTemplate struct {
	Name        string
	DisplayName string
	Size        Vec2 // sprite width/height in pixels

	MarchFrames int
	FireFrames  int
	DeathFrames int
	FireFrame   int // fire-animation frame on which the round leaves the muzzle

	RPM            float64 // rounds per minute
	RoundDamage    int
	MuzzleVelocity float64 // pixels per second
	Spread         float64 // aim standard deviation, radians
	MarchSpeed     float64 // pixels per second
	Range          float64 // engagement range in tiles
	Health         int
}

// Cooldown returns the seconds between rounds.
func (c *CharacterTemplate) Cooldown() float64 {
	if c.RPM <= 0 {
		return 0
	}
	return 60 / c.RPM
}

// Soldier is an autonomous unit owned by exactly one faction list.
type Soldier struct {
	ID        int
	Side      Side
	Character *CharacterTemplate

	Pos Vec2 // top-left of the sprite box
	Vel Vec2

	// Rand is a per-soldier N(1, 0.1) multiplier on range and march speed.
	Rand float64

	State        SoldierState
	PrevState    SoldierState
	FrameCounter int
	Cooldown     float64
	Health       int

	frameClock float64
	discharged bool // round already fired during this fire animation
}

// newSoldier builds a soldier in its spawn state.
func newSoldier(id int, side Side, c *CharacterTemplate, pos Vec2, rnd float64) *Soldier {
	return &Soldier{
		ID:        id,
		Side:      side,
		Character: c,
		Pos:       pos,
		Rand:      rnd,
		State:     StateMarching,
		PrevState: StateMarching,
		Health:    c.Health,
	}
}

// Label is a short identifier used in logs, e.g. "F3" or "E12".
func (s *Soldier) Label() string { return SoldierLabel(s.Side, s.ID) }

// Alive reports whether the soldier can still act.
func (s *Soldier) Alive() bool { return s.State != StateDying }

// CenterX is the horizontal centre of the sprite box.
func (s *Soldier) CenterX() float64 { return s.Pos.X + s.Character.Size.X/2 }

// Foot is the bottom-centre of the sprite box, the point that walks the path.
func (s *Soldier) Foot() Vec2 {
	return Vec2{s.Pos.X + s.Character.Size.X/2, s.Pos.Y + s.Character.Size.Y}
}

// Muzzle is where rounds originate: three-quarters across the sprite in the
// facing direction, one-third down.
func (s *Soldier) Muzzle() Vec2 {
	w, h := s.Character.Size.X, s.Character.Size.Y
	x := s.Pos.X + 3*w/4
	if s.Side == SideEnemy {
		x = s.Pos.X + w/4
	}
	return Vec2{x, s.Pos.Y + h/3}
}

// BodyPoint is the aim point at the centre of the sprite.
func (s *Soldier) BodyPoint() Vec2 { return s.Pos.Add(s.Character.Size.Div(2)) }

// HeadPoint is the aim point in the top quarter of the sprite.
func (s *Soldier) HeadPoint() Vec2 {
	return Vec2{s.Pos.X + s.Character.Size.X/2, s.Pos.Y + s.Character.Size.Y/8}
}

// Contains reports whether p lies strictly inside the sprite box.
func (s *Soldier) Contains(p Vec2) bool {
	return p.X > s.Pos.X && p.Y > s.Pos.Y &&
		p.X < s.Pos.X+s.Character.Size.X && p.Y < s.Pos.Y+s.Character.Size.Y
}

// Die starts the death animation. Calling it on a dying soldier is a no-op.
// Reports whether the state changed.
func (s *Soldier) Die() bool {
	if s.State == StateDying {
		return false
	}
	s.State = StateDying
	s.FrameCounter = 0
	s.frameClock = 0
	return true
}

// Fire starts the fire animation. While already firing (or dying) it does
// nothing, so PrevState keeps the state that preceded the first call.
func (s *Soldier) Fire() {
	if s.State == StateDying || s.State == StateFiring {
		return
	}
	s.PrevState = s.State
	s.State = StateFiring
	s.FrameCounter = 0
	s.frameClock = 0
	s.discharged = false
}

// setState records the previous state and switches to next.
func (s *Soldier) setState(next SoldierState) {
	s.PrevState = s.State
	s.State = next
}

// Animate advances the frame counter by at most one frame per call.
// Firing soldiers return to PrevState once the fire animation completes;
// marching loops; dying counts up until the death animation is exhausted.
func (s *Soldier) Animate(dt, frameTime float64) {
	if frameTime <= 0 {
		return
	}
	s.frameClock += dt
	if s.frameClock < frameTime {
		return
	}
	s.frameClock -= frameTime
	if s.frameClock > frameTime {
		s.frameClock = frameTime
	}

	c := s.Character
	switch s.State {
	case StateIdle:
		s.FrameCounter = 0
	case StateMarching:
		s.FrameCounter++
		if c.MarchFrames > 0 {
			s.FrameCounter %= c.MarchFrames
		} else {
			s.FrameCounter = 0
		}
	case StateFiring:
		s.FrameCounter++
		if s.FrameCounter >= max(c.FireFrames, c.FireFrame+1) {
			s.State = s.PrevState
			if s.State == StateFiring {
				s.State = StateIdle
			}
			s.FrameCounter = 0
		}
	case StateDying:
		s.FrameCounter++
	}
}

// DeathDone reports whether a dying soldier has finished its animation.
func (s *Soldier) DeathDone() bool {
	return s.State == StateDying && s.FrameCounter >= s.Character.DeathFrames
}
