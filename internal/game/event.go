package game

// EventKind classifies something observable that happened during a tick.
type EventKind int

const (
	EventSpawned EventKind = iota
	EventFired
	EventHit
	EventDied
	EventRemoved
	EventTrenchReset
	EventTrenchToggled
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventFired:
		return "fired"
	case EventHit:
		return "hit"
	case EventDied:
		return "died"
	case EventRemoved:
		return "removed"
	case EventTrenchReset:
		return "trench_reset"
	case EventTrenchToggled:
		return "trench_toggled"
	default:
		return "unknown"
	}
}

// Event is a side effect signalled to presentation, audio and logs.
// SoldierID is the actor (shooter, victim, spawned unit); TargetID is the
// soldier struck by a round. PathIndex is set for trench events only.
type Event struct {
	Tick      int
	Kind      EventKind
	Side      Side
	SoldierID int
	TargetID  int
	Pos       Vec2
	Damage    int
	PathIndex int
	Action    PathAction
}
