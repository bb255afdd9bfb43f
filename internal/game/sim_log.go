package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless simulation.
type SimLogEntry struct {
	Tick     int
	Soldier  string  // label e.g. "F1", "E4", or "--" for global events
	Side     string  // "friendly", "enemy", or "--"
	Category string  // combat, state, trench, move, stats
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] F1   state     change           marching → idle
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Soldier, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless simulation.
// It is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// cooldown entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, soldier, side, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Soldier:  soldier,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, soldier, side, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, soldier, side, category, key, value, numVal)
}

// Record translates a battle event into a log entry.
func (sl *SimLog) Record(e Event) {
	label := SoldierLabel(e.Side, e.SoldierID)
	side := e.Side.String()
	switch e.Kind {
	case EventSpawned:
		sl.Add(e.Tick, label, side, "state", "spawned",
			fmt.Sprintf("at (%.0f,%.0f)", e.Pos.X, e.Pos.Y), 0)
	case EventFired:
		sl.Add(e.Tick, label, side, "combat", "fired",
			fmt.Sprintf("from (%.0f,%.0f)", e.Pos.X, e.Pos.Y), 0)
	case EventHit:
		sl.Add(e.Tick, label, side, "combat", "hit",
			fmt.Sprintf("%s for %d", SoldierLabel(e.Side.Opponent(), e.TargetID), e.Damage), float64(e.Damage))
	case EventDied:
		sl.Add(e.Tick, label, side, "state", "died", "", 0)
	case EventRemoved:
		sl.Add(e.Tick, label, side, "state", "removed", "", 0)
	case EventTrenchReset:
		sl.Add(e.Tick, "--", side, "trench", "reset",
			fmt.Sprintf("#%d → %s", e.PathIndex, e.Action), float64(e.PathIndex))
	case EventTrenchToggled:
		sl.Add(e.Tick, "--", side, "trench", "toggled",
			fmt.Sprintf("#%d → %s", e.PathIndex, e.Action), float64(e.PathIndex))
	}
}

// SoldierLabel is the short log identifier of a soldier, e.g. "F3" or "E12".
func SoldierLabel(side Side, id int) string {
	if side == SideEnemy {
		return fmt.Sprintf("E%d", id)
	}
	return fmt.Sprintf("F%d", id)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterSoldier returns entries for a specific soldier label.
func (sl *SimLog) FilterSoldier(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Soldier == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the battle state.
func (sl *SimLog) Summary(snap Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d (%.1fs) ---\n", snap.Tick, snap.Elapsed)

	for _, side := range []Side{SideFriendly, SideEnemy} {
		counts := map[SoldierState]int{}
		for _, v := range snap.Soldiers[side] {
			counts[v.State]++
		}
		fmt.Fprintf(&sb, "%s: spawned=%d alive=%d casualties=%d holding=%d held=%.1fs  ",
			side, snap.Spawned[side], snap.Alive(side), snap.Casualties[side],
			snap.Holding[side], snap.HoldTime[side])
		for _, st := range []SoldierState{StateIdle, StateMarching, StateFiring, StateDying} {
			if n := counts[st]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d ", st, n)
			}
		}
		sb.WriteByte('\n')
	}

	for _, side := range []Side{SideFriendly, SideEnemy} {
		p := snap.Paths[side]
		var open []string
		for _, i := range p.Trenches() {
			open = append(open, fmt.Sprintf("#%d:%s", i, p.Points[i].Action))
		}
		if len(open) == 0 {
			fmt.Fprintf(&sb, "%s trenches: none\n", side)
			continue
		}
		fmt.Fprintf(&sb, "%s trenches: %s\n", side, strings.Join(open, " "))
	}
	fmt.Fprintf(&sb, "Bullets in flight: %d\n", len(snap.Bullets))
	return sb.String()
}

// CountRemoved returns how many of side's soldiers were removed.
func (sl *SimLog) CountRemoved(side Side) int {
	n := 0
	for _, e := range sl.entries {
		if e.Category == "state" && e.Key == "removed" && e.Side == side.String() {
			n++
		}
	}
	return n
}
