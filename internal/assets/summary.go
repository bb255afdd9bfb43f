package assets

import (
	"fmt"
	"strings"
)

// Summary lists the inventory in a human-readable tree.
func (r *Repository) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Campaigns [%d]:\n", len(r.Campaigns))
	for _, c := range r.Campaigns {
		fmt.Fprintf(&sb, "\t%s (%s)\n", c.DisplayName, c.Name)
		for _, m := range c.Maps {
			w, h := m.Size()
			fmt.Fprintf(&sb, "\t\t%s %q %dx%d terrain=%s\n", m.ID, m.Name, w, h, m.Terrain)
		}
	}
	fmt.Fprintf(&sb, "Factions [%d]:\n", len(r.Factions))
	for _, f := range r.Factions {
		fmt.Fprintf(&sb, "\t%s (%s)\n", f.DisplayName, f.Name)
		for _, c := range f.Characters {
			fmt.Fprintf(&sb, "\t\t%s: %.0frpm dmg=%d hp=%d range=%.0f\n",
				c.DisplayName, c.RPM, c.RoundDamage, c.Health, c.Range)
		}
		if len(f.Music) > 0 {
			fmt.Fprintf(&sb, "\t\tmusic: %s\n", strings.Join(f.Music, ", "))
		}
	}
	return sb.String()
}
