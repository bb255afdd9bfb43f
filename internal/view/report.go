package view

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Trenchline/internal/game"
)

// Report is the after-action text copied to the clipboard.
func Report(title string, snap game.Snapshot, log *game.SimLog) string {
	r := game.DetermineOutcome(snap)

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== After-action report: %s ===\n", title)
	fmt.Fprintf(&sb, "Outcome: %s (%s)\n", r.Outcome, r.Description)
	fmt.Fprintf(&sb, "Friendly: %d/%d standing, objective held %.1fs\n",
		r.FriendlySurvivors, r.FriendlyTotal, r.FriendlyHoldTime)
	fmt.Fprintf(&sb, "Enemy:    %d/%d standing, objective held %.1fs\n",
		r.EnemySurvivors, r.EnemyTotal, r.EnemyHoldTime)
	if log != nil {
		fmt.Fprintf(&sb, "Rounds fired: %d  hits: %d\n",
			log.CountCategory("combat", "fired"), log.CountCategory("combat", "hit"))
		sb.WriteString(log.Summary(snap))
	}
	return sb.String()
}
