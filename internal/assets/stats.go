package assets

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Garsondee/Trenchline/internal/game"
)

// statFields names the numeric lines of a character .cfg file, in order.
var statFields = [...]string{
	"fire frame", "rpm", "round damage", "muzzle velocity",
	"spread", "march speed", "range", "health",
}

// ParseStats reads the eight ordered numeric lines of a character stats file.
// Blank lines and lines starting with '#' are skipped; a trailing '#' comment
// on a value line is ignored.
func ParseStats(r io.Reader) (*game.CharacterTemplate, error) {
	var vals [len(statFields)]float64
	n := 0
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if n == len(vals) {
			return nil, fmt.Errorf("line %d: unexpected value %q: %w", line, text, ErrBadStats)
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", line, statFields[n], ErrBadStats)
		}
		vals[n] = v
		n++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if n < len(vals) {
		return nil, fmt.Errorf("missing %s: %w", statFields[n], ErrBadStats)
	}

	c := &game.CharacterTemplate{
		FireFrame:      int(vals[0]),
		RPM:            vals[1],
		RoundDamage:    int(vals[2]),
		MuzzleVelocity: vals[3],
		Spread:         vals[4],
		MarchSpeed:     vals[5],
		Range:          vals[6],
		Health:         int(vals[7]),
	}
	switch {
	case c.RPM <= 0:
		return nil, fmt.Errorf("rpm %v must be positive: %w", c.RPM, ErrBadStats)
	case c.Health <= 0:
		return nil, fmt.Errorf("health %d must be positive: %w", c.Health, ErrBadStats)
	case c.FireFrame < 0 || c.Spread < 0 || c.Range < 0 || c.MarchSpeed < 0:
		return nil, fmt.Errorf("negative stat: %w", ErrBadStats)
	}
	return c, nil
}
