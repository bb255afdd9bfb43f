// Package assets loads campaigns, maps and faction rosters from a directory
// tree. The simulation core only ever reads what this package produces.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	stock "github.com/Garsondee/Trenchline/assets"
	"github.com/Garsondee/Trenchline/internal/game"
)

var (
	// ErrMalformedMap is returned for ragged grids and columns without ground.
	ErrMalformedMap = errors.New("malformed map")
	// ErrBadStats is returned for a character stats file that cannot be parsed.
	ErrBadStats = errors.New("bad character stats")
	// ErrNotFound is returned when a named campaign, map or faction is absent.
	ErrNotFound = errors.New("asset not found")
)

const (
	campaignsDir = "campaigns"
	factionsDir  = "factions"
	campaignFile = "campaign.yaml"
	factionFile  = "faction.yaml"
)

// Repository is the loaded asset inventory. It is immutable after Load.
type Repository struct {
	Campaigns []*Campaign
	Factions  []*Faction
}

// Campaign groups a set of maps.
type Campaign struct {
	Name        string `yaml:"-"`
	DisplayName string `yaml:"name"`
	Maps        []*Map `yaml:"maps"`
}

// Map is one battlefield: a character grid where ' ' is air, 't' is a trench
// surface and anything else is ground.
type Map struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Terrain    string   `yaml:"terrain"`
	Background string   `yaml:"background"`
	Rows       []string `yaml:"grid"`
}

// Size implements game.TerrainMap.
func (m *Map) Size() (int, int) {
	if len(m.Rows) == 0 {
		return 0, 0
	}
	return len(m.Rows[0]), len(m.Rows)
}

// Cell implements game.TerrainMap.
func (m *Map) Cell(col, row int) byte {
	if row < 0 || row >= len(m.Rows) || col < 0 || col >= len(m.Rows[row]) {
		return game.CellEmpty
	}
	return m.Rows[row][col]
}

// Faction is a roster of character templates plus its music playlist.
type Faction struct {
	Name        string                    `yaml:"-"`
	DisplayName string                    `yaml:"name"`
	Music       []string                  `yaml:"music"`
	Characters  []*game.CharacterTemplate `yaml:"-"`
}

type factionFileDoc struct {
	Name       string         `yaml:"name"`
	Music      []string       `yaml:"music"`
	Characters []characterDoc `yaml:"characters"`
}

type characterDoc struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	March       int    `yaml:"march"`
	Fire        int    `yaml:"fire"`
	Death       int    `yaml:"death"`
}

// LoadDir loads the tree rooted at dir, or the built-in assets when dir is
// empty.
func LoadDir(dir string) (*Repository, error) {
	if dir == "" {
		return Load(stock.FS)
	}
	return Load(os.DirFS(dir))
}

// Load reads every campaign and faction under fsys. Directories are visited
// in lexical order so listings are stable.
func Load(fsys fs.FS) (*Repository, error) {
	repo := &Repository{}

	camps, err := subdirs(fsys, campaignsDir)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	for _, name := range camps {
		c, err := loadCampaign(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("campaign %s: %w", name, err)
		}
		repo.Campaigns = append(repo.Campaigns, c)
	}

	facs, err := subdirs(fsys, factionsDir)
	if err != nil {
		return nil, fmt.Errorf("load factions: %w", err)
	}
	for _, name := range facs {
		f, err := loadFaction(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("faction %s: %w", name, err)
		}
		repo.Factions = append(repo.Factions, f)
	}
	return repo, nil
}

func subdirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func loadCampaign(fsys fs.FS, name string) (*Campaign, error) {
	data, err := fs.ReadFile(fsys, path.Join(campaignsDir, name, campaignFile))
	if err != nil {
		return nil, err
	}
	c := &Campaign{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.Name = name
	if c.DisplayName == "" {
		c.DisplayName = name
	}
	for i, m := range c.Maps {
		if m.ID == "" {
			m.ID = fmt.Sprintf("%s-%d", name, i+1)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("map %s: %w", m.ID, err)
		}
	}
	return c, nil
}

// Validate checks the grid is rectangular and every column has ground.
func (m *Map) Validate() error {
	if len(m.Rows) == 0 || len(m.Rows[0]) == 0 {
		return fmt.Errorf("empty grid: %w", ErrMalformedMap)
	}
	w := len(m.Rows[0])
	for i, r := range m.Rows {
		if len(r) != w {
			return fmt.Errorf("row %d has width %d, want %d: %w", i, len(r), w, ErrMalformedMap)
		}
	}
	for col := 0; col < w; col++ {
		solid := false
		for _, r := range m.Rows {
			if r[col] != game.CellEmpty {
				solid = true
				break
			}
		}
		if !solid {
			return fmt.Errorf("column %d has no ground: %w", col, ErrMalformedMap)
		}
	}
	return nil
}

func loadFaction(fsys fs.FS, name string) (*Faction, error) {
	dir := path.Join(factionsDir, name)
	data, err := fs.ReadFile(fsys, path.Join(dir, factionFile))
	if err != nil {
		return nil, err
	}
	var doc factionFileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	f := &Faction{Name: name, DisplayName: doc.Name, Music: doc.Music}
	if f.DisplayName == "" {
		f.DisplayName = name
	}
	for _, cd := range doc.Characters {
		raw, err := fs.ReadFile(fsys, path.Join(dir, cd.Name+".cfg"))
		if err != nil {
			return nil, fmt.Errorf("character %s: %w", cd.Name, err)
		}
		c, err := ParseStats(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("character %s: %w", cd.Name, err)
		}
		c.Name = cd.Name
		c.DisplayName = cd.DisplayName
		if c.DisplayName == "" {
			c.DisplayName = cd.Name
		}
		c.Size = game.Vec2{X: float64(cd.Width), Y: float64(cd.Height)}
		c.MarchFrames, c.FireFrames, c.DeathFrames = cd.March, cd.Fire, cd.Death
		if c.Size.X <= 0 || c.Size.Y <= 0 {
			return nil, fmt.Errorf("character %s: sprite size %vx%v: %w", cd.Name, c.Size.X, c.Size.Y, ErrBadStats)
		}
		f.Characters = append(f.Characters, c)
	}
	return f, nil
}

// Campaign returns the named campaign.
func (r *Repository) Campaign(name string) (*Campaign, error) {
	for _, c := range r.Campaigns {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("campaign %q: %w", name, ErrNotFound)
}

// Faction returns the named faction.
func (r *Repository) Faction(name string) (*Faction, error) {
	for _, f := range r.Factions {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("faction %q: %w", name, ErrNotFound)
}

// FindMap looks a map up by ID across every campaign. "campaign/id" is also
// accepted.
func (r *Repository) FindMap(id string) (*Map, error) {
	camp, mid, scoped := strings.Cut(id, "/")
	for _, c := range r.Campaigns {
		if scoped && c.Name != camp {
			continue
		}
		want := id
		if scoped {
			want = mid
		}
		for _, m := range c.Maps {
			if m.ID == want {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("map %q: %w", id, ErrNotFound)
}

// Maps lists every map in campaign order.
func (r *Repository) Maps() []*Map {
	var out []*Map
	for _, c := range r.Campaigns {
		out = append(out, c.Maps...)
	}
	return out
}

// Character returns the named template from the faction.
func (f *Faction) Character(name string) (*game.CharacterTemplate, error) {
	for _, c := range f.Characters {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("character %q in %s: %w", name, f.Name, ErrNotFound)
}

var _ game.TerrainMap = (*Map)(nil)
