package game

import (
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// Map cell markers understood by the path builder.
const (
	CellEmpty  = ' '
	CellTrench = 't'
)

var (
	// ErrNoGround is returned when a map column has no solid cell.
	ErrNoGround = errors.New("map column has no ground")
	// ErrEmptyPath is returned when a path has too few points to walk.
	ErrEmptyPath = errors.New("path has no points")
	// ErrSelfIntersectingPath is returned when the built path folds back on itself.
	ErrSelfIntersectingPath = errors.New("path is not a simple left-to-right polyline")
)

// TerrainMap is the read-only character grid supplied by the asset repository.
type TerrainMap interface {
	Size() (width, height int)
	Cell(col, row int) byte
}

// PathKind tags a path vertex as plain ground or a trench.
type PathKind int

const (
	PathGround PathKind = iota
	PathTrench
)

func (k PathKind) String() string {
	if k == PathTrench {
		return "trench"
	}
	return "ground"
}

// PathAction gates movement past a vertex.
type PathAction int

const (
	ActionMarch PathAction = iota
	ActionHold
)

func (a PathAction) String() string {
	if a == ActionHold {
		return "hold"
	}
	return "march"
}

// PathPoint is one vertex of the battlefield silhouette.
type PathPoint struct {
	Kind   PathKind
	Action PathAction
	Pos    Vec2
}

// Path is one faction's copy of the silhouette. Objective is an index into
// Points, or -1 when the map has no trench.
type Path struct {
	Points    []PathPoint
	Objective int
}

// ObjectivePoint returns the objective vertex, if any.
func (p *Path) ObjectivePoint() (PathPoint, bool) {
	if p.Objective < 0 || p.Objective >= len(p.Points) {
		return PathPoint{}, false
	}
	return p.Points[p.Objective], true
}

// Trenches returns the indices of every trench vertex.
func (p *Path) Trenches() []int {
	var out []int
	for i, pt := range p.Points {
		if pt.Kind == PathTrench {
			out = append(out, i)
		}
	}
	return out
}

func (p *Path) clone() *Path {
	pts := make([]PathPoint, len(p.Points))
	copy(pts, p.Points)
	return &Path{Points: pts, Objective: p.Objective}
}

// Terrain holds both factions' paths. Friendly soldiers walk Friendly from
// index 0 upward; enemies walk Enemy from the last index downward.
type Terrain struct {
	Friendly *Path
	Enemy    *Path
	TileSize float64
	Cols     int
	Rows     int
}

// Left is the smallest x of the path extent.
func (t *Terrain) Left() float64 { return t.Friendly.Points[0].Pos.X }

// Right is the largest x of the path extent.
func (t *Terrain) Right() float64 {
	return t.Friendly.Points[len(t.Friendly.Points)-1].Pos.X
}

// WidthPx is the drawable map width in pixels.
func (t *Terrain) WidthPx() float64 { return float64(t.Cols) * t.TileSize }

// HeightPx is the drawable map height in pixels.
func (t *Terrain) HeightPx() float64 { return float64(t.Rows) * t.TileSize }

// BuildTerrain scans the grid column by column and emits the ground
// silhouette as a polyline. Rising ground produces a two-point step instead
// of a slope; trench columns add a HOLD vertex half a tile right and one tile
// down. One extension vertex is added beyond each edge.
func BuildTerrain(m TerrainMap, tileSize float64) (*Terrain, error) {
	cols, rows := m.Size()
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("build terrain: %w", ErrEmptyPath)
	}
	ts := tileSize

	pts := make([]PathPoint, 0, cols*2+2)
	push := func(pp PathPoint) {
		if n := len(pts); n > 0 && pts[n-1].Pos == pp.Pos {
			return
		}
		pts = append(pts, pp)
	}
	ground := func(x, y float64) PathPoint {
		return PathPoint{Kind: PathGround, Action: ActionMarch, Pos: Vec2{x, y}}
	}

	prev := 0
	for col := 0; col < cols; col++ {
		row := 0
		for row < rows && m.Cell(col, row) == CellEmpty {
			row++
		}
		if row == rows {
			return nil, fmt.Errorf("build terrain: column %d: %w", col, ErrNoGround)
		}

		x := ts * float64(col)
		y := ts * float64(row)
		var trench *PathPoint
		if m.Cell(col, row) == CellTrench {
			trench = &PathPoint{Kind: PathTrench, Action: ActionHold, Pos: Vec2{x + ts/2, y + ts}}
		}

		if row < prev {
			// Rising column: the trench vertex goes between the step points so
			// x stays non-decreasing.
			push(ground(x, y+ts))
			if trench != nil {
				push(*trench)
			}
			push(ground(x+ts, y))
		} else {
			push(ground(x, y))
			if trench != nil {
				push(*trench)
			}
		}
		prev = row
	}

	first := pts[0].Pos
	ext := make([]PathPoint, 0, len(pts)+2)
	ext = append(ext, ground(first.X-ts, first.Y))
	ext = append(ext, pts...)
	// A trailing trench vertex sits one tile low; extend from the surface instead.
	ext = append(ext, ground(float64(cols)*ts+ts, ts*float64(prev)))

	friendly := &Path{Points: ext, Objective: -1}
	enemy := friendly.clone()
	for i := len(friendly.Points) - 1; i >= 0; i-- {
		if friendly.Points[i].Kind == PathTrench {
			friendly.Objective = i
			break
		}
	}
	for i, pt := range enemy.Points {
		if pt.Kind == PathTrench {
			enemy.Objective = i
			break
		}
	}

	t := &Terrain{Friendly: friendly, Enemy: enemy, TileSize: ts, Cols: cols, Rows: rows}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the invariants the movement scan relies on: x never
// decreases along the path and the polyline does not cross itself.
func (t *Terrain) Validate() error {
	pts := t.Friendly.Points
	if len(pts) < 2 {
		return ErrEmptyPath
	}
	flat := make([]float64, 0, len(pts)*2)
	for i, p := range pts {
		if i > 0 && p.Pos.X < pts[i-1].Pos.X {
			return fmt.Errorf("vertex %d steps backwards: %w", i, ErrSelfIntersectingPath)
		}
		flat = append(flat, p.Pos.X, p.Pos.Y)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return fmt.Errorf("validate path: %w", err)
	}
	if !ls.IsSimple() {
		return ErrSelfIntersectingPath
	}
	return nil
}

// Grid is a row-major character map, one string per row. Rows shorter than
// the widest row read as empty air past their end.
type Grid []string

// Size returns the widest row length and the row count.
func (g Grid) Size() (int, int) {
	w := 0
	for _, r := range g {
		w = max(w, len(r))
	}
	return w, len(g)
}

// Cell returns the character at (col, row).
func (g Grid) Cell(col, row int) byte {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return CellEmpty
	}
	return g[row][col]
}
