package game

import (
	"errors"
	"testing"
)

func TestBuildTerrain_SingleTrench(t *testing.T) {
	g := Grid{
		"     ",
		"##t##",
		"#####",
	}
	terrain, err := BuildTerrain(g, 32)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pts := terrain.Friendly.Points
	trenches := terrain.Friendly.Trenches()
	if len(trenches) != 1 {
		t.Fatalf("expected exactly one trench point, got %d in %+v", len(trenches), pts)
	}
	tr := pts[trenches[0]]
	if tr.Action != ActionHold {
		t.Fatalf("trench should start on hold, got %s", tr.Action)
	}
	if tr.Pos != (Vec2{80, 64}) {
		t.Fatalf("trench should sit half a tile right and one tile down, got %+v", tr.Pos)
	}
	for i, p := range pts {
		if p.Kind == PathGround && p.Action != ActionMarch {
			t.Fatalf("ground point %d should be march, got %s", i, p.Action)
		}
	}

	fo, ok := terrain.Friendly.ObjectivePoint()
	if !ok || fo.Pos != tr.Pos {
		t.Fatalf("friendly objective should be the trench, got %+v ok=%v", fo, ok)
	}
	eo, ok := terrain.Enemy.ObjectivePoint()
	if !ok || eo.Pos != tr.Pos {
		t.Fatalf("enemy objective should be the trench, got %+v ok=%v", eo, ok)
	}

	if pts[0].Pos != (Vec2{-32, 32}) {
		t.Fatalf("left extension point: got %+v", pts[0].Pos)
	}
	if last := pts[len(pts)-1].Pos; last != (Vec2{192, 32}) {
		t.Fatalf("right extension point: got %+v", last)
	}
	if len(pts) != 8 {
		t.Fatalf("expected 8 points (2 extensions, 5 columns, 1 trench), got %d", len(pts))
	}
}

func TestBuildTerrain_PathsAreIndependent(t *testing.T) {
	terrain, err := BuildTerrain(trenchMap, 32)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	idx := terrain.Friendly.Trenches()[0]
	terrain.Friendly.Points[idx].Action = ActionMarch
	if terrain.Enemy.Points[idx].Action != ActionHold {
		t.Fatal("toggling the friendly copy must not touch the enemy copy")
	}
	if terrain.Friendly.Objective == terrain.Enemy.Objective {
		t.Fatalf("two trenches: objectives should differ, both %d", terrain.Friendly.Objective)
	}
	if terrain.Friendly.Objective < terrain.Enemy.Objective {
		t.Fatal("friendly objective is the last trench, enemy objective the first")
	}
}

func TestBuildTerrain_RisingGroundSteps(t *testing.T) {
	g := Grid{
		"   ##",
		"  ###",
		"#####",
	}
	terrain, err := BuildTerrain(g, 10)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	pts := terrain.Friendly.Points
	for i := 1; i < len(pts); i++ {
		if pts[i].Pos.X < pts[i-1].Pos.X {
			t.Fatalf("x steps backwards at %d: %+v", i, pts)
		}
		if pts[i].Pos == pts[i-1].Pos {
			t.Fatalf("duplicate consecutive point at %d: %+v", i, pts[i].Pos)
		}
	}
	// Column 2 rises from row 2 to row 1: a vertex at the old height, then one
	// a tile across at the new height.
	want := []Vec2{{20, 20}, {30, 10}}
	found := 0
	for _, p := range pts {
		if found < len(want) && p.Pos == want[found] {
			found++
		}
	}
	if found != len(want) {
		t.Fatalf("expected step vertices %v in %+v", want, pts)
	}
}

func TestBuildTerrain_NoGround(t *testing.T) {
	g := Grid{
		"  ",
		"# ",
	}
	_, err := BuildTerrain(g, 32)
	if !errors.Is(err, ErrNoGround) {
		t.Fatalf("expected ErrNoGround, got %v", err)
	}
}

func TestBuildTerrain_Empty(t *testing.T) {
	_, err := BuildTerrain(Grid{}, 32)
	if !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestBuildTerrain_NoTrenchNoObjective(t *testing.T) {
	terrain, err := BuildTerrain(flatMap, 32)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := terrain.Friendly.ObjectivePoint(); ok {
		t.Fatal("flat map has no objective")
	}
	if terrain.Left() != -32 || terrain.Right() != 352 {
		t.Fatalf("path extent: got [%v, %v]", terrain.Left(), terrain.Right())
	}
}

func TestGrid_RaggedRowsReadAsAir(t *testing.T) {
	g := Grid{"#", "###"}
	w, h := g.Size()
	if w != 3 || h != 2 {
		t.Fatalf("size: got %dx%d", w, h)
	}
	if g.Cell(2, 0) != CellEmpty || g.Cell(5, 5) != CellEmpty {
		t.Fatal("cells past the grid should read as empty")
	}
}

func pathOf(pts ...Vec2) *Terrain {
	p := &Path{Objective: -1}
	for _, v := range pts {
		p.Points = append(p.Points, PathPoint{Kind: PathGround, Action: ActionMarch, Pos: v})
	}
	return &Terrain{Friendly: p, Enemy: p.clone(), TileSize: 32}
}

func TestTerrainValidate(t *testing.T) {
	built, err := BuildTerrain(trenchMap, 32)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := built.Validate(); err != nil {
		t.Fatalf("built terrain should validate: %v", err)
	}

	cases := []struct {
		name string
		t    *Terrain
		want error
	}{
		{"single point", pathOf(Vec2{0, 0}), ErrEmptyPath},
		{"steps backwards", pathOf(Vec2{0, 0}, Vec2{10, 0}, Vec2{5, 10}), ErrSelfIntersectingPath},
		{"doubles back on a cliff", pathOf(Vec2{0, 0}, Vec2{0, 20}, Vec2{0, 10}, Vec2{10, 10}), ErrSelfIntersectingPath},
	}
	for _, tc := range cases {
		if err := tc.t.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
