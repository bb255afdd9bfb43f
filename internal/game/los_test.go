package game

import "testing"

func TestOrientation(t *testing.T) {
	if o := Orientation(Vec2{0, 0}, Vec2{1, 1}, Vec2{2, 2}); o != 0 {
		t.Fatalf("collinear points: got %d, want 0", o)
	}
	// y grows downward: (0,0)->(1,0)->(1,1) turns clockwise on screen.
	a, b := Orientation(Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 1}), Orientation(Vec2{0, 0}, Vec2{1, 0}, Vec2{1, -1})
	if a == b || a == 0 || b == 0 {
		t.Fatalf("opposite turns should classify differently, got %d and %d", a, b)
	}
}

func TestSegmentsIntersect_Crossing(t *testing.T) {
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{10, 10}, Vec2{0, 10}, Vec2{10, 0}) {
		t.Fatal("diagonals of a square must intersect")
	}
}

func TestSegmentsIntersect_Disjoint(t *testing.T) {
	if SegmentsIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 5}, Vec2{10, 5}) {
		t.Fatal("parallel segments should not intersect")
	}
	if SegmentsIntersect(Vec2{0, 0}, Vec2{1, 1}, Vec2{5, 0}, Vec2{6, -3}) {
		t.Fatal("far-apart segments should not intersect")
	}
}

func TestSegmentsIntersect_CollinearOverlap(t *testing.T) {
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{5, 0}, Vec2{15, 0}) {
		t.Fatal("overlapping collinear segments should intersect")
	}
}

func TestSegmentsIntersect_CollinearGap(t *testing.T) {
	if SegmentsIntersect(Vec2{0, 0}, Vec2{4, 0}, Vec2{6, 0}, Vec2{10, 0}) {
		t.Fatal("collinear segments with a gap should not intersect")
	}
}

func TestSegmentsIntersect_TouchingEndpoint(t *testing.T) {
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{5, 5}, Vec2{5, 5}, Vec2{10, 0}) {
		t.Fatal("segments sharing an endpoint should intersect")
	}
}

func TestLOS_BlockedByHill(t *testing.T) {
	path := []PathPoint{
		{Pos: Vec2{0, 100}},
		{Pos: Vec2{50, 100}},
		{Pos: Vec2{60, 40}},
		{Pos: Vec2{70, 100}},
		{Pos: Vec2{120, 100}},
	}
	if HasLineOfSight(Vec2{10, 80}, Vec2{110, 80}, path) {
		t.Fatal("ray through the hill should be blocked")
	}
	if !HasLineOfSight(Vec2{10, 20}, Vec2{110, 20}, path) {
		t.Fatal("ray above the hill should be clear")
	}
}

func TestLOS_EmptyPath(t *testing.T) {
	if !HasLineOfSight(Vec2{0, 0}, Vec2{100, 100}, nil) {
		t.Fatal("no terrain means clear line of sight")
	}
}
