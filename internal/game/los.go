package game

// Orientation classifies the ordered triple (p, q, r) from the sign of the
// cross product (q-p)×(r-q): 0 collinear, 1 clockwise, 2 counter-clockwise.
// Comparisons are exact; no epsilon is applied.
func Orientation(p, q, r Vec2) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case val == 0:
		return 0
	case val > 0:
		return 1
	default:
		return 2
	}
}

// onSegment reports whether q lies inside the bounding box of p and r.
// Only meaningful when p, q, r are collinear.
func onSegment(p, q, r Vec2) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}

// SegmentsIntersect reports whether segment p1→q1 touches segment p2→q2.
// Collinear overlaps count as intersections. Collinear segments that only
// share a supporting line may still misclassify because comparisons are exact.
func SegmentsIntersect(p1, q1, p2, q2 Vec2) bool {
	o1 := Orientation(p1, q1, p2)
	o2 := Orientation(p1, q1, q2)
	o3 := Orientation(p2, q2, p1)
	o4 := Orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, q1) {
		return true
	}
	if o3 == 0 && onSegment(p2, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(p2, q1, q2) {
		return true
	}
	return false
}

// IntersectsPath reports whether segment a→b crosses any segment between
// consecutive points of the polyline.
func IntersectsPath(a, b Vec2, path []PathPoint) bool {
	for i := 0; i+1 < len(path); i++ {
		if SegmentsIntersect(a, b, path[i].Pos, path[i+1].Pos) {
			return true
		}
	}
	return false
}

// HasLineOfSight returns true if the straight line from a to b does not
// cross the terrain silhouette.
func HasLineOfSight(a, b Vec2, path []PathPoint) bool {
	return !IntersectsPath(a, b, path)
}
