package geom

import "math"

// SegmentPlaneIntersectionKind tags the outcome of a segment/plane test.
type SegmentPlaneIntersectionKind string

const (
	SegmentPlaneNoIntersection SegmentPlaneIntersectionKind = "NO_INTERSECTION"
	SegmentPlaneParallel       SegmentPlaneIntersectionKind = "PARALLEL"
	SegmentPlaneLiesIn         SegmentPlaneIntersectionKind = "LIES_IN_PLANE"
	SegmentPlaneIntersects     SegmentPlaneIntersectionKind = "INTERSECTION"
)

// SegmentPlaneIntersection is the outcome of IntersectSegmentPlane. Point
// is set only when Kind is SegmentPlaneIntersects.
type SegmentPlaneIntersection struct {
	Kind  SegmentPlaneIntersectionKind
	Point Point3
}

// IntersectSegmentPlane intersects the segment p0 p1 with the plane through
// ptOnPlane with the given normal. A segment within SMALL_NUM of parallel
// lies in the plane when p0 is on it exactly, and is parallel otherwise.
func IntersectSegmentPlane(p0 Point3, p1 Point3, ptOnPlane Point3, normal Vector3) SegmentPlaneIntersection {
	u := p1.Sub(p0)
	w := p0.Sub(ptOnPlane)

	d := normal.Dot(u)
	n := -normal.Dot(w)

	if math.Abs((float64)(d)) < (float64)(SMALL_NUM) {
		if n == 0 {
			return SegmentPlaneIntersection{Kind: SegmentPlaneLiesIn}
		}
		return SegmentPlaneIntersection{Kind: SegmentPlaneParallel}
	}

	s := n / d
	if s < 0 || s > 1 || math.IsNaN((float64)(s)) {
		return SegmentPlaneIntersection{Kind: SegmentPlaneNoIntersection}
	}

	return SegmentPlaneIntersection{
		Kind:  SegmentPlaneIntersects,
		Point: p0.Add(Mul(u, s)),
	}
}

// SegmentIntersectsQuad reports whether the segment p0 p1 crosses q. The
// plane comes from q's first three points and the in-bounds test projects
// the hit onto the two edge basis vectors out of q[0].
//
// NOTE(jhenriques): the bounds test assumes a parallelogram, which holds
// for quads built by MakeQuad but not for arbitrary quadrilaterals.
func SegmentIntersectsQuad(p0 Point3, p1 Point3, q Quad) bool {
	n := Cross(q[1].Sub(q[0]), q[2].Sub(q[0]))

	denominator := n.Dot(p0.Sub(p1))
	if math.Abs((float64)(denominator)) < (float64)(SMALL_NUM) {
		return false
	}

	t := n.Dot(p0.Sub(q[0])) / denominator
	if t < 0 || t > 1 {
		return false
	}

	hit := p0.Add(Mul(p1.Sub(p0), t))

	m := hit.Sub(q[0])
	e1 := q[1].Sub(q[0])
	e2 := q[3].Sub(q[0])

	me1 := m.Dot(e1)
	me2 := m.Dot(e2)
	return me1 >= 0 && me1 <= e1.Dot(e1) &&
		me2 >= 0 && me2 <= e2.Dot(e2)
}

// QuadsIntersect reports whether any edge of b crosses a or any edge of a
// crosses b. Edges are consecutive point pairs with wraparound.
//
// NOTE(jhenriques): this misses two cases. Coplanar edges are rejected as
// parallel, so a quad does not intersect itself. And full containment
// without an edge crossing is not detected. QuadsIntersectInclusive covers
// the containment case.
func QuadsIntersect(a Quad, b Quad) bool {
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		if SegmentIntersectsQuad(b[i], b[j], a) {
			return true
		}
		if SegmentIntersectsQuad(a[i], a[j], b) {
			return true
		}
	}
	return false
}

// QuadsIntersectInclusive extends QuadsIntersect with a coplanar
// containment test, so a quad fully enclosed by the other still counts.
func QuadsIntersectInclusive(a Quad, b Quad) bool {
	if QuadsIntersect(a, b) {
		return true
	}
	return quadContainsAnyVertex(a, b) || quadContainsAnyVertex(b, a)
}

func quadContainsAnyVertex(q Quad, other Quad) bool {
	n := Normal(q[0], q[1], q[2])
	if !n.IsValidNormal() {
		return false
	}

	for _, v := range other {
		if PointSideOnPlaneWithin(v, q[0], n, ON_SEGMENT_EPSILON) != PointSideCoincident {
			continue
		}
		if PointInTriangle(q[0], q[1], q[2], v) || PointInTriangle(q[0], q[2], q[3], v) {
			return true
		}
	}
	return false
}
