package geom

import "math"

// PointSide classifies a point against an oriented plane.
type PointSide string

const (
	PointSideFront      PointSide = "FRONT"
	PointSideBack       PointSide = "BACK"
	PointSideCoincident PointSide = "COINCIDENT"
)

// PointInTriangle reports whether p lies inside or on the boundary of the
// triangle a b c, via barycentric ratios from double cross products. The
// point is assumed to lie in the triangle's plane, there is no coplanarity
// check. Degenerate triangles reject every point.
func PointInTriangle(a Point3, b Point3, c Point3, p Point3) bool {
	n := Cross(b.Sub(a), c.Sub(a))
	c1 := Cross(p.Sub(a), c.Sub(a))
	c2 := Cross(b.Sub(a), p.Sub(a))

	if c1.Dot(n) < 0 || c2.Dot(n) < 0 {
		return false
	}

	nn := n.Dot(n)
	r := c1.Dot(n) / nn
	t := c2.Dot(n) / nn
	return r+t <= 1
}

// PointSideOnPlane classifies pt against the plane through ptOnPlane with
// the given normal. The coincident case is bit-exact zero, see
// PointSideOnPlaneWithin for a tolerant variant.
func PointSideOnPlane(pt Point3, ptOnPlane Point3, normal Vector3) PointSide {
	d := pt.Sub(ptOnPlane).Dot(normal)
	if d > 0 {
		return PointSideFront
	}
	if d < 0 {
		return PointSideBack
	}
	return PointSideCoincident
}

// PointSideOnPlaneWithin is PointSideOnPlane with a signed-distance
// tolerance for the coincident band.
func PointSideOnPlaneWithin(pt Point3, ptOnPlane Point3, normal Vector3, epsilon float32) PointSide {
	d := pt.Sub(ptOnPlane).Dot(normal)
	if EqualWithEpsilon(d, 0, (float64)(epsilon)) {
		return PointSideCoincident
	}
	if d > 0 {
		return PointSideFront
	}
	return PointSideBack
}

// IsPointOnSegment reports whether point lies on the segment's line within
// ON_SEGMENT_EPSILON, strictly between the endpoints. The endpoints
// themselves are excluded.
func IsPointOnSegment(point Point3, segBegin Point3, segEnd Point3) bool {
	u := segEnd.Sub(segBegin)
	w := point.Sub(segBegin)

	t := w.Dot(u) / u.Dot(u)
	if t <= 0 || t >= 1 {
		return false
	}

	closest := segBegin.Add(Mul(u, t))
	return (float32)(point.Sub(closest).Length()) <= ON_SEGMENT_EPSILON
}

// SignedAngle360 returns the angle in degrees in [0,360) between the unit
// vectors a and b, using reference to disambiguate the rotation side.
//
// NOTE(jhenriques): for near-parallel or antiparallel a,b the cross product
// is ill-conditioned and the side test can flip either way.
func SignedAngle360(a Vector3, b Vector3, reference Vector3) float32 {
	cos := (float64)(a.Dot(b))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	angle := (float32)(math.Acos(cos) * 180 / math.Pi)
	if Cross(a, b).Dot(reference) < 0 {
		return 180 + angle
	}
	return angle
}
