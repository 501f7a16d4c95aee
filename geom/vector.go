package geom

import "math"

const (
	// Absolute per-axis tolerance for approximate vector equality. Not
	// relative, so unsuitable for very large or very small magnitudes.
	EQUALITY_EPSILON = (float32)(0.01)

	// Max perpendicular distance for a point to count as on a segment.
	ON_SEGMENT_EPSILON = (float32)(1e-5)

	// Near-zero guard for parametric denominators.
	SMALL_NUM = (float32)(1e-8)

	// cos(15deg). Two directions with |dot| at or above this are too
	// close to parallel for a usable cross product.
	NEAR_PARALLEL_COS = (float32)(0.966)

	// cos(45deg). Alignment cutoff against a world axis.
	AXIS_ALIGNED_COS = (float32)(0.707)
)

func EqualWithEpsilon(a float32, b float32, epsilon float64) bool {
	return math.Abs((float64)(a-b)) <= epsilon
}

// Point3 is a position in space. Positions and free vectors are kept as
// distinct types so displacements do not silently become coordinates.
type Point3 struct {
	X float32
	Y float32
	Z float32
}

func (p Point3) Add(v Vector3) Point3 {
	return Point3{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

func (p Point3) Sub(q Point3) Vector3 {
	return Vector3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

func (p Point3) EqualWithEpsilon(q Point3, epsilon float64) bool {
	return math.Abs((float64)(p.X-q.X)) <= epsilon &&
		math.Abs((float64)(p.Y-q.Y)) <= epsilon &&
		math.Abs((float64)(p.Z-q.Z)) <= epsilon
}

// Vector3 is a free direction or displacement.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

func Add(a Vector3, b Vector3) Vector3 {
	return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func Sub(a Vector3, b Vector3) Vector3 {
	return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func Mul(a Vector3, s float32) Vector3 {
	return Vector3{a.X * s, a.Y * s, a.Z * s}
}

func Cross(a Vector3, b Vector3) Vector3 {
	return Vector3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

func (a Vector3) Dot(b Vector3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vector3) Length() float64 {
	return math.Sqrt((float64)(a.X*a.X + a.Y*a.Y + a.Z*a.Z))
}

// Normalized divides by the length without guarding against zero. A
// degenerate input turns into NaN components on purpose, so the result
// fails IsValidNormal instead of masquerading as a usable direction.
func Normalized(a Vector3) Vector3 {
	lenght := (float32)(a.Length())
	return Vector3{a.X / lenght, a.Y / lenght, a.Z / lenght}
}

func (v1 Vector3) Equal(v2 Vector3) bool {
	return v1.X == v2.X && v1.Y == v2.Y && v1.Z == v2.Z
}

func (v1 Vector3) EqualWithEpsilon(v2 Vector3, epsilon float64) bool {
	return math.Abs((float64)(v1.X-v2.X)) <= epsilon &&
		math.Abs((float64)(v1.Y-v2.Y)) <= epsilon &&
		math.Abs((float64)(v1.Z-v2.Z)) <= epsilon
}

// ApproxEqual reports per-axis equality within EQUALITY_EPSILON.
func (v1 Vector3) ApproxEqual(v2 Vector3) bool {
	return v1.EqualWithEpsilon(v2, (float64)(EQUALITY_EPSILON))
}

// IsValidNormal reports whether no component is NaN. It does NOT reject
// zero-length vectors; a zero normal passes.
func (v Vector3) IsValidNormal() bool {
	return !math.IsNaN((float64)(v.X)) &&
		!math.IsNaN((float64)(v.Y)) &&
		!math.IsNaN((float64)(v.Z))
}

// Normal returns the unit normal of the triangle p1 p2 p3, the normalized
// cross product of its edge vectors (p2-p1)x(p3-p1).
//
// NOTE(jhenriques): collinear or coincident inputs produce NaN components,
// check IsValidNormal before using the result.
func Normal(p1 Point3, p2 Point3, p3 Point3) Vector3 {
	return Normalized(Cross(p2.Sub(p1), p3.Sub(p1)))
}

// Quad is an ordered, planar, convex polygon of exactly four points.
// Winding order is caller-visible and preserved by every operation.
type Quad [4]Point3

func (q Quad) Center() Point3 {
	return Point3{
		(q[0].X + q[1].X + q[2].X + q[3].X) / 4,
		(q[0].Y + q[1].Y + q[2].Y + q[3].Y) / 4,
		(q[0].Z + q[1].Z + q[2].Z + q[3].Z) / 4,
	}
}
