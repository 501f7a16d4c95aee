package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointInTriangle(t *testing.T) {
	a := Point3{0, 0, 0}
	b := Point3{4, 0, 0}
	c := Point3{0, 4, 0}

	centroid := Point3{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3, (a.Z + b.Z + c.Z) / 3}
	require.True(t, PointInTriangle(a, b, c, centroid))

	require.True(t, PointInTriangle(a, b, c, Point3{2, 0, 0}), "edge midpoint is accepted")
	require.True(t, PointInTriangle(a, b, c, a), "vertex is accepted")
}

func TestPointInTriangleRejectsOutsidePoint(t *testing.T) {
	a := Point3{0, 0, 0}
	b := Point3{1, 0, 0}
	c := Point3{0, 1, 0}

	require.False(t, PointInTriangle(a, b, c, Point3{2, 2, 0}))
	require.False(t, PointInTriangle(a, b, c, Point3{-0.1, 0.5, 0}))
}

func TestPointInTriangleRejectsEverythingForDegenerateTriangle(t *testing.T) {
	a := Point3{0, 0, 0}
	b := Point3{1, 1, 1}
	c := Point3{2, 2, 2}

	require.False(t, PointInTriangle(a, b, c, Point3{1, 1, 1}))
}

func TestPointSideOnPlane(t *testing.T) {
	origin := Point3{0, 0, 0}
	up := Vector3{0, 0, 1}

	require.Equal(t, PointSideFront, PointSideOnPlane(Point3{0, 0, 5}, origin, up))
	require.Equal(t, PointSideBack, PointSideOnPlane(Point3{0, 0, -5}, origin, up))
	require.Equal(t, PointSideCoincident, PointSideOnPlane(Point3{3, 4, 0}, origin, up))
}

func TestPointSideOnPlaneIsExact(t *testing.T) {
	origin := Point3{0, 0, 0}
	up := Vector3{0, 0, 1}
	nearby := Point3{0, 0, 1e-6}

	require.Equal(t, PointSideFront, PointSideOnPlane(nearby, origin, up))
	require.Equal(t, PointSideCoincident, PointSideOnPlaneWithin(nearby, origin, up, 1e-5))
}

func TestIsPointOnSegment(t *testing.T) {
	segBegin := Point3{0, 0, 0}
	segEnd := Point3{10, 0, 0}

	require.True(t, IsPointOnSegment(Point3{5, 0, 0}, segBegin, segEnd))
	require.True(t, IsPointOnSegment(Point3{5, 0.000005, 0}, segBegin, segEnd))
	require.False(t, IsPointOnSegment(Point3{5, 0.001, 0}, segBegin, segEnd))
	require.False(t, IsPointOnSegment(Point3{11, 0, 0}, segBegin, segEnd))

	require.False(t, IsPointOnSegment(segBegin, segBegin, segEnd), "endpoints are excluded")
	require.False(t, IsPointOnSegment(segEnd, segBegin, segEnd), "endpoints are excluded")
}

func TestSignedAngle360(t *testing.T) {
	xAxis := Vector3{1, 0, 0}
	yAxis := Vector3{0, 1, 0}
	zAxis := Vector3{0, 0, 1}

	require.True(t, EqualWithEpsilon(SignedAngle360(xAxis, yAxis, zAxis), 90, 0.001))
	require.True(t, EqualWithEpsilon(SignedAngle360(xAxis, yAxis, Mul(zAxis, -1)), 270, 0.001))
	require.True(t, EqualWithEpsilon(SignedAngle360(xAxis, Mul(xAxis, -1), zAxis), 180, 0.001))
}

func TestSignedAngle360OfIdenticalVectorsIsZero(t *testing.T) {
	v := Normalized(Vector3{1, 1, 1})

	angle := SignedAngle360(v, v, Vector3{0, 0, 1})
	require.True(t, EqualWithEpsilon(angle, 0, 0.001))
	require.True(t, angle >= 0 && angle < 360)
}
