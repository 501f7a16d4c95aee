package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntersectSegmentPlane(t *testing.T) {
	origin := Point3{0, 0, 0}
	up := Vector3{0, 0, 1}

	t.Run("segment crossing the plane intersects", func(t *testing.T) {
		res := IntersectSegmentPlane(Point3{0, 0, -1}, Point3{0, 0, 1}, origin, up)
		require.Equal(t, SegmentPlaneIntersects, res.Kind)
		require.Equal(t, Point3{0, 0, 0}, res.Point)
	})

	t.Run("segment inside the plane lies in it", func(t *testing.T) {
		res := IntersectSegmentPlane(Point3{-1, 0, 0}, Point3{1, 0, 0}, origin, up)
		require.Equal(t, SegmentPlaneLiesIn, res.Kind)
	})

	t.Run("offset parallel segment is parallel", func(t *testing.T) {
		res := IntersectSegmentPlane(Point3{-1, 0, 1}, Point3{1, 0, 1}, origin, up)
		require.Equal(t, SegmentPlaneParallel, res.Kind)
	})

	t.Run("segment entirely on one side misses", func(t *testing.T) {
		res := IntersectSegmentPlane(Point3{0, 0, 1}, Point3{0, 0, 2}, origin, up)
		require.Equal(t, SegmentPlaneNoIntersection, res.Kind)
	})
}

func TestSegmentIntersectsQuad(t *testing.T) {
	quad := Quad{
		Point3{0, 0, 0},
		Point3{1, 0, 0},
		Point3{1, 1, 0},
		Point3{0, 1, 0},
	}

	require.True(t, SegmentIntersectsQuad(Point3{0.5, 0.5, -1}, Point3{0.5, 0.5, 1}, quad))
	require.False(t, SegmentIntersectsQuad(Point3{2, 2, -1}, Point3{2, 2, 1}, quad), "hit outside the quad bounds")
	require.False(t, SegmentIntersectsQuad(Point3{0.5, 0.5, 1}, Point3{1.5, 0.5, 1}, quad), "parallel segment")
	require.False(t, SegmentIntersectsQuad(Point3{0.5, 0.5, 1}, Point3{0.5, 0.5, 3}, quad), "plane hit beyond the segment")
}

func TestQuadsIntersect(t *testing.T) {
	horizontal := Quad{
		Point3{-1, -1, 0},
		Point3{1, -1, 0},
		Point3{1, 1, 0},
		Point3{-1, 1, 0},
	}
	vertical := Quad{
		Point3{-1, 0, -1},
		Point3{1, 0, -1},
		Point3{1, 0, 1},
		Point3{-1, 0, 1},
	}

	require.True(t, QuadsIntersect(horizontal, vertical))
	require.True(t, QuadsIntersect(vertical, horizontal))

	far := Quad{
		Point3{9, 0, -1},
		Point3{11, 0, -1},
		Point3{11, 0, 1},
		Point3{9, 0, 1},
	}
	require.False(t, QuadsIntersect(horizontal, far))
}

func TestQuadsIntersectSelfIsFalse(t *testing.T) {
	// Every edge is coplanar with the quad, so the parallel rejection in
	// SegmentIntersectsQuad kicks in.
	quad := Quad{
		Point3{-1, -1, 0},
		Point3{1, -1, 0},
		Point3{1, 1, 0},
		Point3{-1, 1, 0},
	}

	require.False(t, QuadsIntersect(quad, quad))
}

func TestQuadsIntersectInclusiveDetectsCoplanarContainment(t *testing.T) {
	outer := Quad{
		Point3{-2, -2, 0},
		Point3{2, -2, 0},
		Point3{2, 2, 0},
		Point3{-2, 2, 0},
	}
	inner := Quad{
		Point3{-1, -1, 0},
		Point3{1, -1, 0},
		Point3{1, 1, 0},
		Point3{-1, 1, 0},
	}

	require.False(t, QuadsIntersect(outer, inner))
	require.True(t, QuadsIntersectInclusive(outer, inner))
	require.True(t, QuadsIntersectInclusive(inner, outer))

	far := Quad{
		Point3{9, -1, 0},
		Point3{11, -1, 0},
		Point3{11, 1, 0},
		Point3{9, 1, 0},
	}
	require.False(t, QuadsIntersectInclusive(outer, far))
}
