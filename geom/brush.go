package geom

import (
	"math"
	"sort"
)

var (
	worldXAxis = Vector3{1, 0, 0}
	worldYAxis = Vector3{0, 1, 0}
)

// PickBasePlaneNormal selects a representative plane normal from weighted
// direction/position samples, to orient a deformation brush consistently.
// The three slices are parallel and must have equal length. Directions are
// unit sample normals. The bool is false when no normal is determinable:
// fewer than two samples, near-parallel pairs, collinear positions.
func PickBasePlaneNormal(directions []Vector3, positions []Point3, weights []float32) (Vector3, bool) {
	switch len(directions) {
	case 0, 1:
		return Vector3{}, false
	case 2:
		return crossOfSeparated(directions[0], directions[1])
	case 3:
		return normalOfThree(directions, positions)
	}

	order := make([]int, len(directions))
	for i := range order {
		order[i] = i
	}

	// Weights are compared as truncated integer percents so float noise
	// does not reorder ties.
	sort.SliceStable(order, func(i, j int) bool {
		return (int)(weights[order[i]]*100) > (int)(weights[order[j]]*100)
	})

	topDirections := []Vector3{directions[order[0]], directions[order[1]], directions[order[2]]}
	topPositions := []Point3{positions[order[0]], positions[order[1]], positions[order[2]]}
	return normalOfThree(topDirections, topPositions)
}

// crossOfSeparated crosses two unit directions when their angular
// separation is at least 15 degrees, within [15,165].
func crossOfSeparated(a Vector3, b Vector3) (Vector3, bool) {
	if math.Abs((float64)(a.Dot(b))) >= (float64)(NEAR_PARALLEL_COS) {
		return Vector3{}, false
	}
	return Normalized(Cross(a, b)), true
}

func normalOfThree(directions []Vector3, positions []Point3) (Vector3, bool) {
	if n := Normal(positions[0], positions[1], positions[2]); n.IsValidNormal() {
		return n, true
	}

	// Collinear positions. Fall back to the direction pairs.
	for _, pair := range [3][2]int{{0, 1}, {1, 2}, {2, 0}} {
		if n, ok := crossOfSeparated(directions[pair[0]], directions[pair[1]]); ok {
			return n, true
		}
	}
	return Vector3{}, false
}

// WorldPerpendicular returns a well-conditioned perpendicular to direction
// built from a world axis: direction x worldY, or direction x worldX when
// direction is within 45 degrees of the world Y axis.
func WorldPerpendicular(direction Vector3) Vector3 {
	if math.Abs((float64)(direction.Dot(worldYAxis))) > (float64)(AXIS_ALIGNED_COS) {
		return Cross(direction, worldXAxis)
	}
	return Cross(direction, worldYAxis)
}

// MakeQuad builds a planar quad of half-extent radius centered at
// position + direction*radius, its plane perpendicular to direction.
// baseNormal steers the in-plane orientation and is flipped first when it
// opposes direction.
//
// NOTE(jhenriques): the winding is fixed. Walking the corners in order
// gives a face normal of -direction, not direction.
func MakeQuad(position Point3, direction Vector3, radius float32, baseNormal Vector3) Quad {
	direction = Normalized(direction)
	baseNormal = Normalized(baseNormal)

	if direction.Dot(baseNormal) <= 0 {
		baseNormal = Mul(baseNormal, -1)
	}

	var u Vector3
	if direction.Dot(baseNormal) > AXIS_ALIGNED_COS {
		// Near-parallel cross would be near zero, go through a world
		// axis perpendicular instead.
		u = Cross(direction, WorldPerpendicular(baseNormal))
	} else {
		u = Cross(direction, baseNormal)
	}
	v := Cross(u, direction)

	u = Mul(Normalized(u), radius)
	v = Mul(Normalized(v), radius)

	origin := position.Add(Mul(direction, radius))
	return Quad{
		origin.Add(Mul(Add(u, v), -1)),
		origin.Add(Sub(u, v)),
		origin.Add(Add(u, v)),
		origin.Add(Sub(v, u)),
	}
}

// DeformedPosition moves a vertex along deformNormal by scaling only the
// component of vertexRay that lies on the normal, by deformFactor. The
// orthogonal component passes through unchanged. The normal is flipped
// first when it opposes vertexRay.
func DeformedPosition(vertexPosition Point3, vertexRay Vector3, deformNormal Vector3, deformFactor float32) Point3 {
	n := Normalized(deformNormal)
	if n.Dot(vertexRay) <= 0 {
		n = Mul(n, -1)
	}

	projected := Mul(n, n.Dot(vertexRay))
	rest := Sub(vertexRay, projected)
	return vertexPosition.Add(Add(rest, Mul(projected, deformFactor)))
}
