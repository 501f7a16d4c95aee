package messages

import (
	"github.com/aukilabs/uruz/geom"
)

// Point is the wire form of a kernel point.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func PointFromGeom(p geom.Point3) Point {
	return Point{
		X: p.X,
		Y: p.Y,
		Z: p.Z,
	}
}

func (p Point) ToGeom() geom.Point3 {
	return geom.Point3{
		X: p.X,
		Y: p.Y,
		Z: p.Z,
	}
}

func PointsFromGeom(points []geom.Point3) []Point {
	wPoints := make([]Point, len(points))
	for i, p := range points {
		wPoints[i] = PointFromGeom(p)
	}
	return wPoints
}

func PointsToGeom(points []Point) []geom.Point3 {
	gPoints := make([]geom.Point3, len(points))
	for i, p := range points {
		gPoints[i] = p.ToGeom()
	}
	return gPoints
}

// Vector is the wire form of a kernel vector.
type Vector struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func VectorFromGeom(v geom.Vector3) Vector {
	return Vector{
		X: v.X,
		Y: v.Y,
		Z: v.Z,
	}
}

func (v Vector) ToGeom() geom.Vector3 {
	return geom.Vector3{
		X: v.X,
		Y: v.Y,
		Z: v.Z,
	}
}

func VectorsToGeom(vectors []Vector) []geom.Vector3 {
	gVectors := make([]geom.Vector3, len(vectors))
	for i, v := range vectors {
		gVectors[i] = v.ToGeom()
	}
	return gVectors
}

// Quad is the wire form of a kernel quad, corners in winding order.
type Quad [4]Point

func QuadFromGeom(q geom.Quad) Quad {
	return Quad{
		PointFromGeom(q[0]),
		PointFromGeom(q[1]),
		PointFromGeom(q[2]),
		PointFromGeom(q[3]),
	}
}

func (q Quad) ToGeom() geom.Quad {
	return geom.Quad{
		q[0].ToGeom(),
		q[1].ToGeom(),
		q[2].ToGeom(),
		q[3].ToGeom(),
	}
}

// Sample is a weighted surface observation used to pick a brush base
// plane.
type Sample struct {
	Direction Vector  `json:"direction"`
	Position  Point   `json:"position"`
	Weight    float32 `json:"weight"`
}

func SamplesToGeom(samples []Sample) ([]geom.Vector3, []geom.Point3, []float32) {
	normals := make([]geom.Vector3, len(samples))
	positions := make([]geom.Point3, len(samples))
	weights := make([]float32, len(samples))

	for i, s := range samples {
		normals[i] = s.Direction.ToGeom()
		positions[i] = s.Position.ToGeom()
		weights[i] = s.Weight
	}
	return normals, positions, weights
}
