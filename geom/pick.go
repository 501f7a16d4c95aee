package geom

// PickLeastObviousVertex returns the index of an extremal vertex used to
// anchor a set of candidate points: the maximum X vertex when the first
// vertex sits at negative X, the minimum X vertex otherwise. Fewer than
// two vertices pick index 0.
func PickLeastObviousVertex(vertices []Point3) int {
	if len(vertices) < 2 {
		return 0
	}

	best := 0
	if vertices[0].X < 0 {
		for i, v := range vertices {
			if v.X > vertices[best].X {
				best = i
			}
		}
		return best
	}

	for i, v := range vertices {
		if v.X < vertices[best].X {
			best = i
		}
	}
	return best
}
