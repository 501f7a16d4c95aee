package featureflag

type Flag string

const (
	FlagCoincidentTolerance Flag = "COINCIDENT_TOLERANCE"
	FlagQuadContainment     Flag = "QUAD_CONTAINMENT"
)
