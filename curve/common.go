package curve

import "errors"

const (
	// CyclesPerSecond converts second-based curve data to cycles on a 60 Hz system.
	CyclesPerSecond = 60

	// RatioAnomalyThreshold is the first-point current below which a breaker
	// curve is assumed to carry a wrong instrument ratio.
	RatioAnomalyThreshold = 100

	minPoints = 2
)

var (
	ErrInvalidCurve          = errors.New("invalid curve")
	ErrInterpolationDomain   = errors.New("interpolation domain error")
	ErrResolverMissing       = errors.New("resolver missing")
	ErrInvalidResolverAnswer = errors.New("invalid resolver answer")
)
