package curve

import (
	"fmt"
	"math"
	"sort"
)

// Interpolate returns the trip time c produces at current. Between published points
// the curve is treated as a local power law (straight line on log-log axes).
// Callers must keep current inside the curve's covered range; nothing is extrapolated.
func Interpolate(c Curve, current float64) (float64, error) {
	if !c.Covers(current) {
		return 0, fmt.Errorf("%w: %s: current %v outside [%v, %v]", ErrInterpolationDomain,
			c.name, current, c.rangeLow(), c.rangeHigh())
	}

	// index of the first point with Current >= current
	idx := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].Current >= current
	})

	if c.points[idx].Current == current {
		return c.points[idx].Time, nil
	}

	p0, p1 := c.points[idx-1], c.points[idx]

	return logLogBetween(p0, p1, current)
}

func logLogBetween(p0, p1 Point, current float64) (float64, error) {
	if p0.Time <= 0 || p1.Time <= 0 {
		return 0, fmt.Errorf("%w: non-positive bracket time (%v, %v)", ErrInterpolationDomain, p0.Time, p1.Time)
	}

	if p0.Current == p1.Current {
		return 0, fmt.Errorf("%w: degenerate bracket at %v", ErrInterpolationDomain, p0.Current)
	}

	slope := math.Log10(p1.Time/p0.Time) / math.Log10(p1.Current/p0.Current)
	intercept := p0.Time / math.Pow(p0.Current, slope)

	return intercept * math.Pow(current, slope), nil
}

func (c Curve) rangeLow() float64 {
	if len(c.points) == 0 {
		return math.NaN()
	}

	return c.points[0].Current
}

func (c Curve) rangeHigh() float64 {
	if len(c.points) == 0 {
		return math.NaN()
	}

	return c.points[len(c.points)-1].Current
}
