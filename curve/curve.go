package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Curve is an immutable time-current characteristic. The zero value is not usable;
// build curves with NewCurve.
type Curve struct {
	name     string
	position Position
	role     Role
	points   []Point
}

func NewCurve(name string, role Role, position Position, points []Point) (Curve, error) {
	if role == nil {
		return Curve{}, fmt.Errorf("%w: %s: no role", ErrInvalidCurve, name)
	}

	if err := validatePoints(points); err != nil {
		return Curve{}, fmt.Errorf("%w: %s: %s", ErrInvalidCurve, name, err.Error())
	}

	ps := make([]Point, len(points))
	copy(ps, points)

	return Curve{
		name:     name,
		position: position,
		role:     role,
		points:   ps,
	}, nil
}

func validatePoints(points []Point) error {
	if len(points) < minPoints {
		return fmt.Errorf("%d points, need at least %d", len(points), minPoints)
	}

	currents := make([]float64, len(points))
	times := make([]float64, len(points))

	for idx, p := range points {
		currents[idx] = p.Current
		times[idx] = p.Time
	}

	if floats.HasNaN(currents) || floats.HasNaN(times) {
		return fmt.Errorf("NaN in point data")
	}

	for idx, p := range points {
		if p.Current <= 0 || math.IsInf(p.Current, 0) {
			return fmt.Errorf("point %d: non-positive current %v", idx, p.Current)
		}

		if p.Time <= 0 || math.IsInf(p.Time, 0) {
			return fmt.Errorf("point %d: non-positive time %v", idx, p.Time)
		}

		if idx > 0 && p.Current <= points[idx-1].Current {
			return fmt.Errorf("point %d: current %v not above %v", idx, p.Current, points[idx-1].Current)
		}
	}

	return nil
}

func (c Curve) Name() string { return c.name }
func (c Curve) Position() Position { return c.position }
func (c Curve) Role() Role { return c.role }
func (c Curve) Kind() DeviceKind { return c.role.Kind() }
func (c Curve) Len() int { return len(c.points) }
func (c Curve) First() Point { return c.points[0] }
func (c Curve) Last() Point { return c.points[len(c.points)-1] }
func (c Curve) Point(idx int) Point { return c.points[idx] }
func (c Curve) IsZero() bool { return len(c.points) == 0 }

func (c Curve) Points() []Point {
	ps := make([]Point, len(c.points))
	copy(ps, c.points)

	return ps
}

// Covers reports whether current lies inside [First().Current, Last().Current].
func (c Curve) Covers(current float64) bool {
	if len(c.points) == 0 {
		return false
	}

	return current >= c.points[0].Current && current <= c.points[len(c.points)-1].Current
}

// Scale returns a new curve whose currents are multiplied by pickup. The receiver
// is left untouched, so a candidate shape can be instantiated once per pickup.
func (c Curve) Scale(pickup float64) (Curve, error) {
	if pickup <= 0 || math.IsNaN(pickup) {
		return Curve{}, fmt.Errorf("%w: %s: pickup %v", ErrInvalidCurve, c.name, pickup)
	}

	ps := make([]Point, len(c.points))

	for idx, p := range c.points {
		ps[idx] = Point{Current: p.Current * pickup, Time: p.Time}
	}

	return Curve{
		name:     c.name,
		position: c.position,
		role:     c.role,
		points:   ps,
	}, nil
}

// TimeAt is the method form of Interpolate.
func (c Curve) TimeAt(current float64) (float64, error) {
	return Interpolate(c, current)
}

type Extents struct {
	MinCurrent float64
	MaxCurrent float64
	MinTime    float64
	MaxTime    float64
}

func (c Curve) Extents() Extents {
	if len(c.points) == 0 {
		return Extents{}
	}

	currents := make([]float64, len(c.points))
	times := make([]float64, len(c.points))

	for idx, p := range c.points {
		currents[idx] = p.Current
		times[idx] = p.Time
	}

	return Extents{
		MinCurrent: floats.Min(currents),
		MaxCurrent: floats.Max(currents),
		MinTime:    floats.Min(times),
		MaxTime:    floats.Max(times),
	}
}
