package coord

import (
	"errors"
	"testing"

	"github.com/sgostarter/librecloser/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utCurve(t *testing.T, name string, points ...curve.Point) curve.Curve {
	c, err := curve.NewCurve(name, curve.FuseRole{}, curve.PositionDownstream, points)
	require.Nil(t, err)

	return c
}

func utPair(t *testing.T) (downstream, trial curve.Curve) {
	downstream = utCurve(t, "downstream", curve.Point{Current: 100, Time: 20}, curve.Point{Current: 1000, Time: 2})
	trial = utCurve(t, "trial", curve.Point{Current: 100, Time: 40}, curve.Point{Current: 1000, Time: 4})

	return
}

func TestMarginDirection(t *testing.T) {
	downstream, trial := utPair(t)
	c := NewChecker(nil)

	ms, err := c.Margins(downstream, trial, AsUpstream, 1000)
	assert.Nil(t, err)
	assert.EqualValues(t, []Margin{{100, -20}, {1000, -2}}, ms)

	ms, err = c.Margins(downstream, trial, AsDownstream, 1000)
	assert.Nil(t, err)
	assert.EqualValues(t, []Margin{{100, 20}, {1000, 2}}, ms)
}

func TestCoordinatesBoundary(t *testing.T) {
	downstream, trial := utPair(t)
	c := NewChecker(nil)

	ok, err := c.Coordinates(downstream, trial, 15, AsDownstream, 1000)
	assert.Nil(t, err)
	assert.False(t, ok)

	ok, err = c.Coordinates(downstream, trial, 2, AsDownstream, 1000)
	assert.Nil(t, err)
	assert.True(t, ok)

	// the 1000 A point is above the ceiling, only the 100 A point is sampled
	ok, err = c.Coordinates(downstream, trial, 15, AsDownstream, 999)
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = c.Coordinates(trial, downstream, 2, AsUpstream, 1000)
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = c.Coordinates(trial, downstream, 2, AsDownstream, 1000)
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestCoordinatesNoOverlap(t *testing.T) {
	a := utCurve(t, "a", curve.Point{Current: 10, Time: 20}, curve.Point{Current: 50, Time: 2})
	b := utCurve(t, "b", curve.Point{Current: 100, Time: 1}, curve.Point{Current: 1000, Time: 0.5})

	ok, err := NewChecker(nil).Coordinates(a, b, 1000, AsUpstream, 10000)
	assert.Nil(t, err)
	assert.True(t, ok)
}

func TestCoordinatesInterpolatedPoints(t *testing.T) {
	// b is t = 2000 / I; a samples in between b's points
	a := utCurve(t, "a", curve.Point{Current: 200, Time: 30}, curve.Point{Current: 500, Time: 10})
	b := utCurve(t, "b", curve.Point{Current: 100, Time: 20}, curve.Point{Current: 1000, Time: 2})

	ms, err := NewChecker(nil).Margins(a, b, AsUpstream, 1000)
	assert.Nil(t, err)
	assert.Len(t, ms, 2)
	assert.InDelta(t, 20, ms[0].Margin, 1e-9)
	assert.InDelta(t, 6, ms[1].Margin, 1e-9)
}

func TestBadDirection(t *testing.T) {
	downstream, trial := utPair(t)

	_, err := NewChecker(nil).Coordinates(downstream, trial, 1, Direction('x'), 1000)
	assert.True(t, errors.Is(err, ErrBadDirection))

	_, err = NewChecker(nil).Coordinates(curve.Curve{}, trial, 1, AsUpstream, 1000)
	assert.True(t, errors.Is(err, curve.ErrInvalidCurve))
}
