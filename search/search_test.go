package search

import (
	"context"
	"errors"
	"testing"

	"github.com/sgostarter/librecloser/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// powerLaw builds t = k / I sampled at the given currents.
func powerLaw(t *testing.T, name string, role curve.Role, position curve.Position, k float64,
	currents ...float64) curve.Curve {
	points := make([]curve.Point, 0, len(currents))
	for _, current := range currents {
		points = append(points, curve.Point{Current: current, Time: k / current})
	}

	c, err := curve.NewCurve(name, role, position, points)
	require.Nil(t, err)

	return c
}

type utScene struct {
	downstream, upstream curve.Curve
	candidates           []Candidate
	params               Params
}

func newUTScene(t *testing.T) utScene {
	return utScene{
		downstream: powerLaw(t, "fuse", curve.FuseRole{}, curve.PositionDownstream, 2050, 100, 1000, 10000),
		upstream:   powerLaw(t, "breaker", curve.BreakerRole{}, curve.PositionUpstream, 10050, 100, 1000, 10000),
		candidates: []Candidate{
			{ID: 0, Curve: powerLaw(t, "fast", curve.RecloserRole{}, curve.PositionCandidate, 20, 1, 10, 100)},
			{ID: 1, Curve: powerLaw(t, "tooFast", curve.RecloserRole{}, curve.PositionCandidate, 5, 1, 10, 100)},
			{ID: 2, Curve: powerLaw(t, "fast2", curve.RecloserRole{}, curve.PositionCandidate, 20, 1, 10, 100)},
		},
		params: Params{PickupMin: 100, PickupMax: 500, CoordMaxAmps: 1000, MinCoordTime: 2},
	}
}

func expectedPickups() []int {
	var pickups []int
	for p := 205; p <= 400; p += PickupStep {
		pickups = append(pickups, p)
	}

	return pickups
}

func TestSearch(t *testing.T) {
	sc := newUTScene(t)

	solutions, err := NewSearcher().Search(context.Background(), sc.downstream, sc.upstream, sc.candidates, sc.params)
	assert.Nil(t, err)

	var expected []Solution
	for _, id := range []int{0, 2} {
		for _, p := range expectedPickups() {
			expected = append(expected, Solution{CandidateID: id, Pickup: p})
		}
	}

	assert.EqualValues(t, expected, solutions)

	assert.EqualValues(t, []Range{
		{CandidateID: 0, PickupMin: 205, PickupMax: 400},
		{CandidateID: 2, PickupMin: 205, PickupMax: 400},
	}, Compress(solutions))
}

func TestSearchParallelKeepsOrder(t *testing.T) {
	sc := newUTScene(t)

	sequential, err := NewSearcher().Search(context.Background(), sc.downstream, sc.upstream, sc.candidates, sc.params)
	assert.Nil(t, err)

	parallel, err := NewSearcher(WithWorkers(3)).Search(context.Background(), sc.downstream, sc.upstream,
		sc.candidates, sc.params)
	assert.Nil(t, err)

	assert.EqualValues(t, sequential, parallel)
}

func TestSearchEmpty(t *testing.T) {
	sc := newUTScene(t)
	sc.candidates = sc.candidates[1:2]

	solutions, err := NewSearcher().Search(context.Background(), sc.downstream, sc.upstream, sc.candidates, sc.params)
	assert.Nil(t, err)
	assert.Empty(t, solutions)
	assert.Empty(t, Compress(solutions))
}

func TestSearchDoesNotTouchCandidates(t *testing.T) {
	sc := newUTScene(t)
	before := sc.candidates[0].Curve.Points()

	_, err := NewSearcher().Search(context.Background(), sc.downstream, sc.upstream, sc.candidates, sc.params)
	assert.Nil(t, err)
	assert.EqualValues(t, before, sc.candidates[0].Curve.Points())
}

func TestSearchConfiguration(t *testing.T) {
	sc := newUTScene(t)

	for _, params := range []Params{
		{PickupMin: 100, PickupMax: 100, CoordMaxAmps: 1000, MinCoordTime: 2},
		{PickupMin: 100, PickupMax: 500, CoordMaxAmps: 500, MinCoordTime: 2},
		{PickupMin: -5, PickupMax: 500, CoordMaxAmps: 1000, MinCoordTime: 2},
		{PickupMin: 100, PickupMax: 500, CoordMaxAmps: 1000, MinCoordTime: -1},
	} {
		_, err := NewSearcher().Search(context.Background(), sc.downstream, sc.upstream, sc.candidates, params)
		assert.True(t, errors.Is(err, ErrConfiguration), "%+v", params)
	}
}

func TestSearchCanceled(t *testing.T) {
	sc := newUTScene(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSearcher().Search(ctx, sc.downstream, sc.upstream, sc.candidates, sc.params)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEvaluate(t *testing.T) {
	sc := newUTScene(t)
	s := NewSearcher()

	ok, err := s.Evaluate(sc.downstream, sc.upstream, sc.candidates[0].Curve, 300, sc.params)
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = s.Evaluate(sc.downstream, sc.upstream, sc.candidates[0].Curve, 200, sc.params)
	assert.Nil(t, err)
	assert.False(t, ok)

	ok, err = s.Evaluate(sc.downstream, sc.upstream, sc.candidates[0].Curve, 405, sc.params)
	assert.Nil(t, err)
	assert.False(t, ok)

	_, err = s.Evaluate(sc.downstream, sc.upstream, sc.candidates[0].Curve, 0, sc.params)
	assert.True(t, errors.Is(err, curve.ErrInvalidCurve))
}

func TestPickups(t *testing.T) {
	assert.EqualValues(t, []int{5, 10, 15}, Params{PickupMin: 0, PickupMax: 17}.Pickups())
	assert.EqualValues(t, []int{100, 105, 110}, Params{PickupMin: 100, PickupMax: 110}.Pickups())
	assert.Nil(t, Params{PickupMin: 10, PickupMax: 5}.Pickups())
}
