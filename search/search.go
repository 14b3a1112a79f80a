package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
	"github.com/sgostarter/librecloser/coord"
	"github.com/sgostarter/librecloser/curve"
)

type options struct {
	logger  l.Wrapper
	workers int
}

type Option func(o *options)

func WithLogger(logger l.Wrapper) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWorkers evaluates candidates on n routines. Output order is unaffected.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

type Searcher struct {
	logger  l.Wrapper
	checker *coord.Checker
	workers int
}

func NewSearcher(opts ...Option) *Searcher {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = l.NewNopLoggerWrapper()
	}

	if o.workers <= 0 {
		o.workers = 1
	}

	return &Searcher{
		logger:  o.logger.WithFields(l.StringField(l.ClsKey, "searcher")),
		checker: coord.NewChecker(o.logger),
		workers: o.workers,
	}
}

// Search sweeps every candidate across the pickup range and returns the passing
// (candidate, pickup) pairs, candidate-major in the order of candidates and
// pickup-ascending within a candidate.
func (s *Searcher) Search(ctx context.Context, downstream, upstream curve.Curve, candidates []Candidate,
	params Params) ([]Solution, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	pickups := params.Pickups()

	s.logger.WithFields(l.IntField("candidates", len(candidates)), l.IntField("pickups", len(pickups)),
		l.IntField("workers", s.workers)).Info("search start")

	perCandidate := make([][]Solution, len(candidates))

	var err error

	if s.workers == 1 || len(candidates) < 2 {
		for idx := range candidates {
			if err = ctx.Err(); err != nil {
				return nil, err
			}

			perCandidate[idx], err = s.sweep(downstream, upstream, candidates[idx], pickups, params)
			if err != nil {
				return nil, err
			}
		}
	} else {
		err = s.sweepParallel(ctx, downstream, upstream, candidates, pickups, params, perCandidate)
		if err != nil {
			return nil, err
		}
	}

	var solutions []Solution

	for _, ss := range perCandidate {
		solutions = append(solutions, ss...)
	}

	s.logger.WithFields(l.IntField("solutions", len(solutions))).Info("search done")

	return solutions, nil
}

func (s *Searcher) sweepParallel(ctx context.Context, downstream, upstream curve.Curve, candidates []Candidate,
	pickups []int, params Params, perCandidate [][]Solution) error {
	var (
		errLock  sync.Mutex
		firstErr error
	)

	setErr := func(err error) {
		errLock.Lock()
		defer errLock.Unlock()

		if firstErr == nil {
			firstErr = err
		}
	}

	jobs := make(chan int)

	routineMan := routineman.NewRoutineMan(ctx, s.logger)

	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	for w := 0; w < workers; w++ {
		routineMan.StartRoutine(func(ctx context.Context, _ func() bool) {
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}

				ss, err := s.sweep(downstream, upstream, candidates[idx], pickups, params)
				if err != nil {
					setErr(err)

					continue
				}

				// each index is written by exactly one worker
				perCandidate[idx] = ss
			}
		}, fmt.Sprintf("searchWorker%d", w))
	}

feed:
	for idx := range candidates {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}

	close(jobs)

	routineMan.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	return firstErr
}

func (s *Searcher) sweep(downstream, upstream curve.Curve, candidate Candidate, pickups []int,
	params Params) (solutions []Solution, err error) {
	logger := s.logger.WithFields(l.IntField("candidate", candidate.ID), l.StringField("curve", candidate.Curve.Name()))

	for _, pickup := range pickups {
		var ok bool

		ok, err = s.Evaluate(downstream, upstream, candidate.Curve, pickup, params)
		if err != nil {
			logger.WithFields(l.IntField("pickup", pickup), l.ErrorField(err)).Error("evaluate failed")

			return nil, err
		}

		logger.WithFields(l.IntField("pickup", pickup)).Debug(passText(ok))

		if ok {
			solutions = append(solutions, Solution{CandidateID: candidate.ID, Pickup: pickup})
		}
	}

	return
}

// Evaluate instantiates shape at pickup and runs the four directional checks:
// downstream against trial, trial against downstream, upstream against trial and
// trial against upstream. Checking both orders exercises the points of each curve.
func (s *Searcher) Evaluate(downstream, upstream, shape curve.Curve, pickup int, params Params) (bool, error) {
	trial, err := shape.Scale(float64(pickup))
	if err != nil {
		return false, err
	}

	minMargin := float64(params.MinCoordTime)
	maxCurrent := float64(params.CoordMaxAmps)

	checks := []struct {
		a, b curve.Curve
		dir  coord.Direction
	}{
		{downstream, trial, coord.AsDownstream},
		{trial, downstream, coord.AsUpstream},
		{upstream, trial, coord.AsUpstream},
		{trial, upstream, coord.AsDownstream},
	}

	for _, check := range checks {
		ok, err := s.checker.Coordinates(check.a, check.b, minMargin, check.dir, maxCurrent)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func passText(ok bool) string {
	if ok {
		return "pass"
	}

	return "fail"
}
