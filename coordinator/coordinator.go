package coordinator

import (
	"context"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/librecloser/curve"
	"github.com/sgostarter/librecloser/library"
	"github.com/sgostarter/librecloser/report"
	"github.com/sgostarter/librecloser/search"
)

type options struct {
	logger        l.Wrapper
	storage       report.Storage
	ratioResolver curve.RatioResolver
	chainResolver curve.ChainResolver
	workers       int
	fnNow         func() time.Time
}

type Option func(o *options)

func WithLogger(logger l.Wrapper) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage makes Run save every report it builds.
func WithStorage(storage report.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

func WithRatioResolver(r curve.RatioResolver) Option {
	return func(o *options) {
		o.ratioResolver = r
	}
}

func WithChainResolver(r curve.ChainResolver) Option {
	return func(o *options) {
		o.chainResolver = r
	}
}

func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func WithClock(fnNow func() time.Time) Option {
	return func(o *options) {
		o.fnNow = fnNow
	}
}

// Request names the fixed devices by selection code (f01, b00, r03).
type Request struct {
	Downstream string
	Upstream   string
	Params     search.Params
}

type Coordinator struct {
	logger     l.Wrapper
	lib        *library.Library
	normalizer *curve.Normalizer
	searcher   *search.Searcher
	storage    report.Storage
	fnNow      func() time.Time
}

func NewCoordinator(lib *library.Library, opts ...Option) *Coordinator {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = l.NewNopLoggerWrapper()
	}

	if o.fnNow == nil {
		o.fnNow = time.Now
	}

	return &Coordinator{
		logger: o.logger.WithFields(l.StringField(l.ClsKey, "coordinator")),
		lib:    lib,
		normalizer: curve.NewNormalizer(
			curve.WithRatioResolver(o.ratioResolver),
			curve.WithChainResolver(o.chainResolver),
			curve.WithLogger(o.logger)),
		searcher: search.NewSearcher(search.WithLogger(o.logger), search.WithWorkers(o.workers)),
		storage:  o.storage,
		fnNow:    o.fnNow,
	}
}

func (c *Coordinator) Run(ctx context.Context, req Request) (*report.Report, error) {
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	downstream, downstreamDevice, err := c.loadFixed(req.Downstream, curve.PositionDownstream)
	if err != nil {
		return nil, err
	}

	upstream, upstreamDevice, err := c.loadFixed(req.Upstream, curve.PositionUpstream)
	if err != nil {
		return nil, err
	}

	candidates, names, err := c.loadCandidates()
	if err != nil {
		return nil, err
	}

	solutions, err := c.searcher.Search(ctx, downstream, upstream, candidates, req.Params)
	if err != nil {
		return nil, err
	}

	r, err := report.Build(downstreamDevice, upstreamDevice, req.Params, search.Compress(solutions), names, c.fnNow())
	if err != nil {
		return nil, err
	}

	if c.storage != nil {
		r.ID, err = c.storage.Save(r)
		if err != nil {
			c.logger.WithFields(l.ErrorField(err)).Error("save report failed")

			return nil, err
		}
	}

	c.logger.WithFields(l.UInt64Field("id", r.ID), l.IntField("ranges", len(r.Ranges))).Info("run done")

	return r, nil
}

func (c *Coordinator) loadFixed(sel string, position curve.Position) (curve.Curve, report.Device, error) {
	e, err := c.lib.Select(sel)
	if err != nil {
		return curve.Curve{}, report.Device{}, err
	}

	raw, err := c.lib.Load(e)
	if err != nil {
		return curve.Curve{}, report.Device{}, err
	}

	cv, err := c.normalizer.Normalize(raw, position)
	if err != nil {
		return curve.Curve{}, report.Device{}, err
	}

	return cv, report.Device{Selection: e.Code(), Name: e.Name, Kind: e.Kind.String()}, nil
}

func (c *Coordinator) loadCandidates() ([]search.Candidate, []string, error) {
	entries, raws, err := c.lib.Candidates()
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]search.Candidate, 0, len(raws))
	names := make([]string, len(entries))

	for idx, raw := range raws {
		names[idx] = entries[idx].Name

		cv, err := c.normalizer.Normalize(raw, curve.PositionCandidate)
		if err != nil {
			return nil, nil, err
		}

		candidates = append(candidates, search.Candidate{ID: entries[idx].Index, Curve: cv})
	}

	return candidates, names, nil
}
