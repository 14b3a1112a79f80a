package curve

import (
	"fmt"
	"strconv"

	"github.com/sgostarter/i/l"
)

type normalizerOptions struct {
	ratioResolver RatioResolver
	chainResolver ChainResolver
	logger        l.Wrapper
}

type NormalizerOption func(o *normalizerOptions)

func WithRatioResolver(r RatioResolver) NormalizerOption {
	return func(o *normalizerOptions) {
		o.ratioResolver = r
	}
}

func WithChainResolver(r ChainResolver) NormalizerOption {
	return func(o *normalizerOptions) {
		o.chainResolver = r
	}
}

func WithLogger(logger l.Wrapper) NormalizerOption {
	return func(o *normalizerOptions) {
		o.logger = logger
	}
}

// Normalizer turns raw point lists into validated Curves in cycles.
type Normalizer struct {
	ratioResolver RatioResolver
	chainResolver ChainResolver
	logger        l.Wrapper
}

func NewNormalizer(options ...NormalizerOption) *Normalizer {
	opts := &normalizerOptions{}
	for _, o := range options {
		o(opts)
	}

	if opts.logger == nil {
		opts.logger = l.NewNopLoggerWrapper()
	}

	return &Normalizer{
		ratioResolver: opts.ratioResolver,
		chainResolver: opts.chainResolver,
		logger:        opts.logger.WithFields(l.StringField(l.ClsKey, "curveNormalizer")),
	}
}

func (n *Normalizer) Normalize(raw RawCurve, position Position) (Curve, error) {
	logger := n.logger.WithFields(l.StringField("curve", raw.Name), l.StringField("position", position.String()))

	role, err := roleFor(raw.Kind)
	if err != nil {
		return Curve{}, err
	}

	if len(raw.Points) == 0 {
		return Curve{}, fmt.Errorf("%w: %s: no points", ErrInvalidCurve, raw.Name)
	}

	points := make([]Point, len(raw.Points))
	copy(points, raw.Points)

	if raw.Unit == UnitSeconds {
		for idx := range points {
			points[idx].Time *= CyclesPerSecond
		}
	}

	switch role.(type) {
	case BreakerRole:
		role, err = n.correctRatio(raw.Name, points, logger)
	case RecloserRole:
		if position != PositionCandidate {
			role, err = n.placeInChain(raw.Name, position, points, logger)
		}
	}

	if err != nil {
		return Curve{}, err
	}

	c, err := NewCurve(raw.Name, role, position, points)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("normalize failed")

		return Curve{}, err
	}

	for idx, p := range points {
		logger.WithFields(l.IntField("idx", idx), l.StringField("point", formatPoint(p))).Debug("curve data")
	}

	return c, nil
}

func (n *Normalizer) correctRatio(name string, points []Point, logger l.Wrapper) (Role, error) {
	if points[0].Current >= RatioAnomalyThreshold {
		return BreakerRole{}, nil
	}

	if n.ratioResolver == nil {
		return nil, fmt.Errorf("%w: %s needs an instrument ratio correction", ErrResolverMissing, name)
	}

	oldRatio, newRatio, err := n.ratioResolver.ResolveRatio(name, points[0].Current)
	if err != nil {
		return nil, err
	}

	if oldRatio <= 0 || newRatio <= 0 {
		return nil, fmt.Errorf("%w: %s: ratio %d -> %d", ErrInvalidResolverAnswer, name, oldRatio, newRatio)
	}

	rc := RatioCorrection{OldRatio: oldRatio, NewRatio: newRatio}

	for idx := range points {
		points[idx].Current = points[idx].Current / float64(oldRatio) * float64(newRatio)
	}

	logger.WithFields(l.IntField("oldRatio", oldRatio), l.IntField("newRatio", newRatio)).Info("instrument ratio corrected")

	return BreakerRole{Correction: &rc}, nil
}

func (n *Normalizer) placeInChain(name string, position Position, points []Point, logger l.Wrapper) (Role, error) {
	if n.chainResolver == nil {
		return nil, fmt.Errorf("%w: %s needs %s recloser settings", ErrResolverMissing, name, position)
	}

	pickup, timeConstant, err := n.chainResolver.ResolveChain(name, position)
	if err != nil {
		return nil, err
	}

	if pickup < 0 || timeConstant < 0 {
		return nil, fmt.Errorf("%w: %s: pickup %v, time constant %v", ErrInvalidResolverAnswer, name, pickup, timeConstant)
	}

	for idx := range points {
		points[idx].Current *= pickup
		points[idx].Time += timeConstant
	}

	logger.WithFields(l.StringField("pickup", formatFloat(pickup)),
		l.StringField("timeConstant", formatFloat(timeConstant))).Info("recloser placed in chain")

	return RecloserRole{Chain: &ChainParams{Pickup: pickup, TimeConstant: timeConstant}}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatPoint(p Point) string {
	return formatFloat(p.Current) + "," + formatFloat(p.Time)
}
