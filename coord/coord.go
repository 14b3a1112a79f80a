package coord

import (
	"fmt"
	"strconv"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/librecloser/curve"
)

// Direction names the role the first curve plays against the second one.
type Direction byte

const (
	// AsDownstream: the first curve must operate faster than the second by the margin.
	AsDownstream Direction = 'd'
	// AsUpstream: the first curve must operate slower than the second by the margin.
	AsUpstream Direction = 'u'
)

func (d Direction) String() string {
	return string(d)
}

func (d Direction) valid() bool {
	return d == AsDownstream || d == AsUpstream
}

type Checker struct {
	logger l.Wrapper
}

func NewChecker(logger l.Wrapper) *Checker {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &Checker{
		logger: logger.WithFields(l.StringField(l.ClsKey, "coordChecker")),
	}
}

type Margin struct {
	Current float64
	Margin  float64
}

// Coordinates reports whether a keeps minMargin over b at every point of a that
// lies inside b's current range and at or below maxCurrent. Only a's own points
// are sampled. No overlapping point means the check passes.
func (c *Checker) Coordinates(a, b curve.Curve, minMargin float64, dir Direction, maxCurrent float64) (bool, error) {
	ok := true

	err := c.walk(a, b, dir, maxCurrent, func(m Margin) bool {
		if m.Margin < minMargin {
			ok = false

			return false
		}

		return true
	})
	if err != nil {
		return false, err
	}

	return ok, nil
}

// Margins returns the effective margin at every sampled point of a.
func (c *Checker) Margins(a, b curve.Curve, dir Direction, maxCurrent float64) (ms []Margin, err error) {
	err = c.walk(a, b, dir, maxCurrent, func(m Margin) bool {
		ms = append(ms, m)

		return true
	})

	return
}

func (c *Checker) walk(a, b curve.Curve, dir Direction, maxCurrent float64, fn func(m Margin) bool) error {
	if !dir.valid() {
		return fmt.Errorf("%w: %q", ErrBadDirection, byte(dir))
	}

	if a.IsZero() || b.IsZero() {
		return fmt.Errorf("%w: empty curve", curve.ErrInvalidCurve)
	}

	for idx := 0; idx < a.Len(); idx++ {
		p := a.Point(idx)

		if !b.Covers(p.Current) || p.Current > maxCurrent {
			continue
		}

		bt, err := b.TimeAt(p.Current)
		if err != nil {
			return err
		}

		margin := p.Time - bt
		if dir == AsDownstream {
			margin = -margin
		}

		c.logger.WithFields(l.StringField("dir", dir.String()), l.StringField("current", fmtF(p.Current)),
			l.StringField("interTime", fmtF(bt)), l.StringField("coordTime", fmtF(margin))).Debug("coord time")

		if !fn(Margin{Current: p.Current, Margin: margin}) {
			break
		}
	}

	return nil
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
