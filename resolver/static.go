package resolver

import (
	"fmt"
	"strings"

	"github.com/sgostarter/librecloser/curve"
)

type Ratio struct {
	Old int `yaml:"old" json:"old" mapstructure:"old"`
	New int `yaml:"new" json:"new" mapstructure:"new"`
}

type Chain struct {
	Pickup       float64 `yaml:"pickup" json:"pickup" mapstructure:"pickup"`
	TimeConstant float64 `yaml:"time_constant" json:"time_constant" mapstructure:"time-constant"`
}

// StaticConfig answers resolver questions from configuration. Per-curve entries
// win over the defaults.
type StaticConfig struct {
	DefaultRatio *Ratio           `yaml:"default_ratio" mapstructure:"default-ratio"`
	Ratios       map[string]Ratio `yaml:"ratios" mapstructure:"ratios"`

	Downstream *Chain `yaml:"downstream" mapstructure:"downstream"`
	Upstream   *Chain `yaml:"upstream" mapstructure:"upstream"`
}

// Static matches curve names case-insensitively; config loaders may fold map keys.
type Static struct {
	cfg    StaticConfig
	ratios map[string]Ratio
}

func NewStatic(cfg StaticConfig) *Static {
	ratios := make(map[string]Ratio, len(cfg.Ratios))
	for name, r := range cfg.Ratios {
		ratios[strings.ToLower(name)] = r
	}

	return &Static{
		cfg:    cfg,
		ratios: ratios,
	}
}

func (s *Static) ResolveRatio(curveName string, firstCurrent float64) (oldRatio, newRatio int, err error) {
	if r, ok := s.ratios[strings.ToLower(curveName)]; ok {
		return r.Old, r.New, nil
	}

	if s.cfg.DefaultRatio != nil {
		return s.cfg.DefaultRatio.Old, s.cfg.DefaultRatio.New, nil
	}

	err = fmt.Errorf("%w: no instrument ratio configured for %s (first current %v)", ErrNoAnswer, curveName, firstCurrent)

	return
}

func (s *Static) ResolveChain(curveName string, position curve.Position) (pickup, timeConstant float64, err error) {
	var c *Chain

	switch position {
	case curve.PositionDownstream:
		c = s.cfg.Downstream
	case curve.PositionUpstream:
		c = s.cfg.Upstream
	}

	if c == nil {
		err = fmt.Errorf("%w: no %s recloser settings configured for %s", ErrNoAnswer, position, curveName)

		return
	}

	return c.Pickup, c.TimeConstant, nil
}
