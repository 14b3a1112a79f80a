package resolver

import (
	"errors"

	"github.com/sgostarter/librecloser/curve"
)

// Fallback asks Primary first and turns to Secondary only when Primary has no answer.
type Fallback struct {
	Primary   Resolver
	Secondary Resolver
}

type Resolver interface {
	curve.RatioResolver
	curve.ChainResolver
}

func (f Fallback) ResolveRatio(curveName string, firstCurrent float64) (oldRatio, newRatio int, err error) {
	oldRatio, newRatio, err = f.Primary.ResolveRatio(curveName, firstCurrent)
	if errors.Is(err, ErrNoAnswer) && f.Secondary != nil {
		return f.Secondary.ResolveRatio(curveName, firstCurrent)
	}

	return
}

func (f Fallback) ResolveChain(curveName string, position curve.Position) (pickup, timeConstant float64, err error) {
	pickup, timeConstant, err = f.Primary.ResolveChain(curveName, position)
	if errors.Is(err, ErrNoAnswer) && f.Secondary != nil {
		return f.Secondary.ResolveChain(curveName, position)
	}

	return
}
