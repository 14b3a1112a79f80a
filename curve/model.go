package curve

import "fmt"

type Point struct {
	Current float64 `yaml:"current" json:"current"`
	Time    float64 `yaml:"time" json:"time"`
}

type DeviceKind int

const (
	DeviceKindBreaker DeviceKind = iota + 1
	DeviceKindFuse
	DeviceKindRecloser
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKindBreaker:
		return "breaker"
	case DeviceKindFuse:
		return "fuse"
	case DeviceKindRecloser:
		return "recloser"
	}

	return fmt.Sprintf("DeviceKind(%d)", int(k))
}

// Code is the one-letter prefix used by curve selections (b00, f14, r02).
func (k DeviceKind) Code() byte {
	switch k {
	case DeviceKindBreaker:
		return 'b'
	case DeviceKindFuse:
		return 'f'
	case DeviceKindRecloser:
		return 'r'
	}

	return '?'
}

type Position int

const (
	PositionCandidate Position = iota
	PositionDownstream
	PositionUpstream
)

func (p Position) String() string {
	switch p {
	case PositionCandidate:
		return "candidate"
	case PositionDownstream:
		return "downstream"
	case PositionUpstream:
		return "upstream"
	}

	return fmt.Sprintf("Position(%d)", int(p))
}

type TimeUnit int

const (
	UnitCycles TimeUnit = iota
	UnitSeconds
)

func (u TimeUnit) String() string {
	if u == UnitSeconds {
		return "seconds"
	}

	return "cycles"
}

// RawCurve is a point list as delivered by a curve source, before normalization.
type RawCurve struct {
	Name   string
	Kind   DeviceKind
	Unit   TimeUnit
	Points []Point
}

type RatioCorrection struct {
	OldRatio int
	NewRatio int
}

// Factor is the multiplier applied to every current.
func (rc RatioCorrection) Factor() float64 {
	return float64(rc.NewRatio) / float64(rc.OldRatio)
}

type ChainParams struct {
	Pickup       float64
	TimeConstant float64
}

// Role carries the device-specific data that shaped a curve during normalization.
type Role interface {
	Kind() DeviceKind
	role()
}

type BreakerRole struct {
	// Correction is nil when the recorded instrument ratio looked plausible.
	Correction *RatioCorrection
}

func (BreakerRole) Kind() DeviceKind { return DeviceKindBreaker }
func (BreakerRole) role()            {}

type FuseRole struct{}

func (FuseRole) Kind() DeviceKind { return DeviceKindFuse }
func (FuseRole) role()            {}

type RecloserRole struct {
	// Chain is set only for reclosers holding the downstream or upstream position.
	Chain *ChainParams
}

func (RecloserRole) Kind() DeviceKind { return DeviceKindRecloser }
func (RecloserRole) role()            {}

func roleFor(kind DeviceKind) (Role, error) {
	switch kind {
	case DeviceKindBreaker:
		return BreakerRole{}, nil
	case DeviceKindFuse:
		return FuseRole{}, nil
	case DeviceKindRecloser:
		return RecloserRole{}, nil
	}

	return nil, fmt.Errorf("%w: unknown device kind %d", ErrInvalidCurve, int(kind))
}

type RatioResolver interface {
	// ResolveRatio is asked when a breaker curve starts below the anomaly threshold.
	ResolveRatio(curveName string, firstCurrent float64) (oldRatio, newRatio int, err error)
}

type ChainResolver interface {
	// ResolveChain supplies pickup and time constant for a recloser curve at a fixed position.
	ResolveChain(curveName string, position Position) (pickup, timeConstant float64, err error)
}
