package search

import (
	"errors"
	"fmt"

	"github.com/sgostarter/librecloser/curve"
)

// PickupStep is the sweep increment in amperes.
const PickupStep = 5

var ErrConfiguration = errors.New("configuration error")

// Params are the sweep settings. Amperes for pickups and ceiling, cycles for MinCoordTime.
type Params struct {
	PickupMin    int `json:"pickup_min" yaml:"pickup_min" mapstructure:"pickup-min"`
	PickupMax    int `json:"pickup_max" yaml:"pickup_max" mapstructure:"pickup-max"`
	CoordMaxAmps int `json:"coord_max_amps" yaml:"coord_max_amps" mapstructure:"coord-max"`
	MinCoordTime int `json:"min_coord_time" yaml:"min_coord_time" mapstructure:"min-time"`
}

func (p Params) Validate() error {
	if p.PickupMin < 0 || p.PickupMax < 0 || p.CoordMaxAmps < 0 || p.MinCoordTime < 0 {
		return fmt.Errorf("%w: negative value in %+v", ErrConfiguration, p)
	}

	if p.PickupMax <= p.PickupMin {
		return fmt.Errorf("%w: pickup max %d must be greater than pickup min %d", ErrConfiguration,
			p.PickupMax, p.PickupMin)
	}

	if p.CoordMaxAmps <= p.PickupMax {
		return fmt.Errorf("%w: coordination max %d must be greater than pickup max %d", ErrConfiguration,
			p.CoordMaxAmps, p.PickupMax)
	}

	return nil
}

// Pickups lists the swept pickup values in ascending order. A zero pickup would
// collapse the trial curve onto a single current, so it is left out.
func (p Params) Pickups() []int {
	if p.PickupMax < p.PickupMin {
		return nil
	}

	pickups := make([]int, 0, (p.PickupMax-p.PickupMin)/PickupStep+1)

	for pickup := p.PickupMin; pickup <= p.PickupMax; pickup += PickupStep {
		if pickup <= 0 {
			continue
		}

		pickups = append(pickups, pickup)
	}

	return pickups
}

// Candidate is an unscaled recloser shape; currents are multiples of pickup.
type Candidate struct {
	ID    int
	Curve curve.Curve
}

type Solution struct {
	CandidateID int `json:"candidate_id" yaml:"candidate_id"`
	Pickup      int `json:"pickup" yaml:"pickup"`
}

type Range struct {
	CandidateID int `json:"candidate_id" yaml:"candidate_id"`
	PickupMin   int `json:"pickup_min" yaml:"pickup_min"`
	PickupMax   int `json:"pickup_max" yaml:"pickup_max"`
}
