package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/librecloser/search"
	"gopkg.in/yaml.v3"
)

const banner = "========================"

type Device struct {
	Selection string `json:"selection,omitempty" yaml:"selection,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
}

// NamedRange is a search.Range with the candidate curve's name attached.
type NamedRange struct {
	Curve       string `json:"curve" yaml:"curve"`
	CandidateID int    `json:"candidate_id" yaml:"candidate_id"`
	PickupMin   int    `json:"pickup_min" yaml:"pickup_min"`
	PickupMax   int    `json:"pickup_max" yaml:"pickup_max"`
}

type Report struct {
	ID         uint64        `json:"id" yaml:"id"`
	CreatedAt  int64         `json:"created_at" yaml:"created_at"`
	Downstream Device        `json:"downstream" yaml:"downstream"`
	Upstream   Device        `json:"upstream" yaml:"upstream"`
	Params     search.Params `json:"params" yaml:"params"`
	Ranges     []NamedRange  `json:"ranges" yaml:"ranges"`
}

// Build names every range by its candidate ID. candidateNames is indexed by ID.
func Build(downstream, upstream Device, params search.Params, ranges []search.Range,
	candidateNames []string, at time.Time) (*Report, error) {
	r := &Report{
		ID:         snowflake.ID(),
		CreatedAt:  at.Unix(),
		Downstream: downstream,
		Upstream:   upstream,
		Params:     params,
		Ranges:     make([]NamedRange, 0, len(ranges)),
	}

	for _, rg := range ranges {
		if rg.CandidateID < 0 || rg.CandidateID >= len(candidateNames) {
			return nil, fmt.Errorf("%w: candidate %d not among %d names", ErrUnknownCandidate,
				rg.CandidateID, len(candidateNames))
		}

		r.Ranges = append(r.Ranges, NamedRange{
			Curve:       candidateNames[rg.CandidateID],
			CandidateID: rg.CandidateID,
			PickupMin:   rg.PickupMin,
			PickupMax:   rg.PickupMax,
		})
	}

	return r, nil
}

func (r *Report) HasSolutions() bool {
	return len(r.Ranges) > 0
}

// Lines renders the solution listing shown to operators and written to solution files.
func Lines(r *Report) []string {
	lines := []string{banner, "Possible Curve Settings:", banner, ""}

	if !r.HasSolutions() {
		return append(lines, "[no solutions found]")
	}

	for _, rg := range r.Ranges {
		lines = append(lines,
			"Curve: "+rg.Curve,
			"Pickup Min (A): "+strconv.Itoa(rg.PickupMin),
			"Pickup Max (A): "+strconv.Itoa(rg.PickupMax),
			"")
	}

	return lines
}

func WriteText(w io.Writer, r *Report) error {
	for _, line := range Lines(r) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}

	return nil
}

func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return err
	}

	return enc.Close()
}
