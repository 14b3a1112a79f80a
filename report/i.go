package report

import "errors"

var ErrUnknownCandidate = errors.New("unknown candidate")

type Storage interface {
	// Save keeps r under r.ID; an ID of 0 gets a fresh one assigned.
	Save(r *Report) (id uint64, err error)
	Get(id uint64) (*Report, error)
	// List returns reports created in [createdAtStart, createdAtFinish], oldest first.
	// A non-positive bound is open.
	List(createdAtStart, createdAtFinish int64) ([]*Report, error)
}
