package resolver

import "errors"

var (
	ErrNoAnswer = errors.New("no answer")
	ErrAborted  = errors.New("input aborted")
)
