package coord

import "errors"

var ErrBadDirection = errors.New("bad direction")
