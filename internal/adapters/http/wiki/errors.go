package wiki

import "errors"

// Sentinel kinds for wiki API errors.
var (
	ErrBadStatus   = errors.New("unexpected status from wiki API")
	ErrBadTimestep = errors.New("invalid timestep")
)
