package hiscores

import "errors"

// Sentinel kinds for hiscores API errors.
var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrBadStatus       = errors.New("unexpected status from hiscores API")
)
