package hiscore

import "errors"

// Sentinel kinds for decode errors.
var (
	// ErrIncompleteFeed marks a feed with fewer lines than the taxonomy
	// requires. A short feed is a decode error, never a partial result.
	ErrIncompleteFeed = errors.New("incomplete hiscore feed")
)
