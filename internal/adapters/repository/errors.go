package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrEmptySnapshot = errors.New("empty catalog snapshot")
	ErrItemNotFound  = errors.New("item not found")
	ErrAmbiguousItem = errors.New("ambiguous item query")
)
