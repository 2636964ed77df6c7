package repositories

import "errors"

// Sentinel errors shared by all repository implementations so services can
// classify failures without matching on message text.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientStock = errors.New("insufficient stock")
)
