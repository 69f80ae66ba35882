package storage

import "errors"

var (
	ErrNotFound = errors.New("entry not found")
	ErrCorrupt  = errors.New("stored entry is corrupt")
	ErrInternal = errors.New("internal storage error")
)
