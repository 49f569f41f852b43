package conflict

import "errors"

var (
	ErrManualResolution     = errors.New("manual resolution required")
	ErrResolutionIncomplete = errors.New("conflict resolution incomplete")
	ErrMalformedConflict    = errors.New("malformed conflict markers")
)
