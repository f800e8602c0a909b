package domain

import "errors"

// Session error taxonomy. Provider failures are converted to these at
// controller boundaries; the session never sees raw provider errors.
var (
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	ErrPermissionDenied  = errors.New("capture permission denied")
	ErrEmptyInput        = errors.New("input text is empty")
	ErrInvalidState      = errors.New("operation not valid in current state")
)
