package frame

import "errors"

// Sentinel errors for the frame collection. Callers categorize failures with
// errors.Is and decide presentation themselves.
var (
	// ErrFrameNotFound indicates a positional or id-based lookup target
	// does not exist in the collection.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrDateConversion indicates a frame timestamp could not be parsed.
	ErrDateConversion = errors.New("error converting date")
)
