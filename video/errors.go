package video

import "errors"

// Error kinds shared by the codec, addressing and measurement packages.
// Callers match them with errors.Is; the packages wrap them with context.
var (
	// ErrInvalidGeometry reports an odd width or a non-positive dimension.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrShortRead reports fewer bytes available than a requested span.
	ErrShortRead = errors.New("short read")

	// ErrAddressing reports a frame line, field or line index outside the
	// declared geometry.
	ErrAddressing = errors.New("address out of range")

	// ErrDegenerateRange reports blanking >= white or an empty region.
	// Measurements never return it; it is attached to warnings.
	ErrDegenerateRange = errors.New("degenerate range")
)
