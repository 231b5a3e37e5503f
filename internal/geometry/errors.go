package geometry

import "errors"

var (
	// ErrInvalidParameter rejects negative or non-finite sizes, non-finite positions and
	// shell resolutions below three. State is left unchanged.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnattached is returned by queries that need a coordinate transform before the
	// geometry has been attached to a rendering context.
	ErrUnattached = errors.New("geometry is not attached to a map")
)
