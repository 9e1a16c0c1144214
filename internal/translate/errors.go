package translate

import "errors"

// Translation failures are local to a single message: the caller reports them
// and moves on, no retry. Check with errors.Is().
var (
	// ErrMissingDatabase indicates no target database was resolvable from the
	// message, the route defaults, or the store default.
	ErrMissingDatabase = errors.New("translate: no target database configured")

	// ErrMissingMeasurement indicates a structured payload with no measurement
	// on the message or the route.
	ErrMissingMeasurement = errors.New("translate: no measurement configured")

	// ErrInvalidPayload indicates the payload is neither line-protocol text
	// nor a structured object.
	ErrInvalidPayload = errors.New("translate: payload must be a string or an object")

	// ErrInvalidFields indicates an explicit fields value that is not an
	// object, with no flat keys to fall back on.
	ErrInvalidFields = errors.New("translate: fields must be an object")

	// ErrNoFields indicates every candidate field was null or of an
	// unsupported shape. A point without fields is not submittable.
	ErrNoFields = errors.New("translate: point has no fields")
)
