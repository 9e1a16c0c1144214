package relay

import "errors"

// ErrSubmission indicates a translated message reached the store but the
// write failed. The store handle is released on this error so the next
// message reconnects from scratch.
var ErrSubmission = errors.New("relay: store submission failed")
