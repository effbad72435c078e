package rating

import "errors"

// ErrInvalidArgument is the single error kind raised by the rating engine.
// Every validation failure wraps it so callers can match with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
