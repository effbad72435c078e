package models

import (
	"github.com/erdostom/openskill/internal/domain/rating"
)

// ErrInvalidArgument is the single error kind raised by this package.
// It aliases the rating package's sentinel so errors.Is matches across
// the whole engine surface.
var ErrInvalidArgument = rating.ErrInvalidArgument
