package heap

import "github.com/pkg/errors"

// ErrInvalidSize is returned when a heap is asked for a block of zero or negative size, or for
// a block larger than a fixed-size heap can provide
var ErrInvalidSize error = errors.New("invalid allocation size")
