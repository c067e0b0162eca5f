package paper

import "errors"

var (
	// ErrUnknownSymbol is returned when a ticker is not in the symbol directory
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrNoPrice is returned when no usable price exists for an order
	ErrNoPrice = errors.New("no price available")
)
