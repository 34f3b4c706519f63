package api

import "errors"

var (
	// ErrUnknownFlow is returned when an operation references a flow that
	// has not been registered.
	ErrUnknownFlow = errors.New("unknown flow")

	// ErrUnknownItem is returned when an operation references an item that
	// has not been registered.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownTarget is returned by SignalUsed when the target was never
	// registered by any item. This indicates a wiring bug in the host app
	// and is deliberately loud rather than a silent no-op.
	ErrUnknownTarget = errors.New("unknown target")
)
