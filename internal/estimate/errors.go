package estimate

import "errors"

var (
	ErrNotFound      = errors.New("estimate not found")
	ErrInvalidStatus = errors.New("invalid estimate status")
	// ErrInvalidTransition marks a status change the lifecycle refuses. Every known status may
	// currently follow any other, so SetStatus does not return it yet.
	ErrInvalidTransition    = errors.New("invalid estimate status transition")
	ErrOrderNotMaterialized = errors.New("estimate accepted but order was not created")
	ErrInvalidDecision      = errors.New("invalid customer decision")
	ErrInvalidItem          = errors.New("invalid line item")
)
