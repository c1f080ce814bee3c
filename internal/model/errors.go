package model

import (
	"errors"
	"fmt"

	"github.com/born-ml/wordgen/internal/optim"
)

var (
	// ErrMissingGradient is returned when a parameter received no gradient
	// from the latest loss. It indicates a broken forward pass.
	ErrMissingGradient = optim.ErrMissingGradient

	// ErrNoData is returned by Train before any dataset was loaded.
	ErrNoData = errors.New("no training data loaded")

	// ErrInvalidHyperparameters is returned by New for unusable hyperparameters.
	ErrInvalidHyperparameters = errors.New("invalid hyperparameters")

	// ErrInvalidArgument is returned for negative counts or non-positive iterations.
	ErrInvalidArgument = errors.New("invalid argument")
)

// recoverError converts a panic raised by the tensor backend into *err.
// Backends panic on shape and dtype violations.
func recoverError(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = fmt.Errorf("tensor backend: %w", e)
			return
		}
		*err = fmt.Errorf("tensor backend: %v", r)
	}
}
