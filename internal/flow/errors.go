package flow

import "errors"

var (
	// ErrInvalidInput indicates a non-positive or non-finite pipe parameter.
	ErrInvalidInput = errors.New("flow: invalid input")

	// ErrNoConvergence indicates the Colebrook equation could not be solved.
	ErrNoConvergence = errors.New("flow: colebrook equation did not converge")
)
