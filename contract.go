package goom

import (
	"errors"
	"fmt"
)

// ErrContractViolation is matched by every *ContractError.
var ErrContractViolation = errors.New("goom: contract violation")

// ErrNilZoomFunction is returned when a Producer is created without a zoom
// point function.
var ErrNilZoomFunction = errors.New("goom: nil zoom point function")

// ErrInvalidDimensions is returned when a screen dimension is not positive.
var ErrInvalidDimensions = errors.New("goom: invalid screen dimensions")

// ContractError is the panic value raised when a Producer or Coordinator
// operation is called in a state where it is not legal. These are
// programming errors, not runtime failures.
type ContractError struct {
	// Op is the operation that was called.
	Op string
	// State is the buffer state at the time of the call.
	State BufferState
	// Reason describes the violated precondition.
	Reason string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("goom: %s in state %s: %s", e.Op, e.State, e.Reason)
}

// Is reports whether target is ErrContractViolation.
func (e *ContractError) Is(target error) bool {
	return target == ErrContractViolation
}

// violate logs and panics with a *ContractError.
func violate(op string, state BufferState, reason string) {
	err := &ContractError{Op: op, State: state, Reason: reason}
	Logger().Error("contract violation", "op", op, "state", state, "reason", reason)
	panic(err)
}
