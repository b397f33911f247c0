package animator

import (
	"errors"
	"fmt"
)

// ErrDetached is returned when a controller is used after Destroy, or is
// handed to an Animator that does not own it.
var ErrDetached = errors.New("controller is not attached to this animator")

// CapabilityError is returned synchronously by a request for a phase the
// component did not opt into. It never changes scheduler state.
type CapabilityError struct {
	Phase     Phase
	Component string
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("can't request %s: component %s does not implement %s", e.Phase, e.Component, e.Phase)
}

// ComponentError wraps an error returned by a component's phase operation.
// The frame that produced it was aborted; another frame was armed first.
type ComponentError struct {
	// Phase is the phase being dispatched.
	Phase Phase

	// Index is the failing controller's registry position at dispatch time.
	Index int

	// Frame is the frame sequence number.
	Frame int64

	// Component names the failing component.
	Component string

	// Err is the component's error.
	Err error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	return fmt.Sprintf("frame %d: %s of %s (index %d) failed: %v", e.Frame, e.Phase, e.Component, e.Index, e.Err)
}

// Unwrap returns the component's error.
func (e *ComponentError) Unwrap() error {
	return e.Err
}

// RegistrationErrorCode categorizes registration failures.
type RegistrationErrorCode string

const (
	// ErrCodeNilComponent indicates Register was called with a nil component.
	ErrCodeNilComponent RegistrationErrorCode = "NIL_COMPONENT"

	// ErrCodeUndeclaredCapability indicates a Declarer lists a phase it does not implement.
	ErrCodeUndeclaredCapability RegistrationErrorCode = "UNDECLARED_CAPABILITY"
)

// RegistrationError is returned by Register when a component cannot be bound.
type RegistrationError struct {
	Code      RegistrationErrorCode
	Message   string
	Component string
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s: %s (component=%s)", e.Code, e.Message, e.Component)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCapabilityError returns true if err is or wraps a CapabilityError.
func IsCapabilityError(err error) bool {
	var ce *CapabilityError
	return errors.As(err, &ce)
}

// IsComponentError returns true if err is or wraps a ComponentError.
func IsComponentError(err error) bool {
	var ce *ComponentError
	return errors.As(err, &ce)
}

// IsRegistrationError returns true if err is or wraps a RegistrationError.
func IsRegistrationError(err error) bool {
	var re *RegistrationError
	return errors.As(err, &re)
}
