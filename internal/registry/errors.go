package registry

import (
	"errors"
	"fmt"

	"github.com/vk/tagscript/internal/value"
)

var (
	// ErrAlreadyRegistered means the type is registered with an equal,
	// greater, or incomparable capability set.
	ErrAlreadyRegistered = errors.New("type already registered")
	// ErrMissingHandler means a function or dispatch table required by the
	// requested capability was not supplied.
	ErrMissingHandler = errors.New("missing handler")
	// ErrUnknownType is returned by queries for unregistered types.
	ErrUnknownType = errors.New("unknown type")
)

// RegistrationError describes a rejected registration.
type RegistrationError struct {
	TypeID value.TypeID
	Have   Capability
	Want   Capability
	Detail string
	Err    error
}

func (e *RegistrationError) Error() string {
	if errors.Is(e.Err, ErrAlreadyRegistered) {
		return fmt.Sprintf("cannot register %q as %s: %v as %s", e.TypeID, e.Want, e.Err, e.Have)
	}
	return fmt.Sprintf("cannot register %q as %s: %v: %s", e.TypeID, e.Want, e.Err, e.Detail)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
