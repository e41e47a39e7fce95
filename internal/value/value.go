// Package value defines the contract every runtime value of the engine
// satisfies. Concrete types live elsewhere; the dispatch engines and the type
// registry only ever see this contract.
package value

// TypeID identifies a registered runtime type, e.g. "text" or "integer".
type TypeID string

// Value is a runtime value that can flow through an attribute chain.
type Value interface {
	// TypeID reports the registered type of the value. Dispatch tables are
	// looked up by this identifier.
	TypeID() TypeID

	// String returns the human-readable form.
	String() string

	// Clone returns a full, independent copy. Cloning processors mutate
	// the copy freely, so no state may be shared with the receiver.
	Clone() Value
}

// Simplifier is implemented by values that have a shorter display form
// than String.
type Simplifier interface {
	SimpleString() string
}

// Downgrader is implemented by values that can present themselves as a less
// specific type. The engine consults it once per failed lookup.
type Downgrader interface {
	AsGeneral() (Value, bool)
}

// SimpleString returns v's simplified form, defaulting to String.
func SimpleString(v Value) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(Simplifier); ok {
		return s.SimpleString()
	}
	return v.String()
}

// Downgrade returns the less specific representation of v, if any.
func Downgrade(v Value) (Value, bool) {
	d, ok := v.(Downgrader)
	if !ok {
		return nil, false
	}
	general, ok := d.AsGeneral()
	if !ok || general == nil {
		return nil, false
	}
	return general, true
}
