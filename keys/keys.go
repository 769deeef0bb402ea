// Package keys turns the caller's input values into stable cache keys.
//
// The cache never sees the raw inputs; it stores and compares only the derived
// string key. Everything about "are these two calls the same call?" is decided
// here.
package keys

// Deriver maps an ordered sequence of input values to a deterministic string
// key. Equal sequences must produce equal keys; distinct sequences should
// produce distinct keys with overwhelming probability.
type Deriver interface {
	Derive(inputs []any) (string, error)
}

/*
DerivationError reports inputs that cannot be turned into a stable key:
functions, channels, values with reference cycles, and similar. The cache
treats this as a caller error and refuses the lookup rather than guessing at a
key that might collide.
*/
type DerivationError struct {
	Err error
}

func (e *DerivationError) Error() string {
	return "keys: cannot derive cache key: " + e.Err.Error()
}

func (e *DerivationError) Unwrap() error { return e.Err }
