package pdf

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the builder.
var (
	// ErrInvalidState is wrapped by every [*StateError].
	ErrInvalidState = errors.New("pdf: invalid builder state")

	// ErrInvalidArgument reports a rejected parameter such as a negative
	// margin, a non-positive font size or an undecodable image.
	ErrInvalidArgument = errors.New("pdf: invalid argument")

	// ErrNoPages is returned when a document without pages is finalized.
	ErrNoPages = errors.New("pdf: document has no pages")

	// ErrEngine wraps failures of the rendering engine.
	ErrEngine = errors.New("pdf: rendering engine failure")
)

// StateError reports a call that is not allowed in the builder's current
// state, for example adding a cell while no table is open.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("pdf: %s not allowed in state %s", e.Op, e.State)
}

// Unwrap makes errors.Is(err, ErrInvalidState) hold.
func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// positive reports whether x is a finite number above zero. NaN fails.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// nonNegative reports whether x is a finite number of at least zero.
func nonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
