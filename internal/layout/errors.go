package layout

import (
	"errors"
	"fmt"
)

// ErrCodeUnsatisfied identifies a placement constraint the strict
// engine could not satisfy.
const ErrCodeUnsatisfied = "LAYOUT_UNSATISFIED"

// LayoutError reports a strict-mode expansion failure.
type LayoutError struct {
	Code      string
	Kind      string
	Requested int
	Achieved  int
}

// NewLayoutError builds a LayoutError for the given layout kind.
func NewLayoutError(kind string, requested, achieved int) *LayoutError {
	return &LayoutError{
		Code:      ErrCodeUnsatisfied,
		Kind:      kind,
		Requested: requested,
		Achieved:  achieved,
	}
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s layout unsatisfied: placed %d of %d instances within the separation constraint",
		e.Kind, e.Achieved, e.Requested)
}

// IsLayoutError reports whether err is (or wraps) a LayoutError.
func IsLayoutError(err error) bool {
	var le *LayoutError
	return errors.As(err, &le)
}
