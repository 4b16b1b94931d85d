package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCodeNotFound identifies a failed exact-id lookup in structured
// output.
const ErrCodeNotFound = "ASSET_NOT_FOUND"

// NotFoundError reports a failed exact-id lookup together with repair
// hints.
type NotFoundError struct {
	Code        string
	AssetID     string
	Category    string
	Suggestions []string
}

// NewNotFoundError builds a NotFoundError. Suggestions are kept in the
// order given.
func NewNotFoundError(assetID, category string, suggestions []string) *NotFoundError {
	return &NotFoundError{
		Code:        ErrCodeNotFound,
		AssetID:     assetID,
		Category:    category,
		Suggestions: suggestions,
	}
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Asset not found: '%s'", e.AssetID)
	if e.Category != "" {
		fmt.Fprintf(&b, " in category '%s'", e.Category)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, ". Did you mean: %s?", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// IsNotFound reports whether err is (or wraps) a catalog NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
