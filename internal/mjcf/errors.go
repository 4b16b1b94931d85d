package mjcf

import (
	"errors"
	"fmt"
)

// ErrCodeBuild identifies an aborted document build in structured
// output.
const ErrCodeBuild = "DOCUMENT_BUILD_FAILED"

// BuildError aborts a compile. There is never a partial document: the
// first unresolved asset, broken fragment, or name collision fails the
// whole build.
type BuildError struct {
	Code    string
	AssetID string
	Err     error
}

// NewBuildError wraps a failure attributed to one asset; assetID may
// be empty when no single asset is at fault.
func NewBuildError(assetID string, err error) *BuildError {
	return &BuildError{Code: ErrCodeBuild, AssetID: assetID, Err: err}
}

func (e *BuildError) Error() string {
	if e.AssetID == "" {
		return fmt.Sprintf("document build failed: %v", e.Err)
	}
	return fmt.Sprintf("document build failed for asset '%s': %v", e.AssetID, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// IsBuildError reports whether err is (or wraps) a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}
