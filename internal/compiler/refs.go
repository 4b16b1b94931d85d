package compiler

import (
	"fmt"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/ir"
)

// ValidateAssetRefs resolves every asset id the spec references
// against the catalog: the environment, each object, and each camera
// that names a sensor asset. Returns all misses, each carrying the
// catalog's suggestion text.
func ValidateAssetRefs(spec *ir.SceneSpec, cat *catalog.Catalog) []ValidationError {
	var errs []ValidationError
	check := func(field, id string) {
		if id == "" {
			return
		}
		if _, err := cat.Resolve(id); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: err.Error(),
				Code:    ErrUnresolvedAsset,
			})
		}
	}

	check("environment.asset_id", spec.Environment.AssetID)
	for i, obj := range spec.Objects {
		check(fmt.Sprintf("objects[%d].asset_id", i), obj.AssetID)
	}
	for i, cam := range spec.Cameras {
		check(fmt.Sprintf("cameras[%d].asset_id", i), cam.AssetID)
	}
	return errs
}
