// Package compiler validates declarative scene files and turns them
// into IR specs ready for document compilation.
//
// Validation is two layered. The embedded CUE schema handles shape:
// closed structs, closed enums, numeric bounds, vector arity. A Go
// pass handles the rules CUE cannot see across fields: placement
// mutual exclusivity, duplicate camera and light names, and asset
// reference resolution. Both layers collect every violation instead of
// stopping at the first.
package compiler

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/mjscene/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// sceneSchema compiles the embedded schema in a fresh context. A
// context is not safe for concurrent use, so each validation builds
// its own.
func sceneSchema(ctx *cue.Context) (cue.Value, error) {
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile scene schema: %w", err)
	}
	schema := v.LookupPath(cue.ParsePath("#SceneSpec"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("lookup #SceneSpec: %w", err)
	}
	return schema, nil
}

// ValidateSpec checks raw scene JSON against the schema and the
// semantic rules. Returns all errors found (does not fail-fast).
func ValidateSpec(data []byte) []ValidationError {
	var errs []ValidationError

	ctx := cuecontext.New()
	schema, err := sceneSchema(ctx)
	if err != nil {
		// A broken embedded schema surfaces as a validation error.
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrSchemaViolation}}
	}

	expr, err := cuejson.Extract("scene.json", data)
	if err != nil {
		return []ValidationError{{Field: "scene", Message: fmt.Sprintf("invalid JSON: %v", err), Code: ErrSchemaViolation}}
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return cueValidationErrors(err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		errs = append(errs, cueValidationErrors(err)...)
	}

	// Semantic pass. Runs even when the schema pass failed, so the
	// caller sees everything at once; skipped only when the JSON does
	// not decode into the IR at all.
	if spec, decodeErr := decodeSpec(data); decodeErr == nil {
		errs = append(errs, validateSemantics(spec)...)
	}
	return errs
}

// cueValidationErrors flattens a CUE error into per-field validation
// errors.
func cueValidationErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "scene"
		}
		format, args := e.Msg()
		out = append(out, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchemaViolation,
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "scene", Message: err.Error(), Code: ErrSchemaViolation})
	}
	return out
}

// decodeSpec unmarshals without validating.
func decodeSpec(data []byte) (*ir.SceneSpec, error) {
	var spec ir.SceneSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// validateSemantics enforces the cross-field rules the schema cannot
// express.
func validateSemantics(spec *ir.SceneSpec) []ValidationError {
	var errs []ValidationError

	for i, obj := range spec.Objects {
		if obj.Layout != nil && obj.Instances != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("objects[%d]", i),
				Message: fmt.Sprintf("object %q: layout and instances are mutually exclusive", obj.AssetID),
				Code:    ErrPlacementConflict,
			})
		}
	}

	seenCameras := make(map[string]bool)
	for i, cam := range spec.Cameras {
		if seenCameras[cam.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("cameras[%d].name", i),
				Message: fmt.Sprintf("duplicate camera name %q", cam.Name),
				Code:    ErrDuplicateName,
			})
		}
		seenCameras[cam.Name] = true
	}

	seenLights := make(map[string]bool)
	for i, light := range spec.Lights {
		if seenLights[light.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("lights[%d].name", i),
				Message: fmt.Sprintf("duplicate light name %q", light.Name),
				Code:    ErrDuplicateName,
			})
		}
		seenLights[light.Name] = true
	}

	return errs
}

// ValidateIR checks a programmatically built spec: the bounds the
// schema would have enforced on a file, plus the semantic rules.
// Returns all errors found.
func ValidateIR(spec *ir.SceneSpec) []ValidationError {
	var errs []ValidationError
	add := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message, Code: ErrSchemaViolation})
	}

	if spec.Name == "" {
		add("name", "name is required")
	}
	if spec.Environment.AssetID == "" {
		add("environment.asset_id", "asset_id is required")
	}

	for i, obj := range spec.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		if obj.AssetID == "" {
			add(field+".asset_id", "asset_id is required")
		}
		switch l := obj.Layout.(type) {
		case nil:
		case *ir.GridLayout:
			if l.Rows < 1 {
				add(field+".layout.rows", fmt.Sprintf("must be >= 1, got %d", l.Rows))
			}
			if l.Cols < 1 {
				add(field+".layout.cols", fmt.Sprintf("must be >= 1, got %d", l.Cols))
			}
			if l.YawVariationDeg < 0 {
				add(field+".layout.yaw_variation_deg", fmt.Sprintf("must be >= 0, got %v", l.YawVariationDeg))
			}
		case *ir.RandomLayout:
			if l.Radius <= 0 {
				add(field+".layout.radius", fmt.Sprintf("must be > 0, got %v", l.Radius))
			}
			if l.Count < 1 {
				add(field+".layout.count", fmt.Sprintf("must be >= 1, got %d", l.Count))
			}
			if l.MinSeparation < 0 {
				add(field+".layout.min_separation", fmt.Sprintf("must be >= 0, got %v", l.MinSeparation))
			}
		}
	}

	for i, cam := range spec.Cameras {
		field := fmt.Sprintf("cameras[%d]", i)
		if cam.Name == "" {
			add(field+".name", "name is required")
		}
		if cam.Fovy < 1 || cam.Fovy > 180 {
			add(field+".fovy", fmt.Sprintf("must be in [1, 180], got %v", cam.Fovy))
		}
	}

	for i, light := range spec.Lights {
		field := fmt.Sprintf("lights[%d]", i)
		if light.Name == "" {
			add(field+".name", "name is required")
		}
		if !light.Type.Valid() {
			add(field+".type", fmt.Sprintf("unknown light type %q", light.Type))
		}
	}

	p := spec.Physics
	if p.Timestep <= 0 || p.Timestep > 0.1 {
		add("physics.timestep", fmt.Sprintf("must be in (0, 0.1], got %v", p.Timestep))
	}
	if !p.Solver.Valid() {
		add("physics.solver", fmt.Sprintf("unknown solver %q", p.Solver))
	}
	if p.Iterations < 1 {
		add("physics.iterations", fmt.Sprintf("must be >= 1, got %d", p.Iterations))
	}
	if !p.Integrator.Valid() {
		add("physics.integrator", fmt.Sprintf("unknown integrator %q", p.Integrator))
	}

	return append(errs, validateSemantics(spec)...)
}
