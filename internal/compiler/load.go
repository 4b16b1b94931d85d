package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mjscene/internal/ir"
)

// LoadScene reads a scene file (JSON, or YAML by extension), validates
// it, and decodes the typed spec with defaults applied. I/O failures
// come back as the error; content failures come back as the
// validation list with a nil error.
func LoadScene(path string) (*ir.SceneSpec, []ValidationError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read scene: %w", err)
	}
	return LoadSceneBytes(path, data)
}

// LoadSceneBytes is LoadScene over already-read bytes; path picks the
// format by extension.
func LoadSceneBytes(path string, data []byte) (*ir.SceneSpec, []ValidationError, error) {
	jsonData, err := toJSON(path, data)
	if err != nil {
		return nil, []ValidationError{{Field: "scene", Message: err.Error(), Code: ErrSchemaViolation}}, nil
	}
	if errs := ValidateSpec(jsonData); len(errs) > 0 {
		return nil, errs, nil
	}
	spec, err := decodeSpec(jsonData)
	if err != nil {
		return nil, []ValidationError{{Field: "scene", Message: err.Error(), Code: ErrSchemaViolation}}, nil
	}
	return spec, nil, nil
}

// toJSON converts YAML scene files to JSON; JSON passes through
// untouched.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		normalized, err := normalizeYAML(doc)
		if err != nil {
			return nil, err
		}
		out, err := json.Marshal(normalized)
		if err != nil {
			return nil, fmt.Errorf("convert YAML: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// normalizeYAML rewrites the yaml.v3 generic shape into the JSON one.
// yaml.v3 already produces map[string]any for string-keyed maps; a
// non-string key is rejected because JSON has no encoding for it.
func normalizeYAML(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			norm, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[k] = norm
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string mapping key %v", k)
			}
			norm, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[key] = norm
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			norm, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	default:
		return v, nil
	}
}
