package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/mjscene/internal/compiler"
	"github.com/roach88/mjscene/internal/ir"
)

// LoadMode controls how errors are handled during scene loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedScene is one scene file after loading: the decoded spec plus
// whatever validation findings the load produced. Spec is nil only
// when the file could not be decoded at all.
type LoadedScene struct {
	Path     string
	Spec     *ir.SceneSpec
	Findings []compiler.ValidationError
}

// Valid reports whether the scene loaded cleanly.
func (s *LoadedScene) Valid() bool {
	return s.Spec != nil && len(s.Findings) == 0
}

// LoadError represents an error that occurred during scene loading.
type LoadError struct {
	Code    string
	Path    string // offending file, empty for path-level errors
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadScenes loads scene specs from a single file or from every scene
// file under a directory.
// If mode is LoadModeFailFast, returns on the first scene with findings.
// If mode is LoadModeCollectAll, loads every file and collects all errors.
//
// When the path itself is unusable (missing, unscannable, or a directory
// with no scene files) the scene list is nil and the error slice holds
// exactly one LoadError with an empty Path.
func LoadScenes(path string, mode LoadMode) ([]LoadedScene, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scene path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing scene path: %v", err)}}
	}

	var files []string
	if info.IsDir() {
		files, err = FindSceneFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(files) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no scene files found in %s", path)}}
		}
	} else {
		files = []string{path}
	}

	var scenes []LoadedScene
	var errs []error
	for _, file := range files {
		spec, findings, loadErr := compiler.LoadScene(file)
		if loadErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeLoadFailed, Path: file, Message: loadErr.Error()})
			if mode == LoadModeFailFast {
				return scenes, errs
			}
			continue
		}
		scenes = append(scenes, LoadedScene{Path: file, Spec: spec, Findings: findings})
		if mode == LoadModeFailFast && len(findings) > 0 {
			return scenes, errs
		}
	}
	return scenes, errs
}

// FindSceneFiles walks the directory and returns all scene file paths
// in lexical order.
func FindSceneFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSceneFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// isSceneFile reports whether path has a recognized scene extension.
func isSceneFile(path string) bool {
	switch filepath.Ext(path) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scene files found
	ErrCodeLoadFailed  = "E004" // Scene read or decode failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Document build failed
	ErrCodeWriteFailed = "E007" // File write error
)
