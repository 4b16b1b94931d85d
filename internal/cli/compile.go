package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/ir"
	"github.com/roach88/mjscene/internal/mjcf"
	"github.com/roach88/mjscene/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Assets string // asset repository root
	Seed   int64  // layout seed
	Output string // output file or directory
	Record string // provenance database path
}

// CompiledScene summarizes one compiled scene.
type CompiledScene struct {
	Scene        string `json:"scene"`
	Path         string `json:"path"`
	Seed         int64  `json:"seed"`
	SpecHash     string `json:"spec_hash"`
	DocumentHash string `json:"document_hash"`
	Instances    int    `json:"instances"`
	Assets       int    `json:"assets"`
	Output       string `json:"output,omitempty"`
	RunID        string `json:"run_id,omitempty"`
	Document     string `json:"document,omitempty"` // set only when no output file was written
}

// CompileReport holds the results for every compiled scene.
type CompileReport struct {
	Scenes []CompiledScene `json:"scenes"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <scene-file-or-dir>",
		Short: "Compile scene specs to MuJoCo XML",
		Long: `Compile declarative scene specs into MuJoCo XML documents.

The compiler validates each scene against the schema and the asset
repository, expands layouts with the given seed, and assembles the
final document. The same spec, repository, and seed always produce
byte-identical output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Assets, "assets", "a", "", "asset repository root (required)")
	_ = cmd.MarkFlagRequired("assets")
	cmd.Flags().Int64VarP(&opts.Seed, "seed", "s", 42, "seed for layout expansion")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file, or directory for multi-scene input (default: stdout)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "record compile runs to this SQLite database")

	return cmd
}

func runCompile(opts *CompileOptions, scenePath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.New(opts.Assets)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading asset repository: %v", err))
	}
	formatter.VerboseLog("Indexed %d asset(s) under %s", cat.Len(), opts.Assets)

	// Use shared loader with collect-all mode
	scenes, loadErrors := LoadScenes(scenePath, LoadModeCollectAll)

	// Handle load errors (path not found, no files, unreadable file)
	if len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Loaded %d scene file(s) from %s", len(scenes), scenePath)

	// Schema findings plus asset reference checks, across all scenes
	if findings := collectFindings(scenes, cat); len(findings) > 0 {
		return outputValidationErrors(formatter, findings)
	}

	multi := len(scenes) > 1
	if multi && opts.Output == "" {
		return outputCommandError(formatter, ErrCodeGeneric, "multiple scenes require --output to name a directory")
	}
	outDir := false
	if opts.Output != "" {
		if multi {
			if err := os.MkdirAll(opts.Output, 0o755); err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("creating output directory: %v", err))
			}
			outDir = true
		} else if info, statErr := os.Stat(opts.Output); statErr == nil && info.IsDir() {
			outDir = true
		}
	}

	var st *store.Store
	if opts.Record != "" {
		st, err = store.Open(opts.Record)
		if err != nil {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("opening run database: %v", err))
		}
		defer st.Close()
	}

	report := CompileReport{Scenes: make([]CompiledScene, 0, len(scenes))}
	for _, scene := range scenes {
		formatter.VerboseLog("Compiling scene: %s", scene.Spec.Name)

		doc, stats, err := mjcf.CompileWithStats(scene.Spec, cat, opts.Seed)
		if err != nil {
			return outputBuildError(formatter, scene.Path, err)
		}

		entry := CompiledScene{
			Scene:        scene.Spec.Name,
			Path:         scene.Path,
			Seed:         opts.Seed,
			SpecHash:     ir.MustSpecHash(scene.Spec),
			DocumentHash: ir.DocumentHash(doc),
			Instances:    stats.InstanceCount,
			Assets:       stats.AssetCount,
		}

		if st != nil {
			run, err := store.NewRun(scene.Spec, opts.Seed, doc, stats)
			if err != nil {
				return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("recording run: %v", err))
			}
			if err := st.WriteRun(context.Background(), run); err != nil {
				return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("recording run: %v", err))
			}
			entry.RunID = run.ID
			formatter.VerboseLog("Recorded run %s", run.ID)
		}

		if opts.Output == "" {
			entry.Document = string(doc)
		} else {
			target := opts.Output
			if outDir {
				base := strings.TrimSuffix(filepath.Base(scene.Path), filepath.Ext(scene.Path))
				target = filepath.Join(opts.Output, base+".xml")
			}
			if err := os.WriteFile(target, doc, 0o644); err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", target, err))
			}
			entry.Output = target
		}
		report.Scenes = append(report.Scenes, entry)
	}

	return outputCompileSuccess(formatter, report)
}

// outputLoadError emits a loader failure as a command-level error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		if loadErr.Path != "" {
			msg = fmt.Sprintf("%s: %s", loadErr.Path, loadErr.Message)
		}
		return outputCommandError(formatter, loadErr.Code, msg)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}

// outputBuildError emits a document build failure. Build failures are
// content failures (exit code 1): the command was usable, the scene
// was not.
func outputBuildError(formatter *OutputFormatter, scenePath string, err error) error {
	var details interface{}
	var buildErr *mjcf.BuildError
	if errors.As(err, &buildErr) && buildErr.AssetID != "" {
		details = map[string]string{"asset_id": buildErr.AssetID}
	}
	_ = formatter.Error(ErrCodeBuildFailed, fmt.Sprintf("%s: %v", scenePath, err), details)
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %v", ErrCodeBuildFailed, err))
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, report CompileReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	// Single scene to stdout: the document itself is the output.
	if len(report.Scenes) == 1 && report.Scenes[0].Output == "" {
		fmt.Fprint(formatter.Writer, report.Scenes[0].Document)
		return nil
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d scene(s)\n\n", len(report.Scenes))
	for _, s := range report.Scenes {
		fmt.Fprintf(formatter.Writer, "  %s: %d instance(s), %d asset(s), seed %d\n", s.Scene, s.Instances, s.Assets, s.Seed)
		if s.Output != "" {
			fmt.Fprintf(formatter.Writer, "    wrote %s\n", s.Output)
		}
		if s.RunID != "" {
			fmt.Fprintf(formatter.Writer, "    recorded run %s\n", s.RunID)
		}
	}
	return nil
}
