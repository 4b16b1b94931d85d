package store

import (
	"context"
	"fmt"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/ir"
	"github.com/roach88/mjscene/internal/mjcf"
)

// Verification is the outcome of replaying a recorded run against the
// current scene and asset repository.
type Verification struct {
	RunID            string   `json:"run_id"`
	Match            bool     `json:"match"`
	WantSpecHash     string   `json:"want_spec_hash"`
	GotSpecHash      string   `json:"got_spec_hash"`
	WantDocumentHash string   `json:"want_document_hash"`
	GotDocumentHash  string   `json:"got_document_hash"`
	Mismatches       []string `json:"mismatches,omitempty"`
}

// VerifyRun recompiles the scene with the recorded seed and compares
// spec and document hashes against the stored run. A changed scene
// file, changed asset fragments, or a compiler behavior change all
// surface as hash mismatches.
func (s *Store) VerifyRun(ctx context.Context, id string, spec *ir.SceneSpec, cat *catalog.Catalog) (*Verification, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	gotSpecHash, err := ir.SpecHash(spec)
	if err != nil {
		return nil, fmt.Errorf("verify run: %w", err)
	}

	doc, err := mjcf.Compile(spec, cat, run.Seed)
	if err != nil {
		return nil, fmt.Errorf("verify run: recompile: %w", err)
	}
	gotDocHash := ir.DocumentHash(doc)

	v := &Verification{
		RunID:            run.ID,
		WantSpecHash:     run.SpecHash,
		GotSpecHash:      gotSpecHash,
		WantDocumentHash: run.DocumentHash,
		GotDocumentHash:  gotDocHash,
	}
	if gotSpecHash != run.SpecHash {
		v.Mismatches = append(v.Mismatches,
			fmt.Sprintf("spec hash changed: recorded %s, current %s", shorten(run.SpecHash), shorten(gotSpecHash)))
	}
	if gotDocHash != run.DocumentHash {
		v.Mismatches = append(v.Mismatches,
			fmt.Sprintf("document hash changed: recorded %s, current %s", shorten(run.DocumentHash), shorten(gotDocHash)))
	}
	if run.IRVersion != ir.Version {
		v.Mismatches = append(v.Mismatches,
			fmt.Sprintf("ir version changed: recorded %s, current %s", run.IRVersion, ir.Version))
	}
	v.Match = len(v.Mismatches) == 0
	return v, nil
}

// shorten truncates a hash for human-readable mismatch messages.
func shorten(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
