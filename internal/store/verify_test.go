package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/mjcf"
	"github.com/roach88/mjscene/internal/testutil"
)

func TestVerifyRun_Match(t *testing.T) {
	s := newTestStore(t)
	spec, cat, doc, stats := compileFixture(t, 7)
	ctx := context.Background()

	run, err := NewRun(spec, 7, doc, stats)
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	v, err := s.VerifyRun(ctx, run.ID, spec, cat)
	if err != nil {
		t.Fatalf("VerifyRun() failed: %v", err)
	}
	if !v.Match {
		t.Errorf("expected match, got mismatches: %v", v.Mismatches)
	}
	if v.RunID != run.ID {
		t.Errorf("run id = %s, expected %s", v.RunID, run.ID)
	}
	if v.GotSpecHash != v.WantSpecHash || v.GotDocumentHash != v.WantDocumentHash {
		t.Error("matching verification reports differing hashes")
	}
}

func TestVerifyRun_DetectsSpecChange(t *testing.T) {
	s := newTestStore(t)
	spec, cat, doc, stats := compileFixture(t, 7)
	ctx := context.Background()

	run, err := NewRun(spec, 7, doc, stats)
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	// The description feeds the spec hash but not the document, so
	// exactly the spec side should mismatch.
	spec.Description = "edited after recording"

	v, err := s.VerifyRun(ctx, run.ID, spec, cat)
	if err != nil {
		t.Fatalf("VerifyRun() failed: %v", err)
	}
	if v.Match {
		t.Fatal("expected mismatch after spec edit")
	}
	if len(v.Mismatches) != 1 || !strings.Contains(v.Mismatches[0], "spec hash changed") {
		t.Errorf("unexpected mismatches: %v", v.Mismatches)
	}
	if v.GotDocumentHash != v.WantDocumentHash {
		t.Error("document hash should be unaffected by a description edit")
	}
}

func TestVerifyRun_DetectsAssetChange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := testutil.WriteAssetTree(t,
		testutil.AssetFixture{ID: "ground", Category: "environment"},
		testutil.AssetFixture{ID: "crate"},
	)
	cat, err := catalog.New(root)
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}
	spec := testutil.Scene(t, runScene)

	doc, stats, err := mjcf.CompileWithStats(spec, cat, 7)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	run, err := NewRun(spec, 7, doc, stats)
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	if err := s.WriteRun(ctx, run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	// Change the crate fragment on disk. The spec is untouched, so
	// only the document hash should drift.
	altered := strings.ReplaceAll(testutil.MinimalFragment("crate"), "0.1 0.1 0.1", "0.3 0.3 0.3")
	if err := os.WriteFile(filepath.Join(root, "crate", "model.xml"), []byte(altered), 0o644); err != nil {
		t.Fatalf("rewrite fragment: %v", err)
	}

	v, err := s.VerifyRun(ctx, run.ID, spec, cat)
	if err != nil {
		t.Fatalf("VerifyRun() failed: %v", err)
	}
	if v.Match {
		t.Fatal("expected mismatch after fragment edit")
	}
	if len(v.Mismatches) != 1 || !strings.Contains(v.Mismatches[0], "document hash changed") {
		t.Errorf("unexpected mismatches: %v", v.Mismatches)
	}
	if v.GotSpecHash != v.WantSpecHash {
		t.Error("spec hash should be unaffected by a fragment edit")
	}
}

func TestVerifyRun_UnknownRun(t *testing.T) {
	s := newTestStore(t)
	spec, cat, _, _ := compileFixture(t, 7)

	_, err := s.VerifyRun(context.Background(), "missing-id", spec, cat)
	if err == nil {
		t.Fatal("expected error for unknown run id")
	}
}
