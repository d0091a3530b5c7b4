package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"treatment-backend/internal/recommendations"
	"treatment-backend/internal/recommendations/engine"
	"treatment-backend/internal/steeltypes"
	"treatment-backend/internal/workinstructions"
)

func TestLoadFile(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "catalog.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(f.SteelTypes) != 2 || len(f.WorkInstructions) != 3 {
		t.Fatalf("unexpected counts %d/%d", len(f.SteelTypes), len(f.WorkInstructions))
	}

	wi := f.WorkInstructions[0].WorkInstruction()
	if wi.Temperature == nil || wi.Temperature.Min != 840 || wi.Duration == nil || wi.Duration.Max != 60 {
		t.Fatalf("unexpected ranges %+v %+v", wi.Temperature, wi.Duration)
	}
	if !wi.Active {
		t.Fatalf("expected active to default to true")
	}

	partial := f.WorkInstructions[1].WorkInstruction()
	if partial.HardnessOutput != nil {
		t.Fatalf("range with only min must be undefined, got %+v", partial.HardnessOutput)
	}
	if f.WorkInstructions[2].WorkInstruction().Active {
		t.Fatalf("expected explicit active=false to be kept")
	}
}

func TestParseRejectsDuplicateITCode(t *testing.T) {
	doc := []byte("workInstructions:\n  - itCode: IT-1\n    title: a\n  - itCode: IT-1\n    title: b\n")
	if _, err := Parse(doc); err == nil {
		t.Fatalf("expected duplicate itCode error")
	}
	if _, err := Parse([]byte("workInstructions:\n  - title: no code\n")); err == nil {
		t.Fatalf("expected missing itCode error")
	}
}

func TestParseRejectsInvertedRanges(t *testing.T) {
	for _, field := range []string{"temperature", "duration", "hardnessInput", "hardnessOutput"} {
		doc := []byte("workInstructions:\n  - itCode: IT-9\n    title: a\n    " + field + ": {min: 60, max: 50}\n")
		_, err := Parse(doc)
		if !errors.Is(err, workinstructions.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", field, err)
		}
		if !strings.Contains(err.Error(), "IT-9") || !strings.Contains(err.Error(), field) {
			t.Fatalf("%s: error should name the IT and field, got %q", field, err)
		}
	}
	if _, err := Parse([]byte("workInstructions:\n  - itCode: IT-9\n    title: a\n    hardnessOutput: {min: 55, max: 55}\n")); err != nil {
		t.Fatalf("single-point range must be accepted: %v", err)
	}
}

func TestFileSourceInvertedRangeSurfacesAsRepositoryError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "workInstructions:\n  - itCode: IT-1\n    title: a\n    treatmentType: Quenching\n    applicableSteels: [\"AISI 4140\"]\n    hardnessOutput: {min: 58, max: 50}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := FileSource{Path: path}
	if _, err := src.FetchActive(context.Background()); err == nil {
		t.Fatalf("expected FetchActive to fail")
	}

	svc := &recommendations.Service{Candidates: src}
	_, err := svc.Recommend(context.Background(), engine.Request{SteelCode: "AISI 4140"})
	if !errors.Is(err, recommendations.ErrRepository) {
		t.Fatalf("expected ErrRepository, got %v", err)
	}
}

func TestFileSourceRereadsOnEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	write := func(doc string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("workInstructions:\n  - itCode: IT-1\n    title: a\n    treatmentType: Quenching\n    applicableSteels: [\"AISI 4140\"]\n")

	src := FileSource{Path: path}
	items, err := src.FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	write("workInstructions:\n  - itCode: IT-1\n    title: a\n    treatmentType: Quenching\n    active: false\n")
	items, err = src.FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected deactivation to be visible, got %d items", len(items))
	}

	if _, err := (FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}).FetchActive(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileSourceFeedsEngine(t *testing.T) {
	items, err := FileSource{Path: filepath.Join("testdata", "catalog.yaml")}.FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive: %v", err)
	}
	f := func(v float64) *float64 { return &v }
	results := engine.Recommend(engine.Request{SteelCode: "aisi 4140", InputHardness: f(20), DesiredHardness: f(55)}, items)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].WorkInstruction.ITCode != "IT-001" || results[0].ConfidenceScore != 100 {
		t.Fatalf("unexpected top result %+v", results[0])
	}
	if results[1].ConfidenceScore != 20 {
		t.Fatalf("expected partial steel match for IT-002, got %d", results[1].ConfidenceScore)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "catalog.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	steels := &steeltypes.Service{Repo: steeltypes.NewMemoryRepo()}
	wiRepo := workinstructions.NewMemoryRepo()
	instructions := workinstructions.NewService(wiRepo, nil)

	sum, err := Seed(context.Background(), f, steels, instructions)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if sum.SteelTypesCreated != 2 || sum.WorkInstructionsCreated != 3 || sum.Skipped != 0 {
		t.Fatalf("unexpected first summary %+v", sum)
	}

	sum, err = Seed(context.Background(), f, steels, instructions)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if sum.Skipped != 5 || sum.WorkInstructionsCreated != 0 {
		t.Fatalf("unexpected second summary %+v", sum)
	}

	active, _ := wiRepo.FetchActive(context.Background())
	if len(active) != 2 {
		t.Fatalf("expected 2 active seeded instructions, got %d", len(active))
	}
}
