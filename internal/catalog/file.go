// Package catalog reads the YAML catalog file used to seed a fresh
// installation and to run recommendations without a database.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"treatment-backend/internal/workinstructions"
)

// File is the decoded catalog document.
type File struct {
	SteelTypes       []SteelTypeEntry       `yaml:"steelTypes"`
	WorkInstructions []WorkInstructionEntry `yaml:"workInstructions"`
}

// SteelTypeEntry is one steel grade in the file.
type SteelTypeEntry struct {
	Code        string         `yaml:"code"`
	Name        string         `yaml:"name"`
	Category    string         `yaml:"category"`
	Composition map[string]any `yaml:"composition"`
	Properties  map[string]any `yaml:"properties"`
}

// RangeEntry is a [min,max] pair. Either bound may be omitted, which leaves the range undefined.
type RangeEntry struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

func (r *RangeEntry) toRange() *workinstructions.Range {
	if r == nil {
		return nil
	}
	return workinstructions.NewRange(r.Min, r.Max)
}

// WorkInstructionEntry is one procedure in the file. Active defaults to true.
type WorkInstructionEntry struct {
	ITCode           string      `yaml:"itCode"`
	Title            string      `yaml:"title"`
	Description      string      `yaml:"description"`
	TreatmentType    string      `yaml:"treatmentType"`
	CoolingMethod    string      `yaml:"coolingMethod"`
	SpecialNotes     string      `yaml:"specialNotes"`
	Version          string      `yaml:"version"`
	ApplicableSteels []string    `yaml:"applicableSteels"`
	Temperature      *RangeEntry `yaml:"temperature"`
	Duration         *RangeEntry `yaml:"duration"`
	HardnessInput    *RangeEntry `yaml:"hardnessInput"`
	HardnessOutput   *RangeEntry `yaml:"hardnessOutput"`
	Active           *bool       `yaml:"active"`
}

// Input converts the entry to the admin service input.
func (e WorkInstructionEntry) Input() workinstructions.Input {
	return workinstructions.Input{
		ITCode:           e.ITCode,
		Title:            e.Title,
		Description:      e.Description,
		TreatmentType:    e.TreatmentType,
		CoolingMethod:    e.CoolingMethod,
		SpecialNotes:     e.SpecialNotes,
		Version:          e.Version,
		ApplicableSteels: e.ApplicableSteels,
		Temperature:      e.Temperature.toRange(),
		Duration:         e.Duration.toRange(),
		HardnessInput:    e.HardnessInput.toRange(),
		HardnessOutput:   e.HardnessOutput.toRange(),
		Active:           e.Active,
	}
}

// WorkInstruction converts the entry to a candidate. The IT code doubles as the ID.
func (e WorkInstructionEntry) WorkInstruction() workinstructions.WorkInstruction {
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	code := strings.TrimSpace(e.ITCode)
	return workinstructions.WorkInstruction{
		ID:               code,
		ITCode:           code,
		Title:            strings.TrimSpace(e.Title),
		Description:      e.Description,
		TreatmentType:    strings.TrimSpace(e.TreatmentType),
		CoolingMethod:    strings.TrimSpace(e.CoolingMethod),
		SpecialNotes:     e.SpecialNotes,
		Version:          e.Version,
		ApplicableSteels: append([]string(nil), e.ApplicableSteels...),
		Temperature:      e.Temperature.toRange(),
		Duration:         e.Duration.toRange(),
		HardnessInput:    e.HardnessInput.toRange(),
		HardnessOutput:   e.HardnessOutput.toRange(),
		Active:           active,
	}
}

// Parse decodes and checks a catalog document.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decode catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(f.WorkInstructions))
	for i, e := range f.WorkInstructions {
		code := strings.TrimSpace(e.ITCode)
		if code == "" {
			return File{}, fmt.Errorf("work instruction %d: itCode is required", i)
		}
		if _, dup := seen[code]; dup {
			return File{}, fmt.Errorf("work instruction %s: duplicate itCode", code)
		}
		if err := workinstructions.ValidateRanges(e.Input()); err != nil {
			return File{}, fmt.Errorf("work instruction %s: %w", code, err)
		}
		seen[code] = struct{}{}
	}
	for i, s := range f.SteelTypes {
		if strings.TrimSpace(s.Code) == "" {
			return File{}, fmt.Errorf("steel type %d: code is required", i)
		}
	}
	return f, nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// FileSource serves active candidates straight from a catalog file.
// The file is read on every call so edits are visible to the next query.
type FileSource struct {
	Path string
}

// FetchActive returns the active work instructions in the file.
func (s FileSource) FetchActive(ctx context.Context) ([]workinstructions.WorkInstruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := LoadFile(s.Path)
	if err != nil {
		return nil, err
	}
	out := make([]workinstructions.WorkInstruction, 0, len(f.WorkInstructions))
	for _, e := range f.WorkInstructions {
		wi := e.WorkInstruction()
		if wi.Active {
			out = append(out, wi)
		}
	}
	return out, nil
}
