package workinstructions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"treatment-backend/internal/shared/storage/object"
	"treatment-backend/internal/shared/telemetry"
)

// Input carries the editable fields of a work instruction.
type Input struct {
	ITCode           string
	Title            string
	Description      string
	TreatmentType    string
	CoolingMethod    string
	SpecialNotes     string
	Version          string
	ApplicableSteels []string
	Temperature      *Range
	Duration         *Range
	HardnessInput    *Range
	HardnessOutput   *Range
	// Active defaults to true on create and to the stored value on update.
	Active *bool
}

// Service contains catalog administration logic.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Now   func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store, Now: func() time.Time { return time.Now().UTC() }}
}

// Create validates the input and stores a new work instruction.
func (s *Service) Create(ctx context.Context, in Input) (WorkInstruction, error) {
	if err := validateInput(in); err != nil {
		return WorkInstruction{}, err
	}
	now := s.now()
	wi := apply(WorkInstruction{ID: uuid.NewString(), Active: true, CreatedAt: now}, in)
	wi.UpdatedAt = now
	if err := s.Repo.Create(ctx, wi); err != nil {
		return WorkInstruction{}, err
	}
	return wi, nil
}

// Update replaces the editable fields of an existing work instruction.
func (s *Service) Update(ctx context.Context, id string, in Input) (WorkInstruction, error) {
	if strings.TrimSpace(id) == "" {
		return WorkInstruction{}, ErrInvalidInput
	}
	if err := validateInput(in); err != nil {
		return WorkInstruction{}, err
	}
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return WorkInstruction{}, err
	}
	wi := apply(current, in)
	wi.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, wi); err != nil {
		return WorkInstruction{}, err
	}
	return wi, nil
}

// Get returns one work instruction.
func (s *Service) Get(ctx context.Context, id string) (WorkInstruction, error) {
	if strings.TrimSpace(id) == "" {
		return WorkInstruction{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a filtered page of the catalog.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]WorkInstruction, error) {
	return s.Repo.List(ctx, filter)
}

// SetActive activates or deactivates a work instruction and returns the stored result.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (WorkInstruction, error) {
	if strings.TrimSpace(id) == "" {
		return WorkInstruction{}, ErrInvalidInput
	}
	if err := s.Repo.SetActive(ctx, id, active); err != nil {
		return WorkInstruction{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// UploadAttachment stores the document for a work instruction and records its key.
func (s *Service) UploadAttachment(ctx context.Context, id, fileName string, r io.Reader) (WorkInstruction, error) {
	if s.Store == nil {
		return WorkInstruction{}, errors.New("object store not configured")
	}
	if strings.TrimSpace(fileName) == "" {
		return WorkInstruction{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return WorkInstruction{}, err
	}
	key, _, _, err := s.Store.Save(ctx, id, fileName, r)
	if err != nil {
		return WorkInstruction{}, fmt.Errorf("store attachment: %w", err)
	}
	if err := s.Repo.SetFileKey(ctx, id, key); err != nil {
		s.removeAttachment(ctx, id, key)
		return WorkInstruction{}, err
	}
	if current.FileKey != "" && current.FileKey != key {
		s.removeAttachment(ctx, id, current.FileKey)
	}
	return s.Repo.GetByID(ctx, id)
}

// removeAttachment drops an attachment no row points at. Failures only log;
// the object is orphaned but harmless.
func (s *Service) removeAttachment(ctx context.Context, id, key string) {
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("workinstructions.attachment_delete_failed", map[string]any{
			"work_instruction_id": id,
			"file_key":            key,
			"error":               err.Error(),
		})
	}
}

// OpenAttachment opens the stored document and returns it with its file name.
func (s *Service) OpenAttachment(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if s.Store == nil {
		return nil, "", errors.New("object store not configured")
	}
	wi, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if wi.FileKey == "" {
		return nil, "", ErrNotFound
	}
	rc, err := s.Store.Open(ctx, wi.FileKey)
	if err != nil {
		return nil, "", fmt.Errorf("open attachment: %w", err)
	}
	return rc, attachmentName(wi.FileKey), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func validateInput(in Input) error {
	switch {
	case strings.TrimSpace(in.ITCode) == "":
		return fmt.Errorf("%w: itCode is required", ErrInvalidInput)
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case strings.TrimSpace(in.TreatmentType) == "":
		return fmt.Errorf("%w: treatmentType is required", ErrInvalidInput)
	}
	return ValidateRanges(in)
}

// ValidateRanges rejects any defined range whose min exceeds its max.
func ValidateRanges(in Input) error {
	ranges := []struct {
		name string
		r    *Range
	}{
		{"temperature", in.Temperature},
		{"duration", in.Duration},
		{"hardnessInput", in.HardnessInput},
		{"hardnessOutput", in.HardnessOutput},
	}
	for _, item := range ranges {
		if item.r != nil && item.r.Min > item.r.Max {
			return fmt.Errorf("%w: %s min must not exceed max", ErrInvalidInput, item.name)
		}
	}
	return nil
}

func apply(wi WorkInstruction, in Input) WorkInstruction {
	wi.ITCode = strings.TrimSpace(in.ITCode)
	wi.Title = strings.TrimSpace(in.Title)
	wi.Description = strings.TrimSpace(in.Description)
	wi.TreatmentType = strings.TrimSpace(in.TreatmentType)
	wi.CoolingMethod = strings.TrimSpace(in.CoolingMethod)
	wi.SpecialNotes = strings.TrimSpace(in.SpecialNotes)
	wi.Version = strings.TrimSpace(in.Version)
	wi.ApplicableSteels = normalizeSteels(in.ApplicableSteels)
	wi.Temperature = in.Temperature
	wi.Duration = in.Duration
	wi.HardnessInput = in.HardnessInput
	wi.HardnessOutput = in.HardnessOutput
	if in.Active != nil {
		wi.Active = *in.Active
	}
	return wi
}

// normalizeSteels trims entries and drops blanks and case-insensitive duplicates.
func normalizeSteels(steels []string) []string {
	out := make([]string, 0, len(steels))
	seen := make(map[string]struct{}, len(steels))
	for _, steel := range steels {
		s := strings.TrimSpace(steel)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// attachmentName strips the random storage prefix from the stored file name.
func attachmentName(key string) string {
	base := path.Base(strings.ReplaceAll(key, "\\", "/"))
	if _, name, ok := strings.Cut(base, "_"); ok && name != "" {
		return name
	}
	return base
}
