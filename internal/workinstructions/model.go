package workinstructions

import (
	"math"
	"time"
)

// Range is a closed numeric interval. A nil *Range means the pair is not defined.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// NewRange returns a range only when both bounds are set.
func NewRange(min, max *float64) *Range {
	if min == nil || max == nil {
		return nil
	}
	return &Range{Min: *min, Max: *max}
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Distance returns the distance from v to the nearer bound.
func (r Range) Distance(v float64) float64 {
	return math.Min(math.Abs(v-r.Min), math.Abs(v-r.Max))
}

// WorkInstruction is a documented treatment procedure with its applicability constraints.
type WorkInstruction struct {
	ID               string    `json:"id"`
	ITCode           string    `json:"itCode"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	TreatmentType    string    `json:"treatmentType"`
	CoolingMethod    string    `json:"coolingMethod,omitempty"`
	SpecialNotes     string    `json:"specialNotes,omitempty"`
	Version          string    `json:"version,omitempty"`
	FileKey          string    `json:"fileKey,omitempty"`
	ApplicableSteels []string  `json:"applicableSteels"`
	Temperature      *Range    `json:"temperature,omitempty"`
	Duration         *Range    `json:"duration,omitempty"`
	HardnessInput    *Range    `json:"hardnessInput,omitempty"`
	HardnessOutput   *Range    `json:"hardnessOutput,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ListFilter narrows catalog listings. Zero values mean "no filter".
type ListFilter struct {
	TreatmentType string
	Active        *bool
	Search        string
	Limit         int
	Offset        int
}
