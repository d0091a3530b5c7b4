// Package engine scores treatment procedures against a request and ranks them
// into an explained shortlist. Everything here is a pure function of its
// arguments: no I/O, no shared state, safe for concurrent use.
package engine

import "treatment-backend/internal/workinstructions"

// Request describes the part to treat. Optional hardness values are nil when not specified.
type Request struct {
	SteelCode          string         `json:"steelCode"`
	InputHardness      *float64       `json:"inputHardness,omitempty"`
	DesiredHardness    *float64       `json:"desiredHardness,omitempty"`
	PieceDescription   string         `json:"pieceDescription,omitempty"`
	ClientRequirements map[string]any `json:"clientRequirements,omitempty"`
}

// Breakdown is the score of one (request, candidate) pair.
type Breakdown struct {
	Total               int  `json:"total"`
	SteelMatch          bool `json:"steelMatch"`
	HardnessInputMatch  bool `json:"hardnessInputMatch"`
	HardnessOutputMatch bool `json:"hardnessOutputMatch"`
}

// Scored pairs a candidate with its breakdown.
type Scored struct {
	Candidate workinstructions.WorkInstruction
	Breakdown Breakdown
}

// MatchDetails is the breakdown plus the candidate's formatted process ranges.
type MatchDetails struct {
	SteelMatch          bool   `json:"steelMatch"`
	HardnessInputMatch  bool   `json:"hardnessInputMatch"`
	HardnessOutputMatch bool   `json:"hardnessOutputMatch"`
	TemperatureRange    string `json:"temperatureRange,omitempty"`
	DurationRange       string `json:"durationRange,omitempty"`
}

// Result is one entry of the ranked shortlist.
type Result struct {
	WorkInstruction workinstructions.WorkInstruction `json:"workInstruction"`
	Reason          string                           `json:"reason"`
	ConfidenceScore int                              `json:"confidenceScore"`
	MatchDetails    MatchDetails                     `json:"matchDetails"`
}
