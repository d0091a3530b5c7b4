package engine

import (
	"errors"
	"math"
	"strings"

	"treatment-backend/internal/workinstructions"
)

var (
	// ErrMissingSteelCode is returned by Validate when the steel code is blank.
	ErrMissingSteelCode = errors.New("steelCode is required")
	// ErrInvalidHardness is returned by Validate for NaN or infinite hardness values.
	ErrInvalidHardness = errors.New("hardness must be a finite number")
)

type steelMatch int

const (
	steelNone steelMatch = iota
	steelPartial
	steelExact
)

// Validate checks the request and returns it with the steel code trimmed.
func Validate(req Request) (Request, error) {
	req.SteelCode = strings.TrimSpace(req.SteelCode)
	if req.SteelCode == "" {
		return Request{}, ErrMissingSteelCode
	}
	for _, v := range []*float64{req.InputHardness, req.DesiredHardness} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return Request{}, ErrInvalidHardness
		}
	}
	return req, nil
}

// Score evaluates one candidate with DefaultWeights.
func Score(req Request, wi workinstructions.WorkInstruction) Breakdown {
	return DefaultWeights.Score(req, wi)
}

// Score evaluates steel, input hardness and desired hardness in that order.
// Each criterion contributes at most once and the sum is clipped to MaxScore.
func (w Weights) Score(req Request, wi workinstructions.WorkInstruction) Breakdown {
	var b Breakdown
	total := 0

	switch matchSteel(req.SteelCode, wi.ApplicableSteels) {
	case steelExact:
		total += w.SteelExact
		b.SteelMatch = true
	case steelPartial:
		total += w.SteelPartial
		b.SteelMatch = true
	}

	if req.InputHardness != nil && wi.HardnessInput != nil {
		v := *req.InputHardness
		switch {
		case wi.HardnessInput.Contains(v):
			total += w.InputInRange
			b.HardnessInputMatch = true
		case wi.HardnessInput.Distance(v) <= w.NearBand:
			total += w.InputNear
		}
	}

	if req.DesiredHardness != nil && wi.HardnessOutput != nil {
		v := *req.DesiredHardness
		dist := wi.HardnessOutput.Distance(v)
		switch {
		case wi.HardnessOutput.Contains(v):
			total += w.OutputInRange
			b.HardnessOutputMatch = true
		case dist <= w.NearBand:
			total += w.OutputNear
		case dist <= w.FarBand:
			total += w.OutputFar
		}
	}

	if total > w.MaxScore {
		total = w.MaxScore
	}
	if total < 0 {
		total = 0
	}
	b.Total = total
	return b
}

// matchSteel compares case-insensitively. Blank entries never match.
func matchSteel(code string, steels []string) steelMatch {
	needle := strings.ToLower(strings.TrimSpace(code))
	if needle == "" || len(steels) == 0 {
		return steelNone
	}
	normalized := make([]string, 0, len(steels))
	for _, steel := range steels {
		s := strings.ToLower(strings.TrimSpace(steel))
		if s == "" {
			continue
		}
		if s == needle {
			return steelExact
		}
		normalized = append(normalized, s)
	}
	for _, s := range normalized {
		if strings.Contains(s, needle) || strings.Contains(needle, s) {
			return steelPartial
		}
	}
	return steelNone
}
