package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"treatment-backend/internal/workinstructions"
)

// Recommend scores the active candidates and returns the ranked shortlist.
func Recommend(req Request, candidates []workinstructions.WorkInstruction) []Result {
	return Rank(req, Evaluate(req, candidates))
}

// Evaluate scores every active candidate. Inactive candidates are skipped.
func Evaluate(req Request, candidates []workinstructions.WorkInstruction) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, wi := range candidates {
		if !wi.Active {
			continue
		}
		out = append(out, Scored{Candidate: wi, Breakdown: Score(req, wi)})
	}
	return out
}

// Rank drops zero scores, sorts by total descending then itCode ascending,
// keeps the first MaxResults and explains each. The input slice is not modified.
func Rank(req Request, scored []Scored) []Result {
	kept := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Breakdown.Total > 0 {
			kept = append(kept, s)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a := kept[i]
		b := kept[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Candidate.ITCode != b.Candidate.ITCode {
			return a.Candidate.ITCode < b.Candidate.ITCode
		}
		return a.Candidate.ID < b.Candidate.ID
	})
	if len(kept) > MaxResults {
		kept = kept[:MaxResults]
	}

	out := make([]Result, 0, len(kept))
	for _, s := range kept {
		out = append(out, Explain(req, s.Candidate, s.Breakdown))
	}
	return out
}

// Explain builds the result entry for a scored candidate.
func Explain(req Request, wi workinstructions.WorkInstruction, b Breakdown) Result {
	return Result{
		WorkInstruction: wi,
		Reason:          reason(req, wi, b),
		ConfidenceScore: b.Total,
		MatchDetails: MatchDetails{
			SteelMatch:          b.SteelMatch,
			HardnessInputMatch:  b.HardnessInputMatch,
			HardnessOutputMatch: b.HardnessOutputMatch,
			TemperatureRange:    FormatTemperature(wi.Temperature),
			DurationRange:       FormatDuration(wi.Duration),
		},
	}
}

func reason(req Request, wi workinstructions.WorkInstruction, b Breakdown) string {
	lines := make([]string, 0, 5)
	if b.SteelMatch {
		lines = append(lines, fmt.Sprintf("✓ Compatible with steel %s", req.SteelCode))
	}
	if b.HardnessInputMatch && req.InputHardness != nil {
		lines = append(lines, fmt.Sprintf("✓ Accepts input hardness of %s HRC", formatNumber(*req.InputHardness)))
	}
	if b.HardnessOutputMatch && req.DesiredHardness != nil {
		lines = append(lines, fmt.Sprintf("✓ Reaches desired hardness of %s HRC", formatNumber(*req.DesiredHardness)))
	}
	if t := FormatTemperature(wi.Temperature); t != "" {
		lines = append(lines, "Temperature: "+t)
	}
	if cooling := strings.TrimSpace(wi.CoolingMethod); cooling != "" {
		lines = append(lines, "Cooling: "+cooling)
	}
	return strings.Join(lines, "\n")
}

// FormatTemperature renders "min°C - max°C", or "" when the range is not set.
func FormatTemperature(r *workinstructions.Range) string {
	if r == nil {
		return ""
	}
	return formatNumber(r.Min) + "°C - " + formatNumber(r.Max) + "°C"
}

// FormatDuration renders "min - max min", or "" when the range is not set.
func FormatDuration(r *workinstructions.Range) string {
	if r == nil {
		return ""
	}
	return formatNumber(r.Min) + " - " + formatNumber(r.Max) + " min"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
