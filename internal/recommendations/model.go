package recommendations

import "time"

// Recommendation is a saved choice of work instruction for a request. It is never updated.
// WorkInstructionTitle, TreatmentType and FeedbackCount are read-side details filled on reads.
type Recommendation struct {
	ID                 string         `json:"id"`
	SteelTypeID        string         `json:"steelTypeId,omitempty"`
	SteelCode          string         `json:"steelCode"`
	WorkInstructionID  string         `json:"workInstructionId"`
	ITCode             string         `json:"itCode"`
	InputHardness      *float64       `json:"inputHardness,omitempty"`
	DesiredHardness    *float64       `json:"desiredHardness,omitempty"`
	PieceDescription   string         `json:"pieceDescription,omitempty"`
	ClientRequirements map[string]any `json:"clientRequirements,omitempty"`
	Reason             string         `json:"reason"`
	ConfidenceScore    int            `json:"confidenceScore"`
	UserName           string         `json:"userName"`
	ClientName         string         `json:"clientName"`
	CreatedAt          time.Time      `json:"createdAt"`

	WorkInstructionTitle string `json:"workInstructionTitle,omitempty"`
	TreatmentType        string `json:"treatmentType,omitempty"`
	FeedbackCount        int    `json:"feedbackCount"`
}

// ListFilter narrows the history listing. Text filters match case-insensitively.
type ListFilter struct {
	SteelCode  string
	ClientName string
	UserName   string
	Limit      int
	Offset     int
}
