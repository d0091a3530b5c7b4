package feedback

import "time"

// Feedback is an operator's report on how a saved recommendation worked out.
type Feedback struct {
	ID               string    `json:"id"`
	RecommendationID string    `json:"recommendationId"`
	WasSuccessful    bool      `json:"wasSuccessful"`
	ActualHardness   *float64  `json:"actualHardness,omitempty"`
	Comments         string    `json:"comments,omitempty"`
	UserName         string    `json:"userName"`
	CreatedAt        time.Time `json:"createdAt"`
}
