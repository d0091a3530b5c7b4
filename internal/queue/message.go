package queue

import (
	"encoding/json"
	"fmt"
)

// TypeRecommendationSaved is emitted after a recommendation has been persisted.
const TypeRecommendationSaved = "recommendation.saved"

// CurrentVersion is the payload schema version written by EncodeMessage.
const CurrentVersion = 1

// Message is the payload sent to downstream queue consumers.
type Message struct {
	Type              string `json:"type"`
	RecommendationID  string `json:"recommendationId"`
	WorkInstructionID string `json:"workInstructionId"`
	ITCode            string `json:"itCode"`
	SteelCode         string `json:"steelCode"`
	ConfidenceScore   int    `json:"confidenceScore"`
	EnqueuedAt        string `json:"enqueuedAt"`
	Version           int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.Version == 0 {
		msg.Version = CurrentVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("message type is required")
	}
	return msg, nil
}
