// Package events publishes feedback notifications to an AMQP exchange.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/spendora/internal/model"
)

// FeedbackRecordedType identifies feedback messages.
const FeedbackRecordedType = "feedback.recorded"

// FeedbackMessage wraps a feedback event for the wire.
type FeedbackMessage struct {
	Timestamp time.Time           `json:"timestamp"`
	ID        string              `json:"id"`
	Type      string              `json:"type"`
	Feedback  model.FeedbackEvent `json:"feedback"`
}

// NewFeedbackMessage creates a message with a fresh ID.
func NewFeedbackMessage(event model.FeedbackEvent) *FeedbackMessage {
	return &FeedbackMessage{
		ID:        uuid.NewString(),
		Type:      FeedbackRecordedType,
		Timestamp: time.Now().UTC(),
		Feedback:  event,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *FeedbackMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FeedbackMessageFromJSON decodes a message.
func FeedbackMessageFromJSON(data []byte) (*FeedbackMessage, error) {
	var msg FeedbackMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
