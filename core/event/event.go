package event

import (
	"time"

	"github.com/google/uuid"
)

// Topic names one of the five fixed events this bus carries.
type Topic string

const (
	TopicEntryAdded      Topic = "entryAdded"
	TopicEntriesExpired  Topic = "entriesExpired"
	TopicDetectionEvent  Topic = "detectionEvent"
	TopicErrorEvent      Topic = "errorEvent"
	TopicReportGenerated Topic = "reportGenerated"
)

// Event is the envelope every publish wraps its payload in.
type Event struct {
	ID        string
	Name      Topic
	Payload   any
	CreatedAt time.Time
}

// NewEvent wraps payload for topic with a fresh UUID and the current time.
func NewEvent(topic Topic, payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      topic,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
