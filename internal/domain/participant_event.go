package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// EventType is a closed enum of in-exam events invigilators record.
type EventType string

const (
	EventStartWork EventType = "start_work"
	EventSubmit    EventType = "submit"
	EventExitRoom  EventType = "exit_room"
	EventEnterRoom EventType = "enter_room"
)

func (e EventType) Valid() bool {
	switch e {
	case EventStartWork, EventSubmit, EventExitRoom, EventEnterRoom:
		return true
	}
	return false
}

type ParticipantEvent struct {
	ID         ID
	AttemptID  ID
	EventType  EventType
	Timestamp  time.Time
	RecordedBy ID
}

func NewParticipantEvent(attemptID ID, eventType EventType, recordedBy ID) (*ParticipantEvent, error) {
	if !eventType.Valid() {
		return nil, apperrors.NewValidationError("unknown event_type: " + string(eventType))
	}
	return &ParticipantEvent{
		ID:         NewID(),
		AttemptID:  attemptID,
		EventType:  eventType,
		Timestamp:  time.Now().UTC(),
		RecordedBy: recordedBy,
	}, nil
}
