package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// Room belongs to a Competition; (competition_id, name) is unique.
type Room struct {
	ID            ID
	CompetitionID ID
	Name          string
	Capacity      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewRoom(competitionID ID, name string, capacity int) (*Room, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if capacity < 1 {
		return nil, apperrors.NewValidationError("capacity must be at least 1")
	}
	now := time.Now().UTC()
	return &Room{
		ID:            NewID(),
		CompetitionID: competitionID,
		Name:          name,
		Capacity:      capacity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
