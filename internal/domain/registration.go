package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// RegistrationStatus cycles pending -> admitted -> completed, with cancel
// legal from any non-cancelled state.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationAdmitted  RegistrationStatus = "admitted"
	RegistrationCompleted RegistrationStatus = "completed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

type Registration struct {
	ID            ID
	ParticipantID ID
	CompetitionID ID
	Status        RegistrationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewRegistration(participantID, competitionID ID) *Registration {
	now := time.Now().UTC()
	return &Registration{
		ID:            NewID(),
		ParticipantID: participantID,
		CompetitionID: competitionID,
		Status:        RegistrationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Admit requires the registration to currently be pending.
func (r *Registration) Admit() error {
	if r.Status != RegistrationPending {
		return apperrors.NewInvalidStateError("registration", string(r.Status), "admit")
	}
	r.Status = RegistrationAdmitted
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete requires the registration to currently be admitted.
func (r *Registration) Complete() error {
	if r.Status != RegistrationAdmitted {
		return apperrors.NewInvalidStateError("registration", string(r.Status), "complete")
	}
	r.Status = RegistrationCompleted
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel is legal from any state except already-cancelled.
func (r *Registration) Cancel() error {
	if r.Status == RegistrationCancelled {
		return apperrors.NewInvalidStateError("registration", string(r.Status), "cancel")
	}
	r.Status = RegistrationCancelled
	r.UpdatedAt = time.Now().UTC()
	return nil
}
