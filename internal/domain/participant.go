package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/validation"
)

const (
	maxFullNameLen = 150
	maxSchoolLen   = 200
)

// Participant is a personal profile, 1:1 with a User.
type Participant struct {
	ID            ID
	UserID        ID
	FullName      string
	School        string
	Grade         *int
	InstitutionID *ID
	DOB           *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewParticipant validates full_name/school (>=2 chars) and an optional
// grade in [1,12].
func NewParticipant(userID ID, fullName, school string, grade *int, institutionID *ID, dob *time.Time) (*Participant, error) {
	if len(fullName) < 2 {
		return nil, apperrors.NewValidationError("full_name must be at least 2 characters")
	}
	if len(school) < 2 {
		return nil, apperrors.NewValidationError("school must be at least 2 characters")
	}
	if err := validation.ValidateStringInput("full_name", fullName, maxFullNameLen); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidateStringInput("school", school, maxSchoolLen); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if grade != nil && (*grade < 1 || *grade > 12) {
		return nil, apperrors.NewValidationError("grade must be between 1 and 12")
	}
	now := time.Now().UTC()
	return &Participant{
		ID:            NewID(),
		UserID:        userID,
		FullName:      fullName,
		School:        school,
		Grade:         grade,
		InstitutionID: institutionID,
		DOB:           dob,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Update applies owner- or admin-initiated edits, re-running the same
// validation as construction.
func (p *Participant) Update(fullName, school string, grade *int, institutionID *ID, dob *time.Time) error {
	if len(fullName) < 2 {
		return apperrors.NewValidationError("full_name must be at least 2 characters")
	}
	if len(school) < 2 {
		return apperrors.NewValidationError("school must be at least 2 characters")
	}
	if err := validation.ValidateStringInput("full_name", fullName, maxFullNameLen); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidateStringInput("school", school, maxSchoolLen); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if grade != nil && (*grade < 1 || *grade > 12) {
		return apperrors.NewValidationError("grade must be between 1 and 12")
	}
	p.FullName = fullName
	p.School = school
	p.Grade = grade
	p.InstitutionID = institutionID
	p.DOB = dob
	p.UpdatedAt = time.Now().UTC()
	return nil
}
