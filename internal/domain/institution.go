package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/validation"
)

const maxInstitutionNameLen = 200

// Institution is a school/organisation; its name is globally unique.
type Institution struct {
	ID        ID
	Name      string
	ShortName string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewInstitution(name, shortName, city string) (*Institution, error) {
	if len(name) < 2 {
		return nil, apperrors.NewValidationError("name must be at least 2 characters")
	}
	if err := validation.ValidateStringInput("name", name, maxInstitutionNameLen); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	now := time.Now().UTC()
	return &Institution{
		ID:        NewID(),
		Name:      name,
		ShortName: shortName,
		City:      city,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (i *Institution) Update(name, shortName, city string) error {
	if len(name) < 2 {
		return apperrors.NewValidationError("name must be at least 2 characters")
	}
	if err := validation.ValidateStringInput("name", name, maxInstitutionNameLen); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	i.Name = name
	i.ShortName = shortName
	i.City = city
	i.UpdatedAt = time.Now().UTC()
	return nil
}
