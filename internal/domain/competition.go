package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// CompetitionStatus is the one-way lifecycle draft -> registration_open ->
// in_progress -> checking -> published. No other transition is legal.
type CompetitionStatus string

const (
	CompetitionDraft            CompetitionStatus = "draft"
	CompetitionRegistrationOpen CompetitionStatus = "registration_open"
	CompetitionInProgress       CompetitionStatus = "in_progress"
	CompetitionChecking         CompetitionStatus = "checking"
	CompetitionPublished        CompetitionStatus = "published"
)

// competitionTransitions enumerates every legal one-way edge.
var competitionTransitions = map[CompetitionStatus]CompetitionStatus{
	CompetitionDraft:            CompetitionRegistrationOpen,
	CompetitionRegistrationOpen: CompetitionInProgress,
	CompetitionInProgress:       CompetitionChecking,
	CompetitionChecking:         CompetitionPublished,
}

type Competition struct {
	ID                ID
	Name              string
	Date              time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	VariantsCount     int
	MaxScore          int
	Status            CompetitionStatus
	CreatedBy         ID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewCompetition(name string, date, regStart, regEnd time.Time, variantsCount, maxScore int, createdBy ID) (*Competition, error) {
	if len(name) < 3 {
		return nil, apperrors.NewValidationError("name must be at least 3 characters")
	}
	if !regStart.Before(regEnd) {
		return nil, apperrors.NewValidationError("registration_start must be before registration_end")
	}
	if variantsCount < 1 {
		return nil, apperrors.NewValidationError("variants_count must be at least 1")
	}
	if maxScore < 1 {
		return nil, apperrors.NewValidationError("max_score must be at least 1")
	}
	now := time.Now().UTC()
	return &Competition{
		ID:                NewID(),
		Name:              name,
		Date:              date,
		RegistrationStart: regStart,
		RegistrationEnd:   regEnd,
		VariantsCount:     variantsCount,
		MaxScore:          maxScore,
		Status:            CompetitionDraft,
		CreatedBy:         createdBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// transitionTo is the shared guard for every named transition method: it
// fails with InvalidState unless c.Status -> target is a legal edge.
func (c *Competition) transitionTo(target CompetitionStatus, action string) error {
	if next, ok := competitionTransitions[c.Status]; !ok || next != target {
		return apperrors.NewInvalidStateError("competition", string(c.Status), action)
	}
	c.Status = target
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Competition) OpenRegistration() error {
	return c.transitionTo(CompetitionRegistrationOpen, "open_registration")
}

func (c *Competition) Start() error {
	return c.transitionTo(CompetitionInProgress, "start")
}

func (c *Competition) StartChecking() error {
	return c.transitionTo(CompetitionChecking, "start_checking")
}

func (c *Competition) Publish() error {
	return c.transitionTo(CompetitionPublished, "publish")
}
