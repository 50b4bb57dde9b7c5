package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// AttemptStatus: printed -> scanned (first scan), {printed,scanned,scored}
// -> scored (apply_score), scored -> published, any -> invalidated.
type AttemptStatus string

const (
	AttemptPrinted     AttemptStatus = "printed"
	AttemptScanned     AttemptStatus = "scanned"
	AttemptScored      AttemptStatus = "scored"
	AttemptPublished   AttemptStatus = "published"
	AttemptInvalidated AttemptStatus = "invalidated"
)

type Attempt struct {
	ID             ID
	RegistrationID ID
	VariantNumber  int
	SheetTokenHash string
	Status         AttemptStatus
	ScoreTotal     *int
	Confidence     *float64
	PDFFilePath    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewAttempt(registrationID ID, variantNumber int, sheetTokenHash string) (*Attempt, error) {
	if variantNumber < 1 {
		return nil, apperrors.NewValidationError("variant_number must be at least 1")
	}
	now := time.Now().UTC()
	return &Attempt{
		ID:             NewID(),
		RegistrationID: registrationID,
		VariantNumber:  variantNumber,
		SheetTokenHash: sheetTokenHash,
		Status:         AttemptPrinted,
		PDFFilePath:    "",
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkScanned records the first scan linking to this attempt.
func (a *Attempt) MarkScanned() error {
	if a.Status != AttemptPrinted {
		return apperrors.NewInvalidStateError("attempt", string(a.Status), "mark_scanned")
	}
	a.Status = AttemptScanned
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyScore is valid from printed, scanned, or scored. confidence may be
// nil for a manual override.
func (a *Attempt) ApplyScore(score int, confidence *float64) error {
	switch a.Status {
	case AttemptPrinted, AttemptScanned, AttemptScored:
	default:
		return apperrors.NewInvalidStateError("attempt", string(a.Status), "apply_score")
	}
	if score < 0 {
		return apperrors.NewValidationError("score must be non-negative")
	}
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		return apperrors.NewValidationError("confidence must be between 0.0 and 1.0")
	}
	a.ScoreTotal = &score
	a.Confidence = confidence
	a.Status = AttemptScored
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Publish requires a score to already be present.
func (a *Attempt) Publish() error {
	if a.Status != AttemptScored {
		return apperrors.NewInvalidStateError("attempt", string(a.Status), "publish")
	}
	if a.ScoreTotal == nil {
		return apperrors.NewValidationError("cannot publish an attempt with no score")
	}
	a.Status = AttemptPublished
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Invalidate is legal from any state.
func (a *Attempt) Invalidate() {
	a.Status = AttemptInvalidated
	a.UpdatedAt = time.Now().UTC()
}

// SetPDFPath records the object-store key of the rendered answer sheet.
func (a *Attempt) SetPDFPath(path string) {
	a.PDFFilePath = path
	a.UpdatedAt = time.Now().UTC()
}
