package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// Scan is an uploaded image/PDF whose attempt binding and OCR fields are
// filled in asynchronously by the worker (component H).
type Scan struct {
	ID            ID
	AttemptID     *ID
	AnswerSheetID *ID
	FilePath      string
	OCRScore      *int
	OCRConfidence *float64
	OCRRawText    string
	VerifiedBy    *ID
	UploadedBy    ID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewScan(filePath string, uploadedBy ID) (*Scan, error) {
	if filePath == "" {
		return nil, apperrors.NewValidationError("file_path is required")
	}
	now := time.Now().UTC()
	return &Scan{
		ID:         NewID(),
		FilePath:   filePath,
		UploadedBy: uploadedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// LinkAttempt binds the scan to the attempt its decoded QR resolved to.
// It is a no-op guard: only the first link wins.
func (s *Scan) LinkAttempt(attemptID, answerSheetID ID) {
	if s.AttemptID != nil {
		return
	}
	s.AttemptID = &attemptID
	s.AnswerSheetID = &answerSheetID
	s.UpdatedAt = time.Now().UTC()
}

// RecordOCR stores the worker's recognised score, confidence, and raw text.
func (s *Scan) RecordOCR(score *int, confidence *float64, rawText string) {
	s.OCRScore = score
	s.OCRConfidence = confidence
	s.OCRRawText = rawText
	s.UpdatedAt = time.Now().UTC()
}

// Verify records a human-confirmed score correction. It requires the scan
// to already be linked to an attempt.
func (s *Scan) Verify(verifiedBy ID, correctedScore int) error {
	if s.AttemptID == nil {
		return apperrors.NewInvalidStateError("scan", "unlinked", "verify")
	}
	if correctedScore < 0 {
		return apperrors.NewValidationError("score must be non-negative")
	}
	s.VerifiedBy = &verifiedBy
	s.OCRScore = &correctedScore
	s.UpdatedAt = time.Now().UTC()
	return nil
}
