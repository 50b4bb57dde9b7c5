package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// AnswerSheetKind distinguishes the one primary sheet issued at admission
// from extra sheets an invigilator may issue during the competition.
type AnswerSheetKind string

const (
	AnswerSheetPrimary AnswerSheetKind = "primary"
	AnswerSheetExtra   AnswerSheetKind = "extra"
)

type AnswerSheet struct {
	ID             ID
	AttemptID      ID
	SheetTokenHash string
	Kind           AnswerSheetKind
	PDFFilePath    string
	CreatedAt      time.Time
}

func NewAnswerSheet(attemptID ID, sheetTokenHash string, kind AnswerSheetKind, pdfFilePath string) (*AnswerSheet, error) {
	if kind != AnswerSheetPrimary && kind != AnswerSheetExtra {
		return nil, apperrors.NewValidationError("unknown answer sheet kind: " + string(kind))
	}
	return &AnswerSheet{
		ID:             NewID(),
		AttemptID:      attemptID,
		SheetTokenHash: sheetTokenHash,
		Kind:           kind,
		PDFFilePath:    pdfFilePath,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
