package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// Document is a personal document belonging to a Participant.
type Document struct {
	ID            ID
	ParticipantID ID
	FilePath      string
	FileType      string
	CreatedAt     time.Time
}

func NewDocument(participantID ID, filePath, fileType string) (*Document, error) {
	if filePath == "" {
		return nil, apperrors.NewValidationError("file_path is required")
	}
	return &Document{
		ID:            NewID(),
		ParticipantID: participantID,
		FilePath:      filePath,
		FileType:      fileType,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
