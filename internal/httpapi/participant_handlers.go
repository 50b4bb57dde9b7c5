package httpapi

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

func (s *Server) handleGetMyParticipant(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	participant, err := s.reads.Participants.GetByUserID(r.Context(), subject.UserID)
	if err != nil {
		writeError(w, r, apperrors.NewNotFoundError("participant profile"))
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

type updateParticipantRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	School   string `json:"school" validate:"required,min=2"`
	Grade    *int   `json:"grade" validate:"omitempty,min=1,max=12"`
}

func (s *Server) handleUpdateMyParticipant(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	participant, err := s.reads.Participants.GetByUserID(r.Context(), subject.UserID)
	if err != nil {
		writeError(w, r, apperrors.NewNotFoundError("participant profile"))
		return
	}
	if err := workflow.RequireOwnership(subject, participant.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	var req updateParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}
	if err := participant.Update(req.FullName, req.School, req.Grade, participant.InstitutionID, participant.DOB); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.reads.Participants.Update(r.Context(), participant); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (s *Server) ownedParticipant(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	participantID, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return domain.ID{}, false
	}
	subject := subjectFrom(r.Context())
	if subject.Role == domain.RoleAdmin {
		return participantID, true
	}
	participant, err := s.reads.Participants.GetByID(r.Context(), participantID)
	if err != nil {
		writeError(w, r, err)
		return domain.ID{}, false
	}
	if err := workflow.RequireOwnership(subject, participant.UserID); err != nil {
		writeError(w, r, err)
		return domain.ID{}, false
	}
	return participantID, true
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	participantID, ok := s.ownedParticipant(w, r)
	if !ok {
		return
	}
	docs, err := s.reads.Documents.GetByParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

const maxDocumentUploadBytes = 10 << 20 // 10 MiB

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	participantID, ok := s.ownedParticipant(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxDocumentUploadBytes); err != nil {
		writeError(w, r, apperrors.NewValidationError("failed to parse multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperrors.NewValidationError("missing file field"))
		return
	}
	defer file.Close()

	data, err := readAllLimited(file, maxDocumentUploadBytes)
	if err != nil {
		writeError(w, r, apperrors.NewValidationError("failed to read uploaded file"))
		return
	}
	ext := documentExtension(header)
	document, err := domain.NewDocument(participantID, "pending", ext)
	if err != nil {
		writeError(w, r, err)
		return
	}
	objectKey := fmt.Sprintf("documents/%s/%s.%s", participantID, document.ID, ext)
	if err := s.objectStore.Put(r.Context(), s.cfg.ObjectStore.SheetsBucket, objectKey, data, "application/octet-stream"); err != nil {
		writeError(w, r, err)
		return
	}
	document.FilePath = objectKey
	if err := s.reads.Documents.Create(r.Context(), document); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, document)
}

// documentExtension derives a filename extension for supporting documents
// (transcripts, ID scans, and the like), which unlike scans aren't
// restricted to a fixed MIME set, so the uploaded filename still governs
// the stored object key's suffix.
func documentExtension(header *multipart.FileHeader) string {
	name := strings.ToLower(header.Filename)
	if idx := strings.LastIndex(name, "."); idx != -1 && idx < len(name)-1 {
		return name[idx+1:]
	}
	return "bin"
}
