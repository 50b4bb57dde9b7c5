package httpapi

import (
	"net/http"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

type createRegistrationRequest struct {
	CompetitionID domain.ID `json:"competition_id" validate:"required"`
}

type registrationResponse struct {
	RegistrationID domain.ID `json:"registration_id"`
	EntryToken     string    `json:"entry_token"`
}

func (s *Server) participantID(r *http.Request, subject *workflow.Subject) (domain.ID, error) {
	participant, err := s.reads.Participants.GetByUserID(r.Context(), subject.UserID)
	if err != nil {
		return domain.ID{}, apperrors.NewNotFoundError("participant profile")
	}
	return participant.ID, nil
}

func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleParticipant); err != nil {
		writeError(w, r, err)
		return
	}
	var req createRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	participantID, err := s.participantID(r, subject)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.registrations.Register(r.Context(), participantID, req.CompetitionID, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registrationResponse{RegistrationID: result.RegistrationID, EntryToken: result.RawToken})
}

func (s *Server) handleListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleParticipant); err != nil {
		writeError(w, r, err)
		return
	}
	participantID, err := s.participantID(r, subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	skip, limit := pageParams(r)
	regs, err := s.reads.Registrations.GetByParticipant(r.Context(), participantID, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reg, err := s.reads.Registrations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subject := subjectFrom(r.Context())
	if subject.Role == domain.RoleParticipant {
		participantID, err := s.participantID(r, subject)
		if err != nil || reg.ParticipantID != participantID {
			writeError(w, r, apperrors.NewForbiddenError("cannot access another participant's registration"))
			return
		}
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	raw, err := s.registrations.RefreshToken(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, registrationResponse{RegistrationID: id, EntryToken: raw})
}
