package httpapi

import (
	"context"
	"net/http"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

func (s *Server) handleListInstitutions(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)
	institutions, err := s.reads.Institutions.GetAll(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, institutions)
}

func (s *Server) handleSearchInstitutions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, r, apperrors.NewValidationError("q is required"))
		return
	}
	_, limit := pageParams(r)
	institutions, err := s.reads.Institutions.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, institutions)
}

type createInstitutionRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	ShortName string `json:"short_name"`
	City      string `json:"city"`
}

func (s *Server) handleCreateInstitution(w http.ResponseWriter, r *http.Request) {
	subject := s.requireAdmin(w, r)
	if subject == nil {
		return
	}
	var req createInstitutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}
	institution, err := domain.NewInstitution(req.Name, req.ShortName, req.City)
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Institutions.Create(ctx, institution); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "institution", institution.ID, "created", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, institution)
}
