package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

func parseID(r *http.Request, param string) (domain.ID, error) {
	id, err := domain.ParseID(chi.URLParam(r, param))
	if err != nil {
		return domain.ID{}, apperrors.NewValidationError("invalid " + param)
	}
	return id, nil
}

// pageParams reads the conventional ?skip=&limit= pagination pair used by
// every list endpoint, defaulting to the first 50 rows.
func pageParams(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

func (s *Server) handleListCompetitions(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)
	var comps []*domain.Competition
	var err error
	if status := r.URL.Query().Get("status"); status != "" {
		comps, err = s.reads.Competitions.GetByStatus(r.Context(), domain.CompetitionStatus(status), skip, limit)
	} else {
		comps, err = s.reads.Competitions.GetAll(r.Context(), skip, limit)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}

func (s *Server) handleGetCompetition(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	comp, err := s.reads.Competitions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

type competitionRequest struct {
	Name              string    `json:"name" validate:"required,min=3"`
	Date              time.Time `json:"date" validate:"required"`
	RegistrationStart time.Time `json:"registration_start" validate:"required"`
	RegistrationEnd   time.Time `json:"registration_end" validate:"required"`
	VariantsCount     int       `json:"variants_count" validate:"required,min=1"`
	MaxScore          int       `json:"max_score" validate:"required,min=1"`
}

func (s *Server) handleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	var req competitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}
	comp, err := domain.NewCompetition(req.Name, req.Date, req.RegistrationStart, req.RegistrationEnd, req.VariantsCount, req.MaxScore, subject.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Competitions.Create(ctx, comp); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "competition", comp.ID, "created", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comp)
}

func (s *Server) handleUpdateCompetition(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req competitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	var updated *domain.Competition
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		comp, err := repos.Competitions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		comp.Name = req.Name
		comp.Date = req.Date
		comp.RegistrationStart = req.RegistrationStart
		comp.RegistrationEnd = req.RegistrationEnd
		comp.VariantsCount = req.VariantsCount
		comp.MaxScore = req.MaxScore
		if err := repos.Competitions.Update(ctx, comp); err != nil {
			return err
		}
		updated = comp
		return audit.Record(ctx, repos.AuditLogs, "competition", comp.ID, "updated", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCompetition(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Competitions.Delete(ctx, id); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "competition", id, "deleted", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleOpenRegistration(w http.ResponseWriter, r *http.Request) {
	s.transitionCompetition(w, r, s.competitions.OpenRegistration)
}

func (s *Server) handleStartCompetition(w http.ResponseWriter, r *http.Request) {
	s.transitionCompetition(w, r, s.competitions.Start)
}

func (s *Server) handleStartChecking(w http.ResponseWriter, r *http.Request) {
	s.transitionCompetition(w, r, s.competitions.StartChecking)
}

func (s *Server) handlePublishCompetition(w http.ResponseWriter, r *http.Request) {
	s.transitionCompetition(w, r, s.competitions.Publish)
}

type competitionTransition func(ctx context.Context, id, actorID domain.ID) (*domain.Competition, error)

func (s *Server) transitionCompetition(w http.ResponseWriter, r *http.Request, transition competitionTransition) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	comp, err := transition(r.Context(), id, subject.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}
