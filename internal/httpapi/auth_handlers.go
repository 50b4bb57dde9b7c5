package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/auth"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

var validate = validator.New()

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
	School   string `json:"school" validate:"required,min=2"`
	Grade    *int   `json:"grade" validate:"omitempty,min=1,max=12"`
}

type registerResponse struct {
	UserID        domain.ID `json:"user_id"`
	ParticipantID domain.ID `json:"participant_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
}

// handleRegisterUser always creates a participant role account (spec §6
// "Register always produces a participant"); admins/admitters/scanners/
// invigilators are provisioned via /admin/users instead.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := domain.NewUser(req.Email, hash, domain.RoleParticipant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	participant, err := domain.NewParticipant(user.ID, req.FullName, req.School, req.Grade, nil, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := repos.Participants.Create(ctx, participant); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "user", user.ID, "registered", &user.ID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		UserID: user.ID, ParticipantID: participant.ID, Email: user.Email, Role: string(user.Role),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	user, err := s.reads.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, apperrors.NewAuthError("invalid email or password"))
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, r, apperrors.NewAuthError("invalid email or password"))
		return
	}
	if !user.IsActive {
		writeError(w, r, apperrors.NewForbiddenError("account is inactive"))
		return
	}

	token, err := s.jwt.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

type meResponse struct {
	UserID domain.ID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	user, err := s.reads.Users.GetByID(r.Context(), subject.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{UserID: user.ID, Email: user.Email, Role: string(user.Role)})
}
