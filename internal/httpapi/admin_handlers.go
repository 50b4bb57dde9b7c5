package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/auth"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/ports"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) *workflow.Subject {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return nil
	}
	return subject
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	skip, limit := pageParams(r)
	users, err := s.reads.Users.GetAll(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.reads.Users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	subject := s.requireAdmin(w, r)
	if subject == nil {
		return
	}
	var req createUserRequest
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
	user, err := domain.NewUser(req.Email, hash, domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "user", user.ID, "created_by_admin", &subject.UserID, clientIP(r), map[string]interface{}{"role": user.Role})
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	subject := s.requireAdmin(w, r)
	if subject == nil {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var updated *domain.User
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		user, err := repos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Role != nil {
			if err := user.ChangeRole(domain.Role(*req.Role)); err != nil {
				return err
			}
		}
		if req.IsActive != nil && !*req.IsActive {
			user.Deactivate()
		}
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return audit.Record(ctx, repos.AuditLogs, "user", user.ID, "updated_by_admin", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	subject := s.requireAdmin(w, r)
	if subject == nil {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Users.Delete(ctx, id); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "user", id, "deleted_by_admin", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	skip, limit := pageParams(r)
	var logs []*domain.AuditLog
	var err error
	if entityType := r.URL.Query().Get("entity_type"); entityType != "" {
		if id, idErr := domain.ParseID(r.URL.Query().Get("entity_id")); idErr == nil {
			logs, err = s.reads.AuditLogs.GetByEntity(r.Context(), entityType, id)
		}
	} else {
		logs, err = s.reads.AuditLogs.GetAll(r.Context(), skip, limit)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// statisticsResponse is the dashboard projection named in spec §6
// ("/admin/statistics") and expanded with the original's counts
// (registrations/attempts by status, average score).
type roomOccupancy struct {
	RoomName string `json:"room_name"`
	Capacity int    `json:"capacity"`
	Occupied int    `json:"occupied"`
}

type statisticsResponse struct {
	TotalCompetitions     int             `json:"total_competitions"`
	RegistrationsByStatus map[string]int  `json:"registrations_by_status"`
	AttemptsByStatus      map[string]int  `json:"attempts_by_status"`
	AverageScore          float64         `json:"average_score"`
	TotalParticipants     int             `json:"total_participants"`
	RoomOccupancy         []roomOccupancy `json:"room_occupancy"`
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	competitionID, err := parseID(r, "competition_id")
	if err != nil {
		// The /admin/statistics route has no path parameter, so the
		// competition comes from the ?competition_id= query.
		if v := r.URL.Query().Get("competition_id"); v != "" {
			competitionID, err = domain.ParseID(v)
		}
	}
	if err != nil {
		writeError(w, r, apperrors.NewValidationError("competition_id is required"))
		return
	}

	regs, err := s.reads.Registrations.GetByCompetition(r.Context(), competitionID, 0, 100000)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attempts, err := s.reads.Attempts.GetResultsForCompetition(r.Context(), competitionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := statisticsResponse{
		RegistrationsByStatus: map[string]int{},
		AttemptsByStatus:      map[string]int{},
	}
	for _, reg := range regs {
		resp.RegistrationsByStatus[string(reg.Status)]++
	}
	resp.TotalParticipants = len(regs)

	var total int
	for _, a := range attempts {
		resp.AttemptsByStatus[string(a.Status)]++
		if a.ScoreTotal != nil {
			total += *a.ScoreTotal
		}
	}
	if len(attempts) > 0 {
		resp.AverageScore = float64(total) / float64(len(attempts))
	}
	resp.TotalCompetitions = 1

	rooms, err := s.reads.Rooms.GetByCompetition(r.Context(), competitionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, room := range rooms {
		seats, err := s.reads.SeatAssignments.GetByRoom(r.Context(), room.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.RoomOccupancy = append(resp.RoomOccupancy, roomOccupancy{
			RoomName: room.Name, Capacity: room.Capacity, Occupied: len(seats),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type bulkRegistrationEntry struct {
	FullName        string `json:"full_name" validate:"required,min=2"`
	School          string `json:"school" validate:"required,min=2"`
	Grade           *int   `json:"grade" validate:"omitempty,min=1,max=12"`
	InstitutionName string `json:"institution_name"`
}

type bulkRegistrationRequest struct {
	CompetitionID domain.ID               `json:"competition_id" validate:"required"`
	Entries       []bulkRegistrationEntry `json:"entries" validate:"required,min=1,dive"`
}

type bulkRegistrationResult struct {
	RegistrationID domain.ID `json:"registration_id"`
	ParticipantID  domain.ID `json:"participant_id"`
	FullName       string    `json:"full_name"`
}

type bulkRegistrationResponse struct {
	Created   []bulkRegistrationResult `json:"created"`
	BadgeURLs []string                 `json:"badge_urls"`
}

// handleBulkRegistrations pre-registers a batch of participants (creating
// a user+participant+registration+entry token per entry) and renders one
// badge-sheet PDF per institution group, uploaded under documents/badges/.
func (s *Server) handleBulkRegistrations(w http.ResponseWriter, r *http.Request) {
	subject := s.requireAdmin(w, r)
	if subject == nil {
		return
	}
	var req bulkRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	type badgeEntry struct {
		institution string
		badge       ports.Badge
	}
	var results []bulkRegistrationResult
	var badgeEntries []badgeEntry

	err := s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := repos.Competitions.GetByID(ctx, req.CompetitionID); err != nil {
			return err
		}

		for _, entry := range req.Entries {
			placeholderHash, err := auth.HashPassword(domain.NewID().String())
			if err != nil {
				return err
			}
			user, err := domain.NewUser(fmt.Sprintf("%s@placeholder.olympiadqr", domain.NewID()), placeholderHash, domain.RoleParticipant)
			if err != nil {
				return err
			}
			if err := repos.Users.Create(ctx, user); err != nil {
				return err
			}

			participant, err := domain.NewParticipant(user.ID, entry.FullName, entry.School, entry.Grade, nil, nil)
			if err != nil {
				return err
			}
			if err := repos.Participants.Create(ctx, participant); err != nil {
				return err
			}

			reg := domain.NewRegistration(participant.ID, req.CompetitionID)
			if err := repos.Registrations.Create(ctx, reg); err != nil {
				return err
			}

			pair, err := s.tokens.Generate(32)
			if err != nil {
				return err
			}
			entryToken := domain.NewEntryToken(reg.ID, pair.Hash, pair.Raw, time.Duration(s.cfg.Token.EntryTokenExpireHours)*time.Hour)
			if err := repos.EntryTokens.Create(ctx, entryToken); err != nil {
				return err
			}

			results = append(results, bulkRegistrationResult{RegistrationID: reg.ID, ParticipantID: participant.ID, FullName: entry.FullName})
			badgeEntries = append(badgeEntries, badgeEntry{
				institution: entry.InstitutionName,
				badge:       ports.Badge{FullName: entry.FullName, School: entry.School, RawEntryToken: pair.Raw},
			})
		}

		return audit.Record(ctx, repos.AuditLogs, "competition", req.CompetitionID, "bulk_registered", &subject.UserID, clientIP(r), map[string]interface{}{
			"count": len(results),
		})
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	grouped := map[string][]ports.Badge{}
	for _, be := range badgeEntries {
		key := be.institution
		grouped[key] = append(grouped[key], be.badge)
	}
	institutions := make([]string, 0, len(grouped))
	for k := range grouped {
		institutions = append(institutions, k)
	}
	sort.Strings(institutions)

	var badgeURLs []string
	for _, inst := range institutions {
		pdfBytes, err := s.sheets.RenderBadgeSheet(ports.BadgeSheetRequest{InstitutionName: displayInstitution(inst), Badges: grouped[inst]})
		if err != nil {
			writeError(w, r, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to render badge sheet"))
			return
		}
		key := fmt.Sprintf("documents/badges/%s/%s.pdf", req.CompetitionID, sanitizeKey(inst))
		if err := s.objectStore.Put(r.Context(), s.cfg.ObjectStore.SheetsBucket, key, pdfBytes, "application/pdf"); err != nil {
			writeError(w, r, err)
			return
		}
		badgeURLs = append(badgeURLs, key)
	}

	writeJSON(w, http.StatusCreated, bulkRegistrationResponse{Created: results, BadgeURLs: badgeURLs})
}

func displayInstitution(name string) string {
	if name == "" {
		return "Unaffiliated"
	}
	return name
}

func sanitizeKey(name string) string {
	if name == "" {
		return "unaffiliated"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
