package httpapi

import (
	"context"
	"net/http"

	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	competitionID, err := parseID(r, "competition_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rooms, err := s.reads.Rooms.GetByCompetition(r.Context(), competitionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

type createRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	subject := s.requireAdmin(w, r)
	if subject == nil {
		return
	}
	competitionID, err := parseID(r, "competition_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, validationError(err))
		return
	}
	room, err := domain.NewRoom(competitionID, req.Name, req.Capacity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Rooms.Create(ctx, room); err != nil {
			return err
		}
		return audit.Record(ctx, repos.AuditLogs, "room", room.ID, "created", &subject.UserID, clientIP(r), nil)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}
