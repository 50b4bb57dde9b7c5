package httpapi

import (
	"context"
	"net/http"

	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

// handleResults is public by route but the service enforces Forbidden
// until the competition has been published (spec §6, "Results").
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	competitionID, err := parseID(r, "competition_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var rows []workflow.ResultRow
	err = s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		rows, err = s.scoring.Results(ctx, repos, competitionID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
