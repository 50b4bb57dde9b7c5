package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/audit"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/ports"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/token"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

type recordEventRequest struct {
	AttemptID domain.ID `json:"attempt_id" validate:"required"`
	EventType string    `json:"event_type" validate:"required"`
}

func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleInvigilator); err != nil {
		writeError(w, r, err)
		return
	}
	var req recordEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	event, err := domain.NewParticipantEvent(req.AttemptID, domain.EventType(req.EventType), subject.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.reads.ParticipantLog.Create(r.Context(), event); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) handleListAttemptEvents(w http.ResponseWriter, r *http.Request) {
	attemptID, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	events, err := s.reads.ParticipantLog.GetByAttempt(r.Context(), attemptID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type extraSheetRequest struct {
	AttemptID domain.ID `json:"attempt_id" validate:"required"`
}

type extraSheetResponse struct {
	AnswerSheetID domain.ID `json:"answer_sheet_id"`
	SheetToken    string    `json:"sheet_token"`
	PDFURL        string    `json:"pdf_url"`
}

// handleIssueExtraSheet prints an additional answer sheet for an attempt
// already in progress, e.g. after the participant spoils the primary one.
func (s *Server) handleIssueExtraSheet(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleInvigilator); err != nil {
		writeError(w, r, err)
		return
	}
	var req extraSheetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var resp extraSheetResponse
	err := s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		attempt, err := repos.Attempts.GetByID(ctx, req.AttemptID)
		if err != nil {
			return err
		}
		reg, err := repos.Registrations.GetByID(ctx, attempt.RegistrationID)
		if err != nil {
			return err
		}
		comp, err := repos.Competitions.GetByID(ctx, reg.CompetitionID)
		if err != nil {
			return err
		}

		pair, err := s.tokens.Generate(token.DefaultSizeBytes)
		if err != nil {
			return err
		}
		sheet, err := domain.NewAnswerSheet(attempt.ID, pair.Hash, domain.AnswerSheetExtra, "")
		if err != nil {
			return err
		}

		pdfBytes, err := s.sheets.RenderAnswerSheet(ports.AnswerSheetRequest{
			CompetitionName: comp.Name,
			VariantNumber:   attempt.VariantNumber,
			RawSheetToken:   pair.Raw,
			ScoreFieldXMM:   s.cfg.OCR.ScoreFieldXMM,
			ScoreFieldYMM:   s.cfg.OCR.ScoreFieldYMM,
			ScoreFieldWMM:   s.cfg.OCR.ScoreFieldWidthMM,
			ScoreFieldHMM:   s.cfg.OCR.ScoreFieldHeightMM,
		})
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to render extra answer sheet")
		}

		objectKey := fmt.Sprintf("sheets/extra/%s/%s.pdf", attempt.ID, sheet.ID)
		if err := s.objectStore.Put(ctx, s.cfg.ObjectStore.SheetsBucket, objectKey, pdfBytes, "application/pdf"); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to upload extra answer sheet")
		}
		sheet.PDFFilePath = objectKey

		if err := repos.AnswerSheets.Create(ctx, sheet); err != nil {
			return err
		}
		if err := audit.Record(ctx, repos.AuditLogs, "answer_sheet", sheet.ID, "extra_issued", &subject.UserID, clientIP(r), map[string]interface{}{
			"attempt_id": attempt.ID,
		}); err != nil {
			return err
		}

		resp = extraSheetResponse{AnswerSheetID: sheet.ID, SheetToken: pair.Raw, PDFURL: fmt.Sprintf("admission/sheets/%s/download", attempt.ID)}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
