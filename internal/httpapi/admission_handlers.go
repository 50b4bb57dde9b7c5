package httpapi

import (
	"context"
	"net/http"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

func (s *Server) handleVerifyAdmission(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmitter); err != nil {
		writeError(w, r, err)
		return
	}
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var result *workflow.VerifyResult
	err := s.runner.RunInTx(r.Context(), func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		result, err = s.admissions.Verify(ctx, repos, req.Token)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type approveRequest struct {
	RawEntryToken string `json:"raw_entry_token" validate:"required"`
}

type approveResponse struct {
	AttemptID     domain.ID `json:"attempt_id"`
	VariantNumber int       `json:"variant_number"`
	PDFURL        string    `json:"pdf_url"`
	SheetToken    string    `json:"sheet_token"`
	RoomName      string    `json:"room_name"`
	SeatNumber    int       `json:"seat_number"`
}

func (s *Server) handleApproveAdmission(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleAdmitter); err != nil {
		writeError(w, r, err)
		return
	}
	registrationID, err := parseID(r, "registration_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.admissions.Approve(r.Context(), registrationID, req.RawEntryToken, subject.UserID, clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{
		AttemptID: result.AttemptID, VariantNumber: result.VariantNumber, PDFURL: result.PDFDownload,
		SheetToken: result.RawSheetToken, RoomName: result.RoomName, SeatNumber: result.SeatNumber,
	})
}

func (s *Server) handleDownloadSheet(w http.ResponseWriter, r *http.Request) {
	attemptID, err := parseID(r, "attempt_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	attempt, err := s.reads.Attempts.GetByID(r.Context(), attemptID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if attempt.PDFFilePath == "" {
		writeError(w, r, apperrors.NewNotFoundError("answer sheet PDF"))
		return
	}
	pdfBytes, err := s.objectStore.Get(r.Context(), s.cfg.ObjectStore.SheetsBucket, attempt.PDFFilePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
