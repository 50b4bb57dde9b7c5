package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

const maxScanUploadBytes = 50 << 20 // 50 MiB, spec §4.H step (a)

// allowedScanContentTypes maps the sniffed MIME type of an uploaded scan to
// the object-store extension and whether it's a PDF needing rasterization.
var allowedScanContentTypes = map[string]struct {
	ext   string
	isPDF bool
}{
	"image/png":       {"png", false},
	"image/jpeg":      {"jpg", false},
	"application/pdf": {"pdf", true},
}

// classifyScan sniffs the actual file content (never trusting the
// client-supplied filename or form field) and rejects anything outside
// spec §4.H's allowed MIME set.
func classifyScan(data []byte) (ext string, isPDF bool, contentType string, err error) {
	detected := http.DetectContentType(data)
	info, ok := allowedScanContentTypes[detected]
	if !ok {
		return "", false, "", apperrors.NewValidationError(fmt.Sprintf("unsupported file type %q: must be image/png, image/jpeg, or application/pdf", detected))
	}
	return info.ext, info.isPDF, detected, nil
}

type scanUploadResponse struct {
	ScanID domain.ID `json:"scan_id"`
	TaskID string    `json:"task_id"`
}

// handleUploadScan accepts a multipart scan image or PDF, stores it, and
// enqueues the OCR job; it never blocks on OCR itself (spec §6, 202).
func (s *Server) handleUploadScan(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleScanner, domain.RoleInvigilator); err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxScanUploadBytes); err != nil {
		writeError(w, r, apperrors.NewValidationError("failed to parse multipart upload"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperrors.NewValidationError("missing file field"))
		return
	}
	defer file.Close()

	data, err := readAllLimited(file, maxScanUploadBytes)
	if err != nil {
		writeError(w, r, apperrors.NewValidationError("failed to read uploaded file"))
		return
	}

	ext, isPDF, contentType, err := classifyScan(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scan, err := domain.NewScan("pending", subject.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	objectKey := fmt.Sprintf("scans/%s.%s", scan.ID, ext)
	if err := s.objectStore.Put(r.Context(), s.cfg.ObjectStore.ScansBucket, objectKey, data, contentType); err != nil {
		writeError(w, r, err)
		return
	}
	scan.FilePath = objectKey

	if err := s.reads.Scans.Create(r.Context(), scan); err != nil {
		writeError(w, r, err)
		return
	}

	taskID, err := s.jobQueue.Enqueue(r.Context(), "process_scan_ocr", map[string]interface{}{
		"scan_id": scan.ID.String(),
		"is_pdf":  isPDF,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, scanUploadResponse{ScanID: scan.ID, TaskID: taskID})
}

func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleScanner, domain.RoleInvigilator, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	skip, limit := pageParams(r)
	scans, err := s.reads.Scans.GetAll(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	scan, err := s.reads.Scans.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

func (s *Server) handleGetScanImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	scan, err := s.reads.Scans.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := s.objectStore.Get(r.Context(), s.cfg.ObjectStore.ScansBucket, scan.FilePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	contentType := "image/jpeg"
	if strings.HasSuffix(scan.FilePath, ".pdf") {
		contentType = "application/pdf"
	} else if strings.HasSuffix(scan.FilePath, ".png") {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type verifyScanRequest struct {
	CorrectedScore int `json:"corrected_score" validate:"min=0"`
}

func (s *Server) handleVerifyScan(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleScanner, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req verifyScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.scoring.VerifyScan(r.Context(), id, subject.UserID, req.CorrectedScore); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type applyScoreRequest struct {
	Score int `json:"score" validate:"min=0"`
}

func (s *Server) handleApplyScore(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := workflow.RequireRole(subject, domain.RoleScanner, domain.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	attemptID, err := parseID(r, "attempt_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req applyScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.scoring.ApplyScore(r.Context(), attemptID, subject.UserID, req.Score); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
