package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type scanRow struct {
	ID            domain.ID  `db:"id"`
	AttemptID     *domain.ID `db:"attempt_id"`
	AnswerSheetID *domain.ID `db:"answer_sheet_id"`
	FilePath      string     `db:"file_path"`
	OCRScore      *int       `db:"ocr_score"`
	OCRConfidence *float64   `db:"ocr_confidence"`
	OCRRawText    string     `db:"ocr_raw_text"`
	VerifiedBy    *domain.ID `db:"verified_by"`
	UploadedBy    domain.ID  `db:"uploaded_by"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r scanRow) toDomain() *domain.Scan {
	return &domain.Scan{
		ID: r.ID, AttemptID: r.AttemptID, AnswerSheetID: r.AnswerSheetID, FilePath: r.FilePath,
		OCRScore: r.OCRScore, OCRConfidence: r.OCRConfidence, OCRRawText: r.OCRRawText,
		VerifiedBy: r.VerifiedBy, UploadedBy: r.UploadedBy, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type scanRepo struct{ q dbtx }

func (r *scanRepo) Create(ctx context.Context, s *domain.Scan) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO scans (id, attempt_id, answer_sheet_id, file_path, ocr_score, ocr_confidence, ocr_raw_text, verified_by, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.AttemptID, s.AnswerSheetID, s.FilePath, s.OCRScore, s.OCRConfidence, s.OCRRawText, s.VerifiedBy, s.UploadedBy, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert scan")
	}
	return nil
}

func (r *scanRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Scan, error) {
	var row scanRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM scans WHERE id = $1`, id); err != nil {
		return nil, notFound("scan", err)
	}
	return row.toDomain(), nil
}

func (r *scanRepo) Update(ctx context.Context, s *domain.Scan) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE scans SET attempt_id = $2, answer_sheet_id = $3, ocr_score = $4, ocr_confidence = $5,
			ocr_raw_text = $6, verified_by = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.AttemptID, s.AnswerSheetID, s.OCRScore, s.OCRConfidence, s.OCRRawText, s.VerifiedBy, s.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update scan")
	}
	return nil
}

func (r *scanRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Scan, error) {
	var rows []scanRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM scans ORDER BY created_at OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list scans")
	}
	out := make([]*domain.Scan, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *scanRepo) GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.Scan, error) {
	var rows []scanRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM scans WHERE attempt_id = $1 ORDER BY created_at`, attemptID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list scans by attempt")
	}
	out := make([]*domain.Scan, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
