package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type answerSheetRow struct {
	ID             domain.ID `db:"id"`
	AttemptID      domain.ID `db:"attempt_id"`
	SheetTokenHash string    `db:"sheet_token_hash"`
	Kind           string    `db:"kind"`
	PDFFilePath    string    `db:"pdf_file_path"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r answerSheetRow) toDomain() *domain.AnswerSheet {
	return &domain.AnswerSheet{
		ID: r.ID, AttemptID: r.AttemptID, SheetTokenHash: r.SheetTokenHash,
		Kind: domain.AnswerSheetKind(r.Kind), PDFFilePath: r.PDFFilePath, CreatedAt: r.CreatedAt,
	}
}

type answerSheetRepo struct{ q dbtx }

func (r *answerSheetRepo) Create(ctx context.Context, s *domain.AnswerSheet) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO answer_sheets (id, attempt_id, sheet_token_hash, kind, pdf_file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.AttemptID, s.SheetTokenHash, s.Kind, s.PDFFilePath, s.CreatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("answer_sheet")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert answer sheet")
	}
	return nil
}

func (r *answerSheetRepo) GetByID(ctx context.Context, id domain.ID) (*domain.AnswerSheet, error) {
	var row answerSheetRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM answer_sheets WHERE id = $1`, id); err != nil {
		return nil, notFound("answer_sheet", err)
	}
	return row.toDomain(), nil
}

func (r *answerSheetRepo) GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.AnswerSheet, error) {
	var rows []answerSheetRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM answer_sheets WHERE attempt_id = $1 ORDER BY created_at`, attemptID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list answer sheets")
	}
	out := make([]*domain.AnswerSheet, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *answerSheetRepo) GetBySheetTokenHash(ctx context.Context, hash string) (*domain.AnswerSheet, error) {
	var row answerSheetRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM answer_sheets WHERE sheet_token_hash = $1`, hash)
	if err != nil {
		return nil, notFound("answer_sheet", err)
	}
	return row.toDomain(), nil
}
