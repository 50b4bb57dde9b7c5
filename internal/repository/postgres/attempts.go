package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type attemptRow struct {
	ID             domain.ID `db:"id"`
	RegistrationID domain.ID `db:"registration_id"`
	VariantNumber  int       `db:"variant_number"`
	SheetTokenHash string    `db:"sheet_token_hash"`
	Status         string    `db:"status"`
	ScoreTotal     *int      `db:"score_total"`
	Confidence     *float64  `db:"confidence"`
	PDFFilePath    string    `db:"pdf_file_path"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r attemptRow) toDomain() *domain.Attempt {
	return &domain.Attempt{
		ID: r.ID, RegistrationID: r.RegistrationID, VariantNumber: r.VariantNumber,
		SheetTokenHash: r.SheetTokenHash, Status: domain.AttemptStatus(r.Status),
		ScoreTotal: r.ScoreTotal, Confidence: r.Confidence, PDFFilePath: r.PDFFilePath,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type attemptRepo struct{ q dbtx }

func (r *attemptRepo) Create(ctx context.Context, a *domain.Attempt) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO attempts (id, registration_id, variant_number, sheet_token_hash, status, score_total, confidence, pdf_file_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.RegistrationID, a.VariantNumber, a.SheetTokenHash, a.Status, a.ScoreTotal, a.Confidence, a.PDFFilePath, a.CreatedAt, a.UpdatedAt)
	if uniqueViolation(err) {
		return apperrors.NewDuplicateError("attempt")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert attempt")
	}
	return nil
}

func (r *attemptRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Attempt, error) {
	var row attemptRow
	if err := r.q.GetContext(ctx, &row, `SELECT * FROM attempts WHERE id = $1`, id); err != nil {
		return nil, notFound("attempt", err)
	}
	return row.toDomain(), nil
}

func (r *attemptRepo) GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.Attempt, error) {
	var row attemptRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM attempts WHERE registration_id = $1`, registrationID)
	if err != nil {
		return nil, notFound("attempt", err)
	}
	return row.toDomain(), nil
}

func (r *attemptRepo) GetBySheetTokenHash(ctx context.Context, hash string) (*domain.Attempt, error) {
	var row attemptRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM attempts WHERE sheet_token_hash = $1`, hash)
	if err != nil {
		return nil, notFound("attempt", err)
	}
	return row.toDomain(), nil
}

func (r *attemptRepo) Update(ctx context.Context, a *domain.Attempt) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE attempts SET status = $2, score_total = $3, confidence = $4, pdf_file_path = $5, updated_at = $6
		WHERE id = $1`,
		a.ID, a.Status, a.ScoreTotal, a.Confidence, a.PDFFilePath, a.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to update attempt")
	}
	return nil
}

func (r *attemptRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM attempts WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete attempt")
	}
	return nil
}

// GetResultsForCompetition returns scored/published attempts joined
// through registrations for the given competition; ranking is computed by
// the scoring workflow, not here.
func (r *attemptRepo) GetResultsForCompetition(ctx context.Context, competitionID domain.ID) ([]*domain.Attempt, error) {
	var rows []attemptRow
	err := r.q.SelectContext(ctx, &rows, `
		SELECT a.* FROM attempts a
		JOIN registrations reg ON reg.id = a.registration_id
		WHERE reg.competition_id = $1 AND a.status IN ('scored', 'published') AND a.score_total IS NOT NULL
		ORDER BY a.score_total DESC`, competitionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to query competition results")
	}
	out := make([]*domain.Attempt, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
