package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type documentRow struct {
	ID            domain.ID `db:"id"`
	ParticipantID domain.ID `db:"participant_id"`
	FilePath      string    `db:"file_path"`
	FileType      string    `db:"file_type"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r documentRow) toDomain() *domain.Document {
	return &domain.Document{
		ID: r.ID, ParticipantID: r.ParticipantID, FilePath: r.FilePath, FileType: r.FileType, CreatedAt: r.CreatedAt,
	}
}

type documentRepo struct{ q dbtx }

func (r *documentRepo) Create(ctx context.Context, d *domain.Document) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO documents (id, participant_id, file_path, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.ParticipantID, d.FilePath, d.FileType, d.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert document")
	}
	return nil
}

func (r *documentRepo) GetByParticipant(ctx context.Context, participantID domain.ID) ([]*domain.Document, error) {
	var rows []documentRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM documents WHERE participant_id = $1 ORDER BY created_at`, participantID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list documents")
	}
	out := make([]*domain.Document, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *documentRepo) Delete(ctx context.Context, id domain.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to delete document")
	}
	return nil
}
