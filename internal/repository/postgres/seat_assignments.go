package postgres

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

type seatAssignmentRow struct {
	ID             domain.ID `db:"id"`
	RegistrationID domain.ID `db:"registration_id"`
	RoomID         domain.ID `db:"room_id"`
	SeatNumber     int       `db:"seat_number"`
	VariantNumber  int       `db:"variant_number"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r seatAssignmentRow) toDomain() *domain.SeatAssignment {
	return &domain.SeatAssignment{
		ID: r.ID, RegistrationID: r.RegistrationID, RoomID: r.RoomID,
		SeatNumber: r.SeatNumber, VariantNumber: r.VariantNumber, CreatedAt: r.CreatedAt,
	}
}

type seatAssignmentRepo struct{ q dbtx }

func (r *seatAssignmentRepo) Create(ctx context.Context, s *domain.SeatAssignment) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO seat_assignments (id, registration_id, room_id, seat_number, variant_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.RegistrationID, s.RoomID, s.SeatNumber, s.VariantNumber, s.CreatedAt)
	if uniqueViolation(err) {
		return apperrors.NewConflictError("seat already assigned")
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to insert seat assignment")
	}
	return nil
}

func (r *seatAssignmentRepo) GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.SeatAssignment, error) {
	var row seatAssignmentRow
	err := r.q.GetContext(ctx, &row, `SELECT * FROM seat_assignments WHERE registration_id = $1`, registrationID)
	if err != nil {
		return nil, notFound("seat_assignment", err)
	}
	return row.toDomain(), nil
}

func (r *seatAssignmentRepo) GetByRoom(ctx context.Context, roomID domain.ID) ([]*domain.SeatAssignment, error) {
	var rows []seatAssignmentRow
	err := r.q.SelectContext(ctx, &rows, `SELECT * FROM seat_assignments WHERE room_id = $1 ORDER BY seat_number`, roomID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to list seat assignments")
	}
	out := make([]*domain.SeatAssignment, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *seatAssignmentRepo) CountByRoomAndInstitution(ctx context.Context, roomID, institutionID domain.ID) (int, error) {
	var count int
	err := r.q.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM seat_assignments sa
		JOIN registrations reg ON reg.id = sa.registration_id
		JOIN participants p ON p.id = reg.participant_id
		WHERE sa.room_id = $1 AND p.institution_id = $2`, roomID, institutionID)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to count seat assignments by institution")
	}
	return count, nil
}
