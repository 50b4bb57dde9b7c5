// Package postgres implements every repository interface in
// internal/repository over sqlx + pgx, the production counterpart to
// repository/memory's in-memory test double.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

// dbtx is the subset of *sqlx.DB / *sqlx.Tx every repo needs; it lets the
// same repo implementation run against either a pooled connection or an
// open transaction.
type dbtx interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Runner opens one Postgres transaction per call, building a Repositories
// bundle bound to that transaction, and commits on success or rolls back
// on any error fn returns.
type Runner struct {
	db *sqlx.DB
}

func NewRunner(db *sqlx.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to begin transaction")
	}

	if err := fn(ctx, reposFor(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return apperrors.Wrap(rbErr, apperrors.ErrorTypeDatabase, "failed to roll back transaction after: "+err.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to commit transaction")
	}
	return nil
}

// Repositories returns a bundle bound directly to the connection pool, for
// call sites that run single statements outside a transaction (the HTTP
// layer's list/get reads and its single-row writes such as scan uploads).
func Repositories(db *sqlx.DB) *repository.Repositories {
	return reposFor(db)
}

func reposFor(q dbtx) *repository.Repositories {
	return &repository.Repositories{
		Users:           &userRepo{q},
		Participants:    &participantRepo{q},
		Institutions:    &institutionRepo{q},
		Competitions:    &competitionRepo{q},
		Rooms:           &roomRepo{q},
		Registrations:   &registrationRepo{q},
		EntryTokens:     &entryTokenRepo{q},
		SeatAssignments: &seatAssignmentRepo{q},
		Attempts:        &attemptRepo{q},
		AnswerSheets:    &answerSheetRepo{q},
		Scans:           &scanRepo{q},
		ParticipantLog:  &eventRepo{q},
		Documents:       &documentRepo{q},
		AuditLogs:       &auditLogRepo{q},
	}
}

// uniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505), which the repos map to a conflict AppError
// (apperrors.NewDuplicateError, or NewConflictError for seat assignments).
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func notFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(entity)
	}
	return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "failed to query "+entity)
}
