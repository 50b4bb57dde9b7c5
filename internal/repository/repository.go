// Package repository declares the per-aggregate storage contracts workflows
// compose into a single transaction (component C). Concrete adapters live
// in repository/postgres (sqlx over pgx) and repository/memory (an
// in-memory test double keyed by id plus the secondary indices each
// interface names).
package repository

import (
	"context"

	"github.com/olympiadqr/olympiadqr/internal/domain"
)

// TxFunc is the unit of work a Runner executes inside one transaction; any
// returned error rolls the transaction back.
type TxFunc func(ctx context.Context, repos *Repositories) error

// Runner opens one session/transaction per call and commits on success,
// rolling back on any error TxFunc returns — including an audit-write
// failure, which must abort the whole operation rather than be swallowed.
type Runner interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}

// Repositories bundles every aggregate's repository so a workflow can pull
// exactly the handles it needs out of the transaction it's given.
type Repositories struct {
	Users           UserRepository
	Participants    ParticipantRepository
	Institutions    InstitutionRepository
	Competitions    CompetitionRepository
	Rooms           RoomRepository
	Registrations   RegistrationRepository
	EntryTokens     EntryTokenRepository
	SeatAssignments SeatAssignmentRepository
	Attempts        AttemptRepository
	AnswerSheets    AnswerSheetRepository
	Scans           ScanRepository
	ParticipantLog  ParticipantEventRepository
	Documents       DocumentRepository
	AuditLogs       AuditLogRepository
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id domain.ID) error
	GetAll(ctx context.Context, skip, limit int) ([]*domain.User, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *domain.Participant) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Participant, error)
	GetByUserID(ctx context.Context, userID domain.ID) (*domain.Participant, error)
	Update(ctx context.Context, p *domain.Participant) error
	Delete(ctx context.Context, id domain.ID) error
	GetAll(ctx context.Context, skip, limit int) ([]*domain.Participant, error)
}

type InstitutionRepository interface {
	Create(ctx context.Context, i *domain.Institution) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Institution, error)
	GetByName(ctx context.Context, name string) (*domain.Institution, error)
	Update(ctx context.Context, i *domain.Institution) error
	Delete(ctx context.Context, id domain.ID) error
	GetAll(ctx context.Context, skip, limit int) ([]*domain.Institution, error)
	// Search returns institutions whose name contains q, for autocomplete.
	Search(ctx context.Context, q string, limit int) ([]*domain.Institution, error)
}

type CompetitionRepository interface {
	Create(ctx context.Context, c *domain.Competition) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Competition, error)
	Update(ctx context.Context, c *domain.Competition) error
	Delete(ctx context.Context, id domain.ID) error
	GetAll(ctx context.Context, skip, limit int) ([]*domain.Competition, error)
	GetByStatus(ctx context.Context, status domain.CompetitionStatus, skip, limit int) ([]*domain.Competition, error)
}

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, id domain.ID) error
	GetByCompetition(ctx context.Context, competitionID domain.ID) ([]*domain.Room, error)
	GetByCompetitionAndName(ctx context.Context, competitionID domain.ID, name string) (*domain.Room, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, r *domain.Registration) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Registration, error)
	Update(ctx context.Context, r *domain.Registration) error
	Delete(ctx context.Context, id domain.ID) error
	GetByParticipantAndCompetition(ctx context.Context, participantID, competitionID domain.ID) (*domain.Registration, error)
	GetByParticipant(ctx context.Context, participantID domain.ID, skip, limit int) ([]*domain.Registration, error)
	GetByCompetition(ctx context.Context, competitionID domain.ID, skip, limit int) ([]*domain.Registration, error)
}

type EntryTokenRepository interface {
	Create(ctx context.Context, t *domain.EntryToken) error
	GetByID(ctx context.Context, id domain.ID) (*domain.EntryToken, error)
	GetByHash(ctx context.Context, hash string) (*domain.EntryToken, error)
	GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.EntryToken, error)
	Update(ctx context.Context, t *domain.EntryToken) error
}

type SeatAssignmentRepository interface {
	Create(ctx context.Context, s *domain.SeatAssignment) error
	GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.SeatAssignment, error)
	GetByRoom(ctx context.Context, roomID domain.ID) ([]*domain.SeatAssignment, error)
	CountByRoomAndInstitution(ctx context.Context, roomID, institutionID domain.ID) (int, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, a *domain.Attempt) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Attempt, error)
	GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.Attempt, error)
	GetBySheetTokenHash(ctx context.Context, hash string) (*domain.Attempt, error)
	Update(ctx context.Context, a *domain.Attempt) error
	Delete(ctx context.Context, id domain.ID) error
	// GetResultsForCompetition returns scored/published attempts for the
	// given competition, joined information left to the workflow.
	GetResultsForCompetition(ctx context.Context, competitionID domain.ID) ([]*domain.Attempt, error)
}

type AnswerSheetRepository interface {
	Create(ctx context.Context, s *domain.AnswerSheet) error
	GetByID(ctx context.Context, id domain.ID) (*domain.AnswerSheet, error)
	GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.AnswerSheet, error)
	GetBySheetTokenHash(ctx context.Context, hash string) (*domain.AnswerSheet, error)
}

type ScanRepository interface {
	Create(ctx context.Context, s *domain.Scan) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Scan, error)
	Update(ctx context.Context, s *domain.Scan) error
	GetAll(ctx context.Context, skip, limit int) ([]*domain.Scan, error)
	GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.Scan, error)
}

type ParticipantEventRepository interface {
	Create(ctx context.Context, e *domain.ParticipantEvent) error
	GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.ParticipantEvent, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByParticipant(ctx context.Context, participantID domain.ID) ([]*domain.Document, error)
	Delete(ctx context.Context, id domain.ID) error
}

type AuditLogRepository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	GetAll(ctx context.Context, skip, limit int) ([]*domain.AuditLog, error)
	GetByEntity(ctx context.Context, entityType string, entityID domain.ID) ([]*domain.AuditLog, error)
}
