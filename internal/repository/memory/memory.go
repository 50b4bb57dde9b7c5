// Package memory is the in-memory repository test double described in
// spec §9: a map keyed by id plus the secondary indices each interface
// names. It backs workflow and HTTP-layer tests without a live Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

// Store owns every aggregate's table and implements repository.Runner by
// running callers' TxFunc under a single process-wide lock — sufficient
// for tests, where true isolation doesn't matter, but not a production
// concurrency model.
type Store struct {
	mu sync.Mutex

	users           map[domain.ID]*domain.User
	participants    map[domain.ID]*domain.Participant
	institutions    map[domain.ID]*domain.Institution
	competitions    map[domain.ID]*domain.Competition
	rooms           map[domain.ID]*domain.Room
	registrations   map[domain.ID]*domain.Registration
	entryTokens     map[domain.ID]*domain.EntryToken
	seatAssignments map[domain.ID]*domain.SeatAssignment
	attempts        map[domain.ID]*domain.Attempt
	answerSheets    map[domain.ID]*domain.AnswerSheet
	scans           map[domain.ID]*domain.Scan
	events          map[domain.ID][]*domain.ParticipantEvent
	documents       map[domain.ID][]*domain.Document
	auditLogs       []*domain.AuditLog
}

func NewStore() *Store {
	return &Store{
		users:           map[domain.ID]*domain.User{},
		participants:    map[domain.ID]*domain.Participant{},
		institutions:    map[domain.ID]*domain.Institution{},
		competitions:    map[domain.ID]*domain.Competition{},
		rooms:           map[domain.ID]*domain.Room{},
		registrations:   map[domain.ID]*domain.Registration{},
		entryTokens:     map[domain.ID]*domain.EntryToken{},
		seatAssignments: map[domain.ID]*domain.SeatAssignment{},
		attempts:        map[domain.ID]*domain.Attempt{},
		answerSheets:    map[domain.ID]*domain.AnswerSheet{},
		scans:           map[domain.ID]*domain.Scan{},
		events:          map[domain.ID][]*domain.ParticipantEvent{},
		documents:       map[domain.ID][]*domain.Document{},
	}
}

// RunInTx takes the store lock for the duration of fn. A real transaction
// would let fn's error trigger a rollback; the in-memory store has no undo
// log, so tests that need rollback semantics should assert the returned
// error directly and avoid relying on partial writes being reverted.
func (s *Store) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, s.Repositories())
}

func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:           (*userRepo)(s),
		Participants:    (*participantRepo)(s),
		Institutions:    (*institutionRepo)(s),
		Competitions:    (*competitionRepo)(s),
		Rooms:           (*roomRepo)(s),
		Registrations:   (*registrationRepo)(s),
		EntryTokens:     (*entryTokenRepo)(s),
		SeatAssignments: (*seatAssignmentRepo)(s),
		Attempts:        (*attemptRepo)(s),
		AnswerSheets:    (*answerSheetRepo)(s),
		Scans:           (*scanRepo)(s),
		ParticipantLog:  (*eventRepo)(s),
		Documents:       (*documentRepo)(s),
		AuditLogs:       (*auditLogRepo)(s),
	}
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}

func notFound(entity string) error { return apperrors.NewNotFoundError(entity) }

type userRepo Store

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	s := (*Store)(r)
	s.users[u.ID] = u
	return nil
}
func (r *userRepo) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	s := (*Store)(r)
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, notFound("user")
}
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s := (*Store)(r)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, notFound("user")
}
func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	s := (*Store)(r)
	if _, ok := s.users[u.ID]; !ok {
		return notFound("user")
	}
	s.users[u.ID] = u
	return nil
}
func (r *userRepo) Delete(ctx context.Context, id domain.ID) error {
	s := (*Store)(r)
	delete(s.users, id)
	return nil
}
func (r *userRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	s := (*Store)(r)
	all := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, skip, limit), nil
}

type participantRepo Store

func (r *participantRepo) Create(ctx context.Context, p *domain.Participant) error {
	(*Store)(r).participants[p.ID] = p
	return nil
}
func (r *participantRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Participant, error) {
	if p, ok := (*Store)(r).participants[id]; ok {
		return p, nil
	}
	return nil, notFound("participant")
}
func (r *participantRepo) GetByUserID(ctx context.Context, userID domain.ID) (*domain.Participant, error) {
	for _, p := range (*Store)(r).participants {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, notFound("participant")
}
func (r *participantRepo) Update(ctx context.Context, p *domain.Participant) error {
	s := (*Store)(r)
	if _, ok := s.participants[p.ID]; !ok {
		return notFound("participant")
	}
	s.participants[p.ID] = p
	return nil
}
func (r *participantRepo) Delete(ctx context.Context, id domain.ID) error {
	delete((*Store)(r).participants, id)
	return nil
}
func (r *participantRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Participant, error) {
	s := (*Store)(r)
	all := make([]*domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, skip, limit), nil
}

type institutionRepo Store

func (r *institutionRepo) Create(ctx context.Context, i *domain.Institution) error {
	(*Store)(r).institutions[i.ID] = i
	return nil
}
func (r *institutionRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Institution, error) {
	if i, ok := (*Store)(r).institutions[id]; ok {
		return i, nil
	}
	return nil, notFound("institution")
}
func (r *institutionRepo) GetByName(ctx context.Context, name string) (*domain.Institution, error) {
	for _, i := range (*Store)(r).institutions {
		if i.Name == name {
			return i, nil
		}
	}
	return nil, notFound("institution")
}
func (r *institutionRepo) Update(ctx context.Context, i *domain.Institution) error {
	s := (*Store)(r)
	if _, ok := s.institutions[i.ID]; !ok {
		return notFound("institution")
	}
	s.institutions[i.ID] = i
	return nil
}
func (r *institutionRepo) Delete(ctx context.Context, id domain.ID) error {
	delete((*Store)(r).institutions, id)
	return nil
}
func (r *institutionRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Institution, error) {
	s := (*Store)(r)
	all := make([]*domain.Institution, 0, len(s.institutions))
	for _, i := range s.institutions {
		all = append(all, i)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, skip, limit), nil
}
func (r *institutionRepo) Search(ctx context.Context, q string, limit int) ([]*domain.Institution, error) {
	s := (*Store)(r)
	var matches []*domain.Institution
	lowerQ := strings.ToLower(q)
	for _, i := range s.institutions {
		if strings.Contains(strings.ToLower(i.Name), lowerQ) {
			matches = append(matches, i)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return paginate(matches, 0, limit), nil
}

type competitionRepo Store

func (r *competitionRepo) Create(ctx context.Context, c *domain.Competition) error {
	(*Store)(r).competitions[c.ID] = c
	return nil
}
func (r *competitionRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Competition, error) {
	if c, ok := (*Store)(r).competitions[id]; ok {
		return c, nil
	}
	return nil, notFound("competition")
}
func (r *competitionRepo) Update(ctx context.Context, c *domain.Competition) error {
	s := (*Store)(r)
	if _, ok := s.competitions[c.ID]; !ok {
		return notFound("competition")
	}
	s.competitions[c.ID] = c
	return nil
}
func (r *competitionRepo) Delete(ctx context.Context, id domain.ID) error {
	delete((*Store)(r).competitions, id)
	return nil
}
func (r *competitionRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Competition, error) {
	s := (*Store)(r)
	all := make([]*domain.Competition, 0, len(s.competitions))
	for _, c := range s.competitions {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, skip, limit), nil
}
func (r *competitionRepo) GetByStatus(ctx context.Context, status domain.CompetitionStatus, skip, limit int) ([]*domain.Competition, error) {
	s := (*Store)(r)
	var matches []*domain.Competition
	for _, c := range s.competitions {
		if c.Status == status {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return paginate(matches, skip, limit), nil
}

type roomRepo Store

func (r *roomRepo) Create(ctx context.Context, room *domain.Room) error {
	(*Store)(r).rooms[room.ID] = room
	return nil
}
func (r *roomRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Room, error) {
	if room, ok := (*Store)(r).rooms[id]; ok {
		return room, nil
	}
	return nil, notFound("room")
}
func (r *roomRepo) Update(ctx context.Context, room *domain.Room) error {
	s := (*Store)(r)
	if _, ok := s.rooms[room.ID]; !ok {
		return notFound("room")
	}
	s.rooms[room.ID] = room
	return nil
}
func (r *roomRepo) Delete(ctx context.Context, id domain.ID) error {
	delete((*Store)(r).rooms, id)
	return nil
}
func (r *roomRepo) GetByCompetition(ctx context.Context, competitionID domain.ID) ([]*domain.Room, error) {
	s := (*Store)(r)
	var matches []*domain.Room
	for _, room := range s.rooms {
		if room.CompetitionID == competitionID {
			matches = append(matches, room)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}
func (r *roomRepo) GetByCompetitionAndName(ctx context.Context, competitionID domain.ID, name string) (*domain.Room, error) {
	s := (*Store)(r)
	for _, room := range s.rooms {
		if room.CompetitionID == competitionID && room.Name == name {
			return room, nil
		}
	}
	return nil, notFound("room")
}

type registrationRepo Store

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	(*Store)(r).registrations[reg.ID] = reg
	return nil
}
func (r *registrationRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Registration, error) {
	if reg, ok := (*Store)(r).registrations[id]; ok {
		return reg, nil
	}
	return nil, notFound("registration")
}
func (r *registrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	s := (*Store)(r)
	if _, ok := s.registrations[reg.ID]; !ok {
		return notFound("registration")
	}
	s.registrations[reg.ID] = reg
	return nil
}
func (r *registrationRepo) Delete(ctx context.Context, id domain.ID) error {
	delete((*Store)(r).registrations, id)
	return nil
}
func (r *registrationRepo) GetByParticipantAndCompetition(ctx context.Context, participantID, competitionID domain.ID) (*domain.Registration, error) {
	s := (*Store)(r)
	for _, reg := range s.registrations {
		if reg.ParticipantID == participantID && reg.CompetitionID == competitionID {
			return reg, nil
		}
	}
	return nil, notFound("registration")
}
func (r *registrationRepo) GetByParticipant(ctx context.Context, participantID domain.ID, skip, limit int) ([]*domain.Registration, error) {
	s := (*Store)(r)
	var matches []*domain.Registration
	for _, reg := range s.registrations {
		if reg.ParticipantID == participantID {
			matches = append(matches, reg)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return paginate(matches, skip, limit), nil
}
func (r *registrationRepo) GetByCompetition(ctx context.Context, competitionID domain.ID, skip, limit int) ([]*domain.Registration, error) {
	s := (*Store)(r)
	var matches []*domain.Registration
	for _, reg := range s.registrations {
		if reg.CompetitionID == competitionID {
			matches = append(matches, reg)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return paginate(matches, skip, limit), nil
}

type entryTokenRepo Store

func (r *entryTokenRepo) Create(ctx context.Context, t *domain.EntryToken) error {
	(*Store)(r).entryTokens[t.ID] = t
	return nil
}
func (r *entryTokenRepo) GetByID(ctx context.Context, id domain.ID) (*domain.EntryToken, error) {
	if t, ok := (*Store)(r).entryTokens[id]; ok {
		return t, nil
	}
	return nil, notFound("entry token")
}
func (r *entryTokenRepo) GetByHash(ctx context.Context, hash string) (*domain.EntryToken, error) {
	for _, t := range (*Store)(r).entryTokens {
		if t.TokenHash == hash {
			return t, nil
		}
	}
	return nil, notFound("entry token")
}
func (r *entryTokenRepo) GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.EntryToken, error) {
	for _, t := range (*Store)(r).entryTokens {
		if t.RegistrationID == registrationID {
			return t, nil
		}
	}
	return nil, notFound("entry token")
}
func (r *entryTokenRepo) Update(ctx context.Context, t *domain.EntryToken) error {
	s := (*Store)(r)
	if _, ok := s.entryTokens[t.ID]; !ok {
		return notFound("entry token")
	}
	s.entryTokens[t.ID] = t
	return nil
}

type seatAssignmentRepo Store

func (r *seatAssignmentRepo) Create(ctx context.Context, sa *domain.SeatAssignment) error {
	s := (*Store)(r)
	for _, existing := range s.seatAssignments {
		if existing.RoomID == sa.RoomID && existing.SeatNumber == sa.SeatNumber {
			return apperrors.NewDuplicateError("seat assignment")
		}
	}
	s.seatAssignments[sa.ID] = sa
	return nil
}
func (r *seatAssignmentRepo) GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.SeatAssignment, error) {
	for _, sa := range (*Store)(r).seatAssignments {
		if sa.RegistrationID == registrationID {
			return sa, nil
		}
	}
	return nil, notFound("seat assignment")
}
func (r *seatAssignmentRepo) GetByRoom(ctx context.Context, roomID domain.ID) ([]*domain.SeatAssignment, error) {
	s := (*Store)(r)
	var matches []*domain.SeatAssignment
	for _, sa := range s.seatAssignments {
		if sa.RoomID == roomID {
			matches = append(matches, sa)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].SeatNumber < matches[j].SeatNumber })
	return matches, nil
}
func (r *seatAssignmentRepo) CountByRoomAndInstitution(ctx context.Context, roomID, institutionID domain.ID) (int, error) {
	s := (*Store)(r)
	count := 0
	for _, sa := range s.seatAssignments {
		if sa.RoomID != roomID {
			continue
		}
		reg, ok := s.registrations[sa.RegistrationID]
		if !ok {
			continue
		}
		p, ok := s.participants[reg.ParticipantID]
		if !ok || p.InstitutionID == nil {
			continue
		}
		if *p.InstitutionID == institutionID {
			count++
		}
	}
	return count, nil
}

type attemptRepo Store

func (r *attemptRepo) Create(ctx context.Context, a *domain.Attempt) error {
	(*Store)(r).attempts[a.ID] = a
	return nil
}
func (r *attemptRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Attempt, error) {
	if a, ok := (*Store)(r).attempts[id]; ok {
		return a, nil
	}
	return nil, notFound("attempt")
}
func (r *attemptRepo) GetByRegistration(ctx context.Context, registrationID domain.ID) (*domain.Attempt, error) {
	for _, a := range (*Store)(r).attempts {
		if a.RegistrationID == registrationID {
			return a, nil
		}
	}
	return nil, notFound("attempt")
}
func (r *attemptRepo) GetBySheetTokenHash(ctx context.Context, hash string) (*domain.Attempt, error) {
	for _, a := range (*Store)(r).attempts {
		if a.SheetTokenHash == hash {
			return a, nil
		}
	}
	return nil, notFound("attempt")
}
func (r *attemptRepo) Update(ctx context.Context, a *domain.Attempt) error {
	s := (*Store)(r)
	if _, ok := s.attempts[a.ID]; !ok {
		return notFound("attempt")
	}
	s.attempts[a.ID] = a
	return nil
}
func (r *attemptRepo) Delete(ctx context.Context, id domain.ID) error {
	delete((*Store)(r).attempts, id)
	return nil
}
func (r *attemptRepo) GetResultsForCompetition(ctx context.Context, competitionID domain.ID) ([]*domain.Attempt, error) {
	s := (*Store)(r)
	var matches []*domain.Attempt
	for _, a := range s.attempts {
		if a.Status != domain.AttemptScored && a.Status != domain.AttemptPublished {
			continue
		}
		if a.ScoreTotal == nil {
			continue
		}
		reg, ok := s.registrations[a.RegistrationID]
		if !ok || reg.CompetitionID != competitionID {
			continue
		}
		matches = append(matches, a)
	}
	return matches, nil
}

type answerSheetRepo Store

func (r *answerSheetRepo) Create(ctx context.Context, sheet *domain.AnswerSheet) error {
	(*Store)(r).answerSheets[sheet.ID] = sheet
	return nil
}
func (r *answerSheetRepo) GetByID(ctx context.Context, id domain.ID) (*domain.AnswerSheet, error) {
	if sheet, ok := (*Store)(r).answerSheets[id]; ok {
		return sheet, nil
	}
	return nil, notFound("answer sheet")
}
func (r *answerSheetRepo) GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.AnswerSheet, error) {
	s := (*Store)(r)
	var matches []*domain.AnswerSheet
	for _, sheet := range s.answerSheets {
		if sheet.AttemptID == attemptID {
			matches = append(matches, sheet)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches, nil
}
func (r *answerSheetRepo) GetBySheetTokenHash(ctx context.Context, hash string) (*domain.AnswerSheet, error) {
	for _, sheet := range (*Store)(r).answerSheets {
		if sheet.SheetTokenHash == hash {
			return sheet, nil
		}
	}
	return nil, notFound("answer sheet")
}

type scanRepo Store

func (r *scanRepo) Create(ctx context.Context, sc *domain.Scan) error {
	(*Store)(r).scans[sc.ID] = sc
	return nil
}
func (r *scanRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Scan, error) {
	if sc, ok := (*Store)(r).scans[id]; ok {
		return sc, nil
	}
	return nil, notFound("scan")
}
func (r *scanRepo) Update(ctx context.Context, sc *domain.Scan) error {
	s := (*Store)(r)
	if _, ok := s.scans[sc.ID]; !ok {
		return notFound("scan")
	}
	s.scans[sc.ID] = sc
	return nil
}
func (r *scanRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.Scan, error) {
	s := (*Store)(r)
	all := make([]*domain.Scan, 0, len(s.scans))
	for _, sc := range s.scans {
		all = append(all, sc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, skip, limit), nil
}
func (r *scanRepo) GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.Scan, error) {
	s := (*Store)(r)
	var matches []*domain.Scan
	for _, sc := range s.scans {
		if sc.AttemptID != nil && *sc.AttemptID == attemptID {
			matches = append(matches, sc)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches, nil
}

type eventRepo Store

func (r *eventRepo) Create(ctx context.Context, e *domain.ParticipantEvent) error {
	s := (*Store)(r)
	s.events[e.AttemptID] = append(s.events[e.AttemptID], e)
	return nil
}
func (r *eventRepo) GetByAttempt(ctx context.Context, attemptID domain.ID) ([]*domain.ParticipantEvent, error) {
	return (*Store)(r).events[attemptID], nil
}

type documentRepo Store

func (r *documentRepo) Create(ctx context.Context, d *domain.Document) error {
	s := (*Store)(r)
	s.documents[d.ParticipantID] = append(s.documents[d.ParticipantID], d)
	return nil
}
func (r *documentRepo) GetByParticipant(ctx context.Context, participantID domain.ID) ([]*domain.Document, error) {
	return (*Store)(r).documents[participantID], nil
}
func (r *documentRepo) Delete(ctx context.Context, id domain.ID) error {
	s := (*Store)(r)
	for pid, docs := range s.documents {
		for i, d := range docs {
			if d.ID == id {
				s.documents[pid] = append(docs[:i], docs[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type auditLogRepo Store

func (r *auditLogRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	s := (*Store)(r)
	s.auditLogs = append(s.auditLogs, a)
	return nil
}
func (r *auditLogRepo) GetAll(ctx context.Context, skip, limit int) ([]*domain.AuditLog, error) {
	s := (*Store)(r)
	return paginate(s.auditLogs, skip, limit), nil
}
func (r *auditLogRepo) GetByEntity(ctx context.Context, entityType string, entityID domain.ID) ([]*domain.AuditLog, error) {
	s := (*Store)(r)
	var matches []*domain.AuditLog
	for _, a := range s.auditLogs {
		if a.EntityType == entityType && a.EntityID == entityID {
			matches = append(matches, a)
		}
	}
	return matches, nil
}
