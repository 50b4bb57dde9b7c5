// Package seating places a pending registration into a room, seat, and
// variant, spreading participants from the same institution across rooms
// (component E).
package seating

import (
	"context"
	"errors"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
)

// ErrNoRooms signals the competition has no rooms at all; the caller
// falls back to a uniformly random variant with no seat assignment.
var ErrNoRooms = errors.New("competition has no rooms")

// Assign implements the algorithm in full: idempotent on an existing
// assignment, minimising same-institution co-location per room, breaking
// ties by free-seat count, and cycling the variant with the seat number.
func Assign(ctx context.Context, repos *repository.Repositories, registration *domain.Registration, participant *domain.Participant, variantsCount int) (*domain.SeatAssignment, error) {
	if existing, err := repos.SeatAssignments.GetByRegistration(ctx, registration.ID); err == nil {
		return existing, nil
	}

	rooms, err := repos.Rooms.GetByCompetition(ctx, registration.CompetitionID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrNoRooms
	}

	type candidate struct {
		room              *domain.Room
		sameInstitution   int
		freeSeats         int
		occupiedSeatNums  map[int]bool
	}

	var best *candidate
	for _, room := range rooms {
		existing, err := repos.SeatAssignments.GetByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		occupied := make(map[int]bool, len(existing))
		for _, sa := range existing {
			occupied[sa.SeatNumber] = true
		}
		free := room.Capacity - len(existing)
		if free <= 0 {
			continue
		}

		sameInstitution := 0
		if participant.InstitutionID != nil {
			count, err := repos.SeatAssignments.CountByRoomAndInstitution(ctx, room.ID, *participant.InstitutionID)
			if err != nil {
				return nil, err
			}
			sameInstitution = count
		}

		cand := &candidate{room: room, sameInstitution: sameInstitution, freeSeats: free, occupiedSeatNums: occupied}
		if best == nil ||
			cand.sameInstitution < best.sameInstitution ||
			(cand.sameInstitution == best.sameInstitution && cand.freeSeats > best.freeSeats) {
			best = cand
		}
	}

	if best == nil {
		return nil, apperrors.New(apperrors.ErrorTypeConflict, "no room has free capacity")
	}

	seatNumber := 1
	for best.occupiedSeatNums[seatNumber] {
		seatNumber++
	}

	variant := (seatNumber % variantsCount) + 1

	assignment := domain.NewSeatAssignment(registration.ID, best.room.ID, seatNumber, variant)
	if err := repos.SeatAssignments.Create(ctx, assignment); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeConflict,
			"seat assignment conflicted, retry with refreshed counts")
	}
	return assignment, nil
}
