package domain

import "time"

// SeatAssignment is unique per Registration, and the pair (room_id,
// seat_number) is unique per Room — that uniqueness constraint is the
// concurrency backstop for the seating scheduler (component E).
type SeatAssignment struct {
	ID             ID
	RegistrationID ID
	RoomID         ID
	SeatNumber     int
	VariantNumber  int
	CreatedAt      time.Time
}

func NewSeatAssignment(registrationID, roomID ID, seatNumber, variantNumber int) *SeatAssignment {
	return &SeatAssignment{
		ID:             NewID(),
		RegistrationID: registrationID,
		RoomID:         roomID,
		SeatNumber:     seatNumber,
		VariantNumber:  variantNumber,
		CreatedAt:      time.Now().UTC(),
	}
}
