package domain

import (
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// EntryToken is one-to-one with a Registration. RawToken is retained so
// the participant can re-display their QR; it is never indexed and never
// returned through admitter-facing paths.
type EntryToken struct {
	ID             ID
	RegistrationID ID
	TokenHash      string
	RawToken       string
	ExpiresAt      time.Time
	UsedAt         *time.Time
	CreatedAt      time.Time
}

func NewEntryToken(registrationID ID, tokenHash, rawToken string, ttl time.Duration) *EntryToken {
	now := time.Now().UTC()
	return &EntryToken{
		ID:             NewID(),
		RegistrationID: registrationID,
		TokenHash:      tokenHash,
		RawToken:       rawToken,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
	}
}

// Valid reports whether the token is unused and not expired.
func (t *EntryToken) Valid(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// Use marks the token consumed; it fails if already used or expired.
func (t *EntryToken) Use(now time.Time) error {
	if t.UsedAt != nil {
		return apperrors.New(apperrors.ErrorTypeInvalidState, "entry token already used")
	}
	if !now.Before(t.ExpiresAt) {
		return apperrors.New(apperrors.ErrorTypeInvalidState, "entry token expired")
	}
	t.UsedAt = &now
	return nil
}

// Refresh regenerates the raw/hash pair and extends expiry in place,
// preserving the row's identity, as required for a token that is expired
// but not yet used.
func (t *EntryToken) Refresh(tokenHash, rawToken string, ttl time.Duration) error {
	if t.UsedAt != nil {
		return apperrors.New(apperrors.ErrorTypeInvalidState, "cannot refresh a used entry token")
	}
	t.TokenHash = tokenHash
	t.RawToken = rawToken
	t.ExpiresAt = time.Now().UTC().Add(ttl)
	return nil
}
