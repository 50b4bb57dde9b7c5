package domain

import (
	"strings"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// Role is a closed enum of login-principal roles. Admin is a superset of
// every other role for every gated action (component J).
type Role string

const (
	RoleParticipant Role = "participant"
	RoleAdmitter    Role = "admitter"
	RoleScanner     Role = "scanner"
	RoleInvigilator Role = "invigilator"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleParticipant, RoleAdmitter, RoleScanner, RoleInvigilator, RoleAdmin:
		return true
	}
	return false
}

// User is the login principal. Role transitions are not enforced; an
// admin may reassign any role freely.
type User struct {
	ID           ID
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates email/role and constructs an active User.
func NewUser(email, passwordHash string, role Role) (*User, error) {
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("email must contain a valid address with '@'")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role: " + string(role))
	}
	now := time.Now().UTC()
	return &User{
		ID:           NewID(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ChangeRole reassigns a user's role; admins may always do this.
func (u *User) ChangeRole(role Role) error {
	if !role.Valid() {
		return apperrors.NewValidationError("unknown role: " + string(role))
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate marks the user inactive, blocking it from the policy gate.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}
