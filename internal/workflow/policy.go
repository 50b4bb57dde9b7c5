package workflow

import (
	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

// Subject is the authenticated principal the gate checks against, bound
// from the JWT claims at the HTTP layer.
type Subject struct {
	UserID   domain.ID
	Role     domain.Role
	IsActive bool
}

// RequireRole rejects with Unauthenticated if subject is nil, Forbidden
// if inactive or lacking the role. Admin satisfies every role check.
func RequireRole(subject *Subject, allowed ...domain.Role) error {
	if subject == nil {
		return apperrors.NewAuthError("authentication required")
	}
	if !subject.IsActive {
		return apperrors.NewForbiddenError("account is inactive")
	}
	if subject.Role == domain.RoleAdmin {
		return nil
	}
	for _, role := range allowed {
		if subject.Role == role {
			return nil
		}
	}
	return apperrors.NewForbiddenError("insufficient role for this operation")
}

// RequireOwnership additionally checks that a participant subject owns the
// given participant row; any other role passes this check unconditionally
// (its role requirement was already enforced by RequireRole).
func RequireOwnership(subject *Subject, resourceOwnerUserID domain.ID) error {
	if subject.Role != domain.RoleParticipant {
		return nil
	}
	if subject.UserID != resourceOwnerUserID {
		return apperrors.NewForbiddenError("cannot access another participant's resource")
	}
	return nil
}
