package httpapi

import (
	"context"

	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

type contextKey int

const subjectContextKey contextKey = iota

func withSubject(ctx context.Context, subject *workflow.Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// subjectFrom returns the authenticated principal bound by requireAuth, or
// nil on an unauthenticated request (public routes never call this).
func subjectFrom(ctx context.Context) *workflow.Subject {
	s, _ := ctx.Value(subjectContextKey).(*workflow.Subject)
	return s
}
