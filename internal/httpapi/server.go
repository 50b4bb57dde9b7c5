// Package httpapi is the composition root's HTTP transport: a chi router
// binding every workflow service to the endpoints named in spec §6, JWT
// authentication, and the JSON request/response conventions shared by
// every handler in this package.
package httpapi

import (
	"github.com/olympiadqr/olympiadqr/internal/auth"
	"github.com/olympiadqr/olympiadqr/internal/config"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/ports"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/token"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

// Server holds every dependency a handler needs. Handler methods are
// defined on *Server across this package's other files, grouped the way
// the workflow package groups its services.
type Server struct {
	cfg *config.Config

	runner repository.Runner
	reads  *repository.Repositories

	tokens *token.Service
	jwt    *auth.Service

	objectStore ports.ObjectStore
	sheets      ports.SheetRenderer
	jobQueue    ports.JobQueue
	metrics     *metrics.Metrics

	registrations *workflow.RegistrationService
	admissions    *workflow.AdmissionService
	scoring       *workflow.ScoringService
	competitions  *workflow.CompetitionService
}

// NewServer wires the handlers to the services and the pool-bound
// (non-transactional) repository bundle the composition root
// (cmd/apiserver) constructs.
func NewServer(
	cfg *config.Config,
	runner repository.Runner,
	reads *repository.Repositories,
	tokens *token.Service,
	jwt *auth.Service,
	objectStore ports.ObjectStore,
	sheets ports.SheetRenderer,
	jobQueue ports.JobQueue,
	m *metrics.Metrics,
	registrations *workflow.RegistrationService,
	admissions *workflow.AdmissionService,
	scoring *workflow.ScoringService,
	competitions *workflow.CompetitionService,
) *Server {
	return &Server{
		cfg: cfg, runner: runner, reads: reads, tokens: tokens, jwt: jwt,
		objectStore: objectStore, sheets: sheets, jobQueue: jobQueue, metrics: m,
		registrations: registrations, admissions: admissions, scoring: scoring, competitions: competitions,
	}
}
