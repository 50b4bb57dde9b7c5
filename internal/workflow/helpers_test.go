package workflow

import (
	"context"
	"time"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
	"github.com/olympiadqr/olympiadqr/internal/token"

	. "github.com/onsi/gomega"
)

func newTokenService() *token.Service {
	svc, err := token.NewService(testSecret)
	Expect(err).NotTo(HaveOccurred())
	return svc
}

func seedCompetition(store *memory.Store, status domain.CompetitionStatus, variantsCount, maxScore int) *domain.Competition {
	repos := store.Repositories()
	comp, err := domain.NewCompetition("Math Olympiad", time.Now().Add(72*time.Hour),
		time.Now(), time.Now().Add(24*time.Hour), variantsCount, maxScore, domain.NewID())
	Expect(err).NotTo(HaveOccurred())

	switch status {
	case domain.CompetitionRegistrationOpen:
		Expect(comp.OpenRegistration()).To(Succeed())
	case domain.CompetitionInProgress:
		Expect(comp.OpenRegistration()).To(Succeed())
		Expect(comp.Start()).To(Succeed())
	case domain.CompetitionChecking:
		Expect(comp.OpenRegistration()).To(Succeed())
		Expect(comp.Start()).To(Succeed())
		Expect(comp.StartChecking()).To(Succeed())
	case domain.CompetitionPublished:
		Expect(comp.OpenRegistration()).To(Succeed())
		Expect(comp.Start()).To(Succeed())
		Expect(comp.StartChecking()).To(Succeed())
		Expect(comp.Publish()).To(Succeed())
	}

	Expect(repos.Competitions.Create(context.Background(), comp)).To(Succeed())
	return comp
}

func seedParticipant(store *memory.Store) *domain.Participant {
	repos := store.Repositories()
	p, err := domain.NewParticipant(domain.NewID(), "Jo Doe", "School 1", nil, nil, nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(repos.Participants.Create(context.Background(), p)).To(Succeed())
	return p
}

func repositoriesOf(store *memory.Store) *repository.Repositories {
	return store.Repositories()
}
