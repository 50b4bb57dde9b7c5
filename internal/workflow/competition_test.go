package workflow

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
)

var _ = Describe("CompetitionService", func() {
	ctx := context.Background()

	It("walks the full lifecycle and audits each transition", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "draft", 4, 100)
		actorID := domain.NewID()

		svc := NewCompetitionService(store)

		_, err := svc.OpenRegistration(ctx, comp.ID, actorID)
		Expect(err).NotTo(HaveOccurred())
		_, err = svc.Start(ctx, comp.ID, actorID)
		Expect(err).NotTo(HaveOccurred())
		_, err = svc.StartChecking(ctx, comp.ID, actorID)
		Expect(err).NotTo(HaveOccurred())
		updated, err := svc.Publish(ctx, comp.ID, actorID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Status).To(Equal(domain.CompetitionPublished))

		logs, err := repositoriesOf(store).AuditLogs.GetByEntity(ctx, "competition", comp.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(4))
	})

	It("rejects an out-of-order transition", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "draft", 4, 100)
		svc := NewCompetitionService(store)

		_, err := svc.Start(ctx, comp.ID, domain.NewID())
		Expect(err).To(HaveOccurred())
	})
})
