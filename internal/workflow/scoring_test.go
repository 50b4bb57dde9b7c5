package workflow

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
)

func seedScoredAttempt(store *memory.Store, competitionID domain.ID, score int, grade *int) *domain.Attempt {
	repos := repositoriesOf(store)
	ctx := context.Background()

	participant, err := domain.NewParticipant(domain.NewID(), "Jo Doe", "School 1", grade, nil, nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(repos.Participants.Create(ctx, participant)).To(Succeed())

	reg := domain.NewRegistration(participant.ID, competitionID)
	Expect(repos.Registrations.Create(ctx, reg)).To(Succeed())

	attempt, err := domain.NewAttempt(reg.ID, 1, "sheet-hash-"+reg.ID.String())
	Expect(err).NotTo(HaveOccurred())
	Expect(attempt.ApplyScore(score, nil)).To(Succeed())
	Expect(repos.Attempts.Create(ctx, attempt)).To(Succeed())
	return attempt
}

var _ = Describe("ScoringService", func() {
	ctx := context.Background()

	Describe("VerifyScan", func() {
		It("applies the corrected score to the scan's linked attempt", func() {
			store := memory.NewStore()
			repos := repositoriesOf(store)

			attempt, err := domain.NewAttempt(domain.NewID(), 1, "hash")
			Expect(err).NotTo(HaveOccurred())
			Expect(repos.Attempts.Create(ctx, attempt)).To(Succeed())

			scan, err := domain.NewScan("scans/1.png", domain.NewID())
			Expect(err).NotTo(HaveOccurred())
			scan.LinkAttempt(attempt.ID, domain.NewID())
			Expect(repos.Scans.Create(ctx, scan)).To(Succeed())

			svc := NewScoringService(store)
			Expect(svc.VerifyScan(ctx, scan.ID, domain.NewID(), 82)).To(Succeed())

			updated, err := repos.Attempts.GetByID(ctx, attempt.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.ScoreTotal).To(Equal(82))
			Expect(updated.Status).To(Equal(domain.AttemptScored))
		})

		It("rejects a negative corrected score", func() {
			store := memory.NewStore()
			svc := NewScoringService(store)
			Expect(svc.VerifyScan(ctx, domain.NewID(), domain.NewID(), -1)).To(HaveOccurred())
		})
	})

	Describe("Results", func() {
		It("fails when the competition is not published", func() {
			store := memory.NewStore()
			comp := seedCompetition(store, "checking", 4, 100)
			svc := NewScoringService(store)
			_, err := svc.Results(ctx, repositoriesOf(store), comp.ID)
			Expect(err).To(HaveOccurred())
		})

		It("ranks published attempts with standard (competition) ranking for ties", func() {
			store := memory.NewStore()
			comp := seedCompetition(store, "published", 4, 100)

			seedScoredAttempt(store, comp.ID, 90, nil)
			seedScoredAttempt(store, comp.ID, 87, nil)
			seedScoredAttempt(store, comp.ID, 87, nil)
			seedScoredAttempt(store, comp.ID, 50, nil)

			svc := NewScoringService(store)
			rows, err := svc.Results(ctx, repositoriesOf(store), comp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(4))

			ranks := make([]int, len(rows))
			scores := make([]int, len(rows))
			for i, r := range rows {
				ranks[i] = r.Rank
				scores[i] = r.Score
			}
			Expect(scores).To(Equal([]int{90, 87, 87, 50}))
			Expect(ranks).To(Equal([]int{1, 2, 2, 4}))
		})
	})
})
