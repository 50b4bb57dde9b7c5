package workflow

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
)

var _ = Describe("RegistrationService", func() {
	ctx := context.Background()

	It("registers a participant and issues an entry token", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "registration_open", 4, 100)
		participant := seedParticipant(store)

		svc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		result, err := svc.Register(ctx, participant.ID, comp.ID, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RawToken).NotTo(BeEmpty())

		entryToken, err := repositoriesOf(store).EntryTokens.GetByRegistration(ctx, result.RegistrationID)
		Expect(err).NotTo(HaveOccurred())
		Expect(newTokenService().Verify(result.RawToken, entryToken.TokenHash)).To(BeTrue())
	})

	It("rejects registration when the competition is not registration_open", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "draft", 4, 100)
		participant := seedParticipant(store)

		svc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		_, err := svc.Register(ctx, participant.ID, comp.ID, false)
		Expect(err).To(HaveOccurred())
	})

	It("allows skip_status_check to bypass the registration_open requirement", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "draft", 4, 100)
		participant := seedParticipant(store)

		svc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		_, err := svc.Register(ctx, participant.ID, comp.ID, true)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a duplicate registration for the same participant and competition", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "registration_open", 4, 100)
		participant := seedParticipant(store)

		svc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		_, err := svc.Register(ctx, participant.ID, comp.ID, false)
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Register(ctx, participant.ID, comp.ID, false)
		Expect(err).To(HaveOccurred())
	})

	It("refreshes an expired token, changing the hash but preserving the row", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "registration_open", 4, 100)
		participant := seedParticipant(store)

		svc := NewRegistrationService(store, newTokenService(), -time.Hour)
		result, err := svc.Register(ctx, participant.ID, comp.ID, false)
		Expect(err).NotTo(HaveOccurred())

		oldToken, err := repositoriesOf(store).EntryTokens.GetByRegistration(ctx, result.RegistrationID)
		Expect(err).NotTo(HaveOccurred())
		oldHash := oldToken.TokenHash

		newRaw, err := svc.RefreshToken(ctx, result.RegistrationID)
		Expect(err).NotTo(HaveOccurred())

		refreshed, err := repositoriesOf(store).EntryTokens.GetByRegistration(ctx, result.RegistrationID)
		Expect(err).NotTo(HaveOccurred())
		Expect(refreshed.ID).To(Equal(oldToken.ID))
		Expect(refreshed.TokenHash).NotTo(Equal(oldHash))
		Expect(newTokenService().Verify(newRaw, refreshed.TokenHash)).To(BeTrue())
	})
})
