package workflow

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
)

func newAdmissionService(store *memory.Store) *AdmissionService {
	return NewAdmissionService(store, newTokenService(), newFakeObjectStore(), fakeSheetRenderer{}, "answer-sheets",
		10, 250, 30, 15, metrics.New())
}

var _ = Describe("AdmissionService", func() {
	ctx := context.Background()

	It("verifies a valid, not-yet-used token only once the competition is in_progress", func() {
		store := memory.NewStore()
		repos := repositoriesOf(store)
		comp := seedCompetition(store, "in_progress", 4, 100)
		participant := seedParticipant(store)

		regSvc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		result, err := regSvc.Register(ctx, participant.ID, comp.ID, true)
		Expect(err).NotTo(HaveOccurred())

		admission := newAdmissionService(store)
		verify, err := admission.Verify(ctx, repos, result.RawToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(verify.CanProceed).To(BeTrue())
		Expect(verify.ParticipantName).To(Equal("Jo Doe"))
	})

	It("refuses to proceed when the competition is not in_progress", func() {
		store := memory.NewStore()
		repos := repositoriesOf(store)
		comp := seedCompetition(store, "registration_open", 4, 100)
		participant := seedParticipant(store)

		regSvc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		result, err := regSvc.Register(ctx, participant.ID, comp.ID, false)
		Expect(err).NotTo(HaveOccurred())

		admission := newAdmissionService(store)
		verify, err := admission.Verify(ctx, repos, result.RawToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(verify.CanProceed).To(BeFalse())
	})

	It("approves end to end: one attempt, one primary sheet, variant in range, second approve fails", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "in_progress", 4, 100)
		participant := seedParticipant(store)

		regSvc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		regResult, err := regSvc.Register(ctx, participant.ID, comp.ID, true)
		Expect(err).NotTo(HaveOccurred())

		admission := newAdmissionService(store)
		admitterID := domain.NewID()
		approveResult, err := admission.Approve(ctx, regResult.RegistrationID, regResult.RawToken, admitterID, "127.0.0.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(approveResult.VariantNumber).To(BeNumerically(">=", 1))
		Expect(approveResult.VariantNumber).To(BeNumerically("<=", 4))
		Expect(approveResult.RawSheetToken).NotTo(BeEmpty())

		repos := repositoriesOf(store)
		attempt, err := repos.Attempts.GetByID(ctx, approveResult.AttemptID)
		Expect(err).NotTo(HaveOccurred())
		Expect(attempt.Status).To(Equal(domain.AttemptPrinted))

		sheets, err := repos.AnswerSheets.GetByAttempt(ctx, attempt.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(sheets).To(HaveLen(1))
		Expect(sheets[0].Kind).To(Equal(domain.AnswerSheetPrimary))

		reg, err := repos.Registrations.GetByID(ctx, regResult.RegistrationID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reg.Status).To(Equal(domain.RegistrationCompleted))

		_, err = admission.Approve(ctx, regResult.RegistrationID, regResult.RawToken, admitterID, "127.0.0.1")
		Expect(err).To(HaveOccurred())
	})

	It("falls back to a random variant with no seat when the competition has no rooms", func() {
		store := memory.NewStore()
		comp := seedCompetition(store, "in_progress", 4, 100)
		participant := seedParticipant(store)

		regSvc := NewRegistrationService(store, newTokenService(), 24*time.Hour)
		regResult, err := regSvc.Register(ctx, participant.ID, comp.ID, true)
		Expect(err).NotTo(HaveOccurred())

		admission := newAdmissionService(store)
		approveResult, err := admission.Approve(ctx, regResult.RegistrationID, regResult.RawToken, domain.NewID(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(approveResult.RoomName).To(BeEmpty())
		Expect(approveResult.SeatNumber).To(Equal(0))
		Expect(approveResult.VariantNumber).To(BeNumerically(">=", 1))
	})
})
