package seating

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
)

func TestSeating(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Seating Suite")
}

var _ = Describe("Assign", func() {
	ctx := context.Background()

	It("returns ErrNoRooms when the competition has no rooms", func() {
		store := memory.NewStore()
		repos := store.Repositories()
		competitionID := domain.NewID()
		reg := domain.NewRegistration(domain.NewID(), competitionID)
		p, _ := domain.NewParticipant(domain.NewID(), "Jo Doe", "School 1", nil, nil, nil)

		_, err := Assign(ctx, repos, reg, p, 4)
		Expect(err).To(Equal(ErrNoRooms))
	})

	It("is idempotent when an assignment already exists", func() {
		store := memory.NewStore()
		repos := store.Repositories()
		competitionID := domain.NewID()
		room, _ := domain.NewRoom(competitionID, "101", 10)
		Expect(repos.Rooms.Create(ctx, room)).To(Succeed())

		reg := domain.NewRegistration(domain.NewID(), competitionID)
		p, _ := domain.NewParticipant(domain.NewID(), "Jo Doe", "School 1", nil, nil, nil)

		first, err := Assign(ctx, repos, reg, p, 4)
		Expect(err).NotTo(HaveOccurred())

		second, err := Assign(ctx, repos, reg, p, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ID).To(Equal(first.ID))
	})

	It("computes variant as (seat mod V) + 1", func() {
		store := memory.NewStore()
		repos := store.Repositories()
		competitionID := domain.NewID()
		room, _ := domain.NewRoom(competitionID, "101", 10)
		Expect(repos.Rooms.Create(ctx, room)).To(Succeed())

		reg := domain.NewRegistration(domain.NewID(), competitionID)
		p, _ := domain.NewParticipant(domain.NewID(), "Jo Doe", "School 1", nil, nil, nil)

		sa, err := Assign(ctx, repos, reg, p, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(sa.SeatNumber).To(Equal(1))
		Expect(sa.VariantNumber).To(Equal((1 % 4) + 1))
	})

	It("spreads same-institution registrants across rooms", func() {
		store := memory.NewStore()
		repos := store.Repositories()
		competitionID := domain.NewID()
		roomA, _ := domain.NewRoom(competitionID, "A", 10)
		roomB, _ := domain.NewRoom(competitionID, "B", 10)
		Expect(repos.Rooms.Create(ctx, roomA)).To(Succeed())
		Expect(repos.Rooms.Create(ctx, roomB)).To(Succeed())

		institutionX := domain.NewID()
		institutionY := domain.NewID()

		roomCounts := map[domain.ID]map[domain.ID]int{roomA.ID: {}, roomB.ID: {}}

		for i := 0; i < 5; i++ {
			for _, inst := range []domain.ID{institutionX, institutionY} {
				p, _ := domain.NewParticipant(domain.NewID(), "Jo Doe", "School 1", nil, &inst, nil)
				Expect(repos.Participants.Create(ctx, p)).To(Succeed())
				reg := domain.NewRegistration(p.ID, competitionID)
				Expect(repos.Registrations.Create(ctx, reg)).To(Succeed())

				sa, err := Assign(ctx, repos, reg, p, 4)
				Expect(err).NotTo(HaveOccurred())
				roomCounts[sa.RoomID][inst]++
			}
		}

		for _, counts := range roomCounts {
			Expect(counts[institutionX] + counts[institutionY]).To(Equal(5))
			Expect(counts[institutionX]).To(BeElementOf(2, 3))
			Expect(counts[institutionY]).To(BeElementOf(2, 3))
		}
	})
})
