package domain

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Competition", func() {
	newValid := func() *Competition {
		c, err := NewCompetition("Math Olympiad", time.Now().Add(72*time.Hour),
			time.Now(), time.Now().Add(24*time.Hour), 4, 100, NewID())
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("NewCompetition", func() {
		It("starts in draft", func() {
			Expect(newValid().Status).To(Equal(CompetitionDraft))
		})

		It("rejects registration_start not before registration_end", func() {
			now := time.Now()
			_, err := NewCompetition("Math", now, now, now, 4, 100, NewID())
			Expect(err).To(HaveOccurred())
		})

		It("rejects a name shorter than 3 characters", func() {
			_, err := NewCompetition("ab", time.Now(), time.Now(), time.Now().Add(time.Hour), 4, 100, NewID())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("lifecycle transitions", func() {
		It("walks the exact one-way sequence", func() {
			c := newValid()
			Expect(c.OpenRegistration()).To(Succeed())
			Expect(c.Status).To(Equal(CompetitionRegistrationOpen))
			Expect(c.Start()).To(Succeed())
			Expect(c.Status).To(Equal(CompetitionInProgress))
			Expect(c.StartChecking()).To(Succeed())
			Expect(c.Status).To(Equal(CompetitionChecking))
			Expect(c.Publish()).To(Succeed())
			Expect(c.Status).To(Equal(CompetitionPublished))
		})

		It("rejects skipping a stage", func() {
			c := newValid()
			Expect(c.Start()).To(HaveOccurred())
			Expect(c.Status).To(Equal(CompetitionDraft))
		})

		It("rejects transitioning out of a terminal state", func() {
			c := newValid()
			Expect(c.OpenRegistration()).To(Succeed())
			Expect(c.Start()).To(Succeed())
			Expect(c.StartChecking()).To(Succeed())
			Expect(c.Publish()).To(Succeed())
			Expect(c.Publish()).To(HaveOccurred())
		})
	})
})
