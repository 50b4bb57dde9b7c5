package domain

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Attempt", func() {
	newValid := func() *Attempt {
		a, err := NewAttempt(NewID(), 2, "sheet-hash")
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	It("starts in printed", func() {
		Expect(newValid().Status).To(Equal(AttemptPrinted))
	})

	It("marks scanned only from printed", func() {
		a := newValid()
		Expect(a.MarkScanned()).To(Succeed())
		Expect(a.Status).To(Equal(AttemptScanned))
		Expect(a.MarkScanned()).To(HaveOccurred())
	})

	DescribeTable("apply_score is valid from printed, scanned, or scored",
		func(prep func(*Attempt)) {
			a := newValid()
			prep(a)
			Expect(a.ApplyScore(87, nil)).To(Succeed())
			Expect(a.Status).To(Equal(AttemptScored))
			Expect(*a.ScoreTotal).To(Equal(87))
		},
		Entry("from printed", func(a *Attempt) {}),
		Entry("from scanned", func(a *Attempt) { Expect(a.MarkScanned()).To(Succeed()) }),
		Entry("from scored", func(a *Attempt) {
			Expect(a.MarkScanned()).To(Succeed())
			Expect(a.ApplyScore(10, nil)).To(Succeed())
		}),
	)

	It("rejects a negative score", func() {
		a := newValid()
		Expect(a.ApplyScore(-1, nil)).To(HaveOccurred())
	})

	It("rejects out-of-range confidence", func() {
		a := newValid()
		bad := 1.5
		Expect(a.ApplyScore(10, &bad)).To(HaveOccurred())
	})

	It("publishes only once scored, and never without a score", func() {
		a := newValid()
		Expect(a.Publish()).To(HaveOccurred())
		Expect(a.ApplyScore(50, nil)).To(Succeed())
		Expect(a.Publish()).To(Succeed())
		Expect(a.Status).To(Equal(AttemptPublished))
	})

	It("invalidates from any state", func() {
		a := newValid()
		a.Invalidate()
		Expect(a.Status).To(Equal(AttemptInvalidated))
	})
})
