package domain

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scan", func() {
	It("links to an attempt only once", func() {
		s, err := NewScan("scans/1.png", NewID())
		Expect(err).NotTo(HaveOccurred())

		firstAttempt := NewID()
		s.LinkAttempt(firstAttempt, NewID())
		Expect(*s.AttemptID).To(Equal(firstAttempt))

		s.LinkAttempt(NewID(), NewID())
		Expect(*s.AttemptID).To(Equal(firstAttempt))
	})

	It("requires an attempt link before verify", func() {
		s, _ := NewScan("scans/1.png", NewID())
		Expect(s.Verify(NewID(), 87)).To(HaveOccurred())
	})

	It("verifies once linked", func() {
		s, _ := NewScan("scans/1.png", NewID())
		s.LinkAttempt(NewID(), NewID())
		Expect(s.Verify(NewID(), 87)).To(Succeed())
		Expect(*s.OCRScore).To(Equal(87))
	})
})
