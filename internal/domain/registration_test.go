package domain

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registration", func() {
	It("admits from pending then completes from admitted", func() {
		r := NewRegistration(NewID(), NewID())
		Expect(r.Admit()).To(Succeed())
		Expect(r.Status).To(Equal(RegistrationAdmitted))
		Expect(r.Complete()).To(Succeed())
		Expect(r.Status).To(Equal(RegistrationCompleted))
	})

	It("rejects completing before admission", func() {
		r := NewRegistration(NewID(), NewID())
		Expect(r.Complete()).To(HaveOccurred())
	})

	It("rejects double admission", func() {
		r := NewRegistration(NewID(), NewID())
		Expect(r.Admit()).To(Succeed())
		Expect(r.Admit()).To(HaveOccurred())
	})

	It("cancels from any non-cancelled state", func() {
		r := NewRegistration(NewID(), NewID())
		Expect(r.Cancel()).To(Succeed())
		Expect(r.Status).To(Equal(RegistrationCancelled))
	})

	It("rejects cancelling an already-cancelled registration", func() {
		r := NewRegistration(NewID(), NewID())
		Expect(r.Cancel()).To(Succeed())
		Expect(r.Cancel()).To(HaveOccurred())
	})
})
