package domain

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User", func() {
	It("rejects an email without @", func() {
		_, err := NewUser("not-an-email", "hash", RoleParticipant)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown role", func() {
		_, err := NewUser("a@b.com", "hash", Role("wizard"))
		Expect(err).To(HaveOccurred())
	})

	It("constructs an active user with a valid role", func() {
		u, err := NewUser("a@b.com", "hash", RoleAdmitter)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.IsActive).To(BeTrue())
	})

	It("allows an admin to change role freely", func() {
		u, _ := NewUser("a@b.com", "hash", RoleParticipant)
		Expect(u.ChangeRole(RoleAdmin)).To(Succeed())
		Expect(u.Role).To(Equal(RoleAdmin))
	})

	It("deactivates", func() {
		u, _ := NewUser("a@b.com", "hash", RoleParticipant)
		u.Deactivate()
		Expect(u.IsActive).To(BeFalse())
	})
})
