package workflow

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/domain"
)

var _ = Describe("RequireRole", func() {
	It("rejects a nil subject as Unauthenticated", func() {
		Expect(RequireRole(nil, domain.RoleAdmitter)).To(HaveOccurred())
	})

	It("rejects an inactive subject as Forbidden", func() {
		subject := &Subject{UserID: domain.NewID(), Role: domain.RoleAdmitter, IsActive: false}
		Expect(RequireRole(subject, domain.RoleAdmitter)).To(HaveOccurred())
	})

	It("accepts a matching role", func() {
		subject := &Subject{UserID: domain.NewID(), Role: domain.RoleAdmitter, IsActive: true}
		Expect(RequireRole(subject, domain.RoleAdmitter)).To(Succeed())
	})

	It("rejects a non-matching role", func() {
		subject := &Subject{UserID: domain.NewID(), Role: domain.RoleScanner, IsActive: true}
		Expect(RequireRole(subject, domain.RoleAdmitter)).To(HaveOccurred())
	})

	It("lets admin satisfy any role requirement", func() {
		subject := &Subject{UserID: domain.NewID(), Role: domain.RoleAdmin, IsActive: true}
		Expect(RequireRole(subject, domain.RoleAdmitter)).To(Succeed())
	})
})

var _ = Describe("RequireOwnership", func() {
	It("forbids a participant from reaching another participant's resource", func() {
		owner := domain.NewID()
		subject := &Subject{UserID: domain.NewID(), Role: domain.RoleParticipant, IsActive: true}
		Expect(RequireOwnership(subject, owner)).To(HaveOccurred())
	})

	It("allows a participant to reach their own resource", func() {
		owner := domain.NewID()
		subject := &Subject{UserID: owner, Role: domain.RoleParticipant, IsActive: true}
		Expect(RequireOwnership(subject, owner)).To(Succeed())
	})

	It("does not constrain non-participant roles", func() {
		subject := &Subject{UserID: domain.NewID(), Role: domain.RoleAdmitter, IsActive: true}
		Expect(RequireOwnership(subject, domain.NewID())).To(Succeed())
	})
})
