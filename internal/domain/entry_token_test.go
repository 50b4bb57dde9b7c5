package domain

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EntryToken", func() {
	It("is valid right after creation", func() {
		tok := NewEntryToken(NewID(), "hash", "raw", 24*time.Hour)
		Expect(tok.Valid(time.Now().UTC())).To(BeTrue())
	})

	It("succeeds at most once", func() {
		tok := NewEntryToken(NewID(), "hash", "raw", 24*time.Hour)
		Expect(tok.Use(time.Now().UTC())).To(Succeed())
		Expect(tok.Use(time.Now().UTC())).To(HaveOccurred())
	})

	It("fails once expired", func() {
		tok := NewEntryToken(NewID(), "hash", "raw", -time.Hour)
		Expect(tok.Use(time.Now().UTC())).To(HaveOccurred())
	})

	It("refreshes an unused, expired token in place, preserving identity", func() {
		tok := NewEntryToken(NewID(), "old-hash", "old-raw", -time.Hour)
		id := tok.ID
		Expect(tok.Refresh("new-hash", "new-raw", 24*time.Hour)).To(Succeed())
		Expect(tok.ID).To(Equal(id))
		Expect(tok.TokenHash).To(Equal("new-hash"))
		Expect(tok.Valid(time.Now().UTC())).To(BeTrue())
	})

	It("refuses to refresh an already-used token", func() {
		tok := NewEntryToken(NewID(), "hash", "raw", 24*time.Hour)
		Expect(tok.Use(time.Now().UTC())).To(Succeed())
		Expect(tok.Refresh("new-hash", "new-raw", 24*time.Hour)).To(HaveOccurred())
	})
})
