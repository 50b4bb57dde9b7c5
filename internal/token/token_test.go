package token

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestToken(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Token Suite")
}

const testSecret = "this-is-a-32-byte-secret-key!!!!"

var _ = Describe("NewService", func() {
	It("rejects a secret shorter than 32 bytes", func() {
		_, err := NewService("too-short")
		Expect(err).To(HaveOccurred())
	})

	It("accepts a 32-byte secret", func() {
		svc, err := NewService(testSecret)
		Expect(err).NotTo(HaveOccurred())
		Expect(svc).NotTo(BeNil())
	})
})

var _ = Describe("Generate", func() {
	var svc *Service

	BeforeEach(func() {
		var err error
		svc, err = NewService(testSecret)
		Expect(err).NotTo(HaveOccurred())
	})

	It("produces distinct raw and hash values across calls", func() {
		p1, err := svc.Generate(DefaultSizeBytes)
		Expect(err).NotTo(HaveOccurred())
		p2, err := svc.Generate(DefaultSizeBytes)
		Expect(err).NotTo(HaveOccurred())

		Expect(p1.Raw).NotTo(Equal(p2.Raw))
		Expect(p1.Hash).NotTo(Equal(p2.Hash))
	})

	It("defaults the size when zero or negative is given", func() {
		p, err := svc.Generate(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Raw).NotTo(BeEmpty())

		p, err = svc.Generate(-1)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Raw).NotTo(BeEmpty())
	})

	It("renders Hash as lowercase hex", func() {
		p, err := svc.Generate(DefaultSizeBytes)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Hash).To(Equal(strings.ToLower(p.Hash)))
		Expect(len(p.Hash)).To(Equal(64))
	})
})

var _ = Describe("Verify", func() {
	var svc *Service

	BeforeEach(func() {
		var err error
		svc, err = NewService(testSecret)
		Expect(err).NotTo(HaveOccurred())
	})

	It("accepts the matching raw/hash pair", func() {
		p, err := svc.Generate(DefaultSizeBytes)
		Expect(err).NotTo(HaveOccurred())
		Expect(svc.Verify(p.Raw, p.Hash)).To(BeTrue())
	})

	It("rejects a different raw token against the same hash", func() {
		p1, _ := svc.Generate(DefaultSizeBytes)
		p2, _ := svc.Generate(DefaultSizeBytes)
		Expect(svc.Verify(p2.Raw, p1.Hash)).To(BeFalse())
	})

	It("rejects empty raw or empty hash", func() {
		p, _ := svc.Generate(DefaultSizeBytes)
		Expect(svc.Verify("", p.Hash)).To(BeFalse())
		Expect(svc.Verify(p.Raw, "")).To(BeFalse())
	})
})

var _ = Describe("Hash", func() {
	It("is deterministic under a fixed secret", func() {
		svc, _ := NewService(testSecret)
		Expect(svc.Hash("fixed-input")).To(Equal(svc.Hash("fixed-input")))
	})
})
