package validation

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidateStringInput", func() {
	Context("with valid input", func() {
		It("passes", func() {
			Expect(ValidateStringInput("field", "valid institution name", 100)).To(Succeed())
		})
	})

	Context("when input is too long", func() {
		It("fails", func() {
			err := ValidateStringInput("field", "toolong", 5)
			Expect(err).To(MatchError(ContainSubstring("must be 5 characters or less")))
		})
	})

	Context("when input contains SQL injection patterns", func() {
		It("detects UNION attacks", func() {
			err := ValidateStringInput("field", "'; UNION SELECT * FROM users --", 100)
			Expect(err).To(MatchError(ContainSubstring("contains potentially unsafe characters")))
		})

		It("detects script injection", func() {
			err := ValidateStringInput("field", "<script>alert('xss')</script>", 100)
			Expect(err).To(MatchError(ContainSubstring("contains potentially unsafe characters")))
		})

		It("detects SQL comments", func() {
			err := ValidateStringInput("field", "input-- comment", 100)
			Expect(err).To(MatchError(ContainSubstring("contains potentially unsafe characters")))
		})
	})

	Context("when input contains control characters", func() {
		It("rejects non-whitespace control characters", func() {
			err := ValidateStringInput("field", "input"+string(rune(0x01)), 100)
			Expect(err).To(MatchError(ContainSubstring("contains invalid control characters")))
		})

		It("allows tabs and newlines", func() {
			Expect(ValidateStringInput("field", "line one\nline two\t", 100)).To(Succeed())
		})
	})
})

var _ = Describe("ValidateNonEmpty", func() {
	It("enforces a minimum length after trimming", func() {
		Expect(ValidateNonEmpty("full_name", "  Jo  ", 2)).To(Succeed())
		Expect(ValidateNonEmpty("full_name", " J ", 2)).To(HaveOccurred())
	})
})

var _ = Describe("ValidateEmail", func() {
	It("accepts addresses containing @", func() {
		Expect(ValidateEmail("student@example.com")).To(Succeed())
	})

	It("rejects addresses without @", func() {
		Expect(ValidateEmail("not-an-email")).To(MatchError(ContainSubstring("@")))
	})
})

var _ = Describe("ValidateRange", func() {
	It("accepts values within bounds", func() {
		Expect(ValidateRange("seat", 5, 1, 10)).To(Succeed())
	})

	It("rejects values outside bounds", func() {
		Expect(ValidateRange("seat", 0, 1, 10)).To(HaveOccurred())
		Expect(ValidateRange("seat", 11, 1, 10)).To(HaveOccurred())
	})
})

var _ = Describe("ValidatePositive", func() {
	It("rejects zero and negative values", func() {
		Expect(ValidatePositive("capacity", 0)).To(HaveOccurred())
		Expect(ValidatePositive("capacity", -1)).To(HaveOccurred())
	})

	It("accepts positive values", func() {
		Expect(ValidatePositive("capacity", 1)).To(Succeed())
	})
})

var _ = Describe("ValidateScore", func() {
	It("rejects negative scores", func() {
		Expect(ValidateScore(-1, 100)).To(HaveOccurred())
	})

	It("rejects scores above max_score", func() {
		Expect(ValidateScore(150, 100)).To(HaveOccurred())
	})

	It("accepts a score within range", func() {
		Expect(ValidateScore(87, 100)).To(Succeed())
	})

	It("skips the upper bound when max_score is not set", func() {
		Expect(ValidateScore(87, 0)).To(Succeed())
	})
})

var _ = Describe("ValidateConfidence", func() {
	It("accepts values in [0,1]", func() {
		Expect(ValidateConfidence(0)).To(Succeed())
		Expect(ValidateConfidence(1)).To(Succeed())
		Expect(ValidateConfidence(0.92)).To(Succeed())
	})

	It("rejects out-of-range values", func() {
		Expect(ValidateConfidence(-0.1)).To(HaveOccurred())
		Expect(ValidateConfidence(1.1)).To(HaveOccurred())
	})
})

var _ = Describe("SanitizeForLogging", func() {
	It("replaces control characters", func() {
		input := "text" + string(rune(0x01)) + "more"
		Expect(SanitizeForLogging(input)).To(Equal("text?more"))
	})

	It("leaves clean input unchanged", func() {
		Expect(SanitizeForLogging("clean input")).To(Equal("clean input"))
	})

	It("replaces tabs, newlines and carriage returns as well", func() {
		input := "text\twith\nlines\r"
		Expect(SanitizeForLogging(input)).To(Equal("text?with?lines?"))
	})
})

var _ = Describe("Combine", func() {
	It("joins multiple validation failures", func() {
		err := Combine(
			ValidateNonEmpty("name", "", 2),
			ValidateEmail("bad"),
		)
		Expect(err).To(HaveOccurred())
		Expect(strings.Contains(err.Error(), "name")).To(BeTrue())
	})

	It("returns nil when nothing fails", func() {
		Expect(Combine(nil, nil)).To(BeNil())
	})
})
