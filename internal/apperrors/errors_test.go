package apperrors

import (
	"errors"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestApperrors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "apperrors Suite")
}

var _ = Describe("AppError", func() {
	Context("basic error creation", func() {
		It("should create error with correct properties", func() {
			err := New(ErrorTypeValidation, "test message")

			Expect(err.Type).To(Equal(ErrorTypeValidation))
			Expect(err.Message).To(Equal("test message"))
			Expect(err.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(err.Details).To(BeEmpty())
			Expect(err.Cause).To(BeNil())
		})

		It("should implement error interface correctly", func() {
			err := New(ErrorTypeValidation, "test message")
			Expect(err.Error()).To(Equal("validation: test message"))
		})

		It("should include details in error string when present", func() {
			err := New(ErrorTypeValidation, "test message").WithDetails("extra info")
			Expect(err.Error()).To(Equal("validation: test message (extra info)"))
		})
	})

	Context("error wrapping", func() {
		It("should wrap underlying error", func() {
			originalErr := errors.New("original error")
			wrappedErr := Wrap(originalErr, ErrorTypeDatabase, "operation failed")

			Expect(wrappedErr.Type).To(Equal(ErrorTypeDatabase))
			Expect(wrappedErr.Cause).To(Equal(originalErr))
			Expect(wrappedErr.Unwrap()).To(Equal(originalErr))
		})

		It("should format wrapped error with arguments", func() {
			originalErr := errors.New("connection refused")
			wrappedErr := Wrapf(originalErr, ErrorTypeNetwork, "failed to reach %s:%d", "objectstore", 9000)

			Expect(wrappedErr.Message).To(Equal("failed to reach objectstore:9000"))
			Expect(wrappedErr.Cause).To(Equal(originalErr))
		})
	})

	Describe("HTTP status code mapping", func() {
		It("should map every error type to its documented status code", func() {
			cases := []struct {
				t    ErrorType
				code int
			}{
				{ErrorTypeValidation, http.StatusBadRequest},
				{ErrorTypeInvalidState, http.StatusBadRequest},
				{ErrorTypeNotFound, http.StatusNotFound},
				{ErrorTypeConflict, http.StatusConflict},
				{ErrorTypeUnauthenticated, http.StatusUnauthorized},
				{ErrorTypeForbidden, http.StatusForbidden},
				{ErrorTypeRateLimit, http.StatusTooManyRequests},
				{ErrorTypeDatabase, http.StatusInternalServerError},
				{ErrorTypeNetwork, http.StatusInternalServerError},
				{ErrorTypeInternal, http.StatusInternalServerError},
			}
			for _, c := range cases {
				Expect(New(c.t, "x").StatusCode).To(Equal(c.code))
			}
		})
	})

	Describe("predefined constructors", func() {
		It("builds a not-found error naming the entity", func() {
			err := NewNotFoundError("attempt")
			Expect(err.Type).To(Equal(ErrorTypeNotFound))
			Expect(err.Message).To(Equal("attempt not found"))
		})

		It("builds an invalid-state error naming the current state", func() {
			err := NewInvalidStateError("competition", "draft", "publish")
			Expect(err.Type).To(Equal(ErrorTypeInvalidState))
			Expect(err.Error()).To(ContainSubstring("draft"))
		})

		It("builds a database error wrapping the cause", func() {
			cause := errors.New("connection lost")
			err := NewDatabaseError("insert attempt", cause)
			Expect(err.Message).To(ContainSubstring("database operation failed: insert attempt"))
			Expect(err.Cause).To(Equal(cause))
		})
	})

	Describe("type checks", func() {
		It("identifies AppError types", func() {
			validationErr := NewValidationError("test")
			authErr := NewAuthError("test")

			Expect(IsType(validationErr, ErrorTypeValidation)).To(BeTrue())
			Expect(IsType(validationErr, ErrorTypeUnauthenticated)).To(BeFalse())
			Expect(IsType(authErr, ErrorTypeUnauthenticated)).To(BeTrue())
		})

		It("treats non-AppError values as internal", func() {
			regularErr := errors.New("regular error")
			Expect(IsType(regularErr, ErrorTypeValidation)).To(BeFalse())
			Expect(GetType(regularErr)).To(Equal(ErrorTypeInternal))
			Expect(GetStatusCode(regularErr)).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("safe error messages", func() {
		It("passes validation messages through but hides database causes", func() {
			Expect(SafeErrorMessage(NewValidationError("institution name too short"))).
				To(Equal("institution name too short"))
			Expect(SafeErrorMessage(New(ErrorTypeDatabase, "internal details"))).
				To(Equal(ErrorMessages.InternalError))
			Expect(SafeErrorMessage(New(ErrorTypeNotFound, "internal details"))).
				To(Equal(ErrorMessages.ResourceNotFound))
		})

		It("returns a generic message for non-AppError values", func() {
			Expect(SafeErrorMessage(errors.New("panic: nil pointer"))).
				To(Equal("An unexpected error occurred"))
		})
	})

	Describe("logging fields", func() {
		It("includes the cause and details for logs (unlike SafeErrorMessage)", func() {
			originalErr := errors.New("connection failed")
			appErr := Wrapf(originalErr, ErrorTypeDatabase, "query failed").WithDetails("table: attempts")

			fields := LogFields(appErr)
			Expect(fields["error_type"]).To(Equal("database"))
			Expect(fields["status_code"]).To(Equal(http.StatusInternalServerError))
			Expect(fields["error_details"]).To(Equal("table: attempts"))
			Expect(fields["underlying_error"]).To(Equal("connection failed"))
		})

		It("omits optional keys when absent", func() {
			fields := LogFields(NewValidationError("bad input"))
			Expect(fields).NotTo(HaveKey("error_details"))
			Expect(fields).NotTo(HaveKey("underlying_error"))
		})
	})

	Describe("Chain", func() {
		It("returns nil for no errors", func() {
			Expect(Chain()).To(BeNil())
			Expect(Chain(nil, nil)).To(BeNil())
		})

		It("joins multiple errors with an arrow", func() {
			err := Chain(errors.New("first"), errors.New("second"))
			Expect(err.Error()).To(Equal("first -> second"))
		})
	})
})
