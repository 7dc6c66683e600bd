package apperrors_test

import (
	"errors"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jordigilh/runbookengine/internal/apperrors"
)

func TestApperrors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "apperrors Suite")
}

var _ = Describe("AppError", func() {
	It("formats a message without details", func() {
		err := apperrors.New(apperrors.ErrorTypeIntegration, "upstream failed")
		Expect(err.Error()).To(Equal("integration: upstream failed"))
	})

	It("formats a message with details appended", func() {
		err := apperrors.New(apperrors.ErrorTypeIntegration, "upstream failed").
			WithDetails("timeout after 30s")
		Expect(err.Error()).To(ContainSubstring("timeout after 30s"))
	})

	It("supports errors.Is/As through Unwrap", func() {
		cause := errors.New("connection refused")
		err := apperrors.Wrap(cause, apperrors.ErrorTypeIntegration, "dial failed")

		Expect(errors.Is(err, cause)).To(BeTrue())

		var appErr *apperrors.AppError
		Expect(errors.As(err, &appErr)).To(BeTrue())
		Expect(appErr.Cause).To(Equal(cause))
	})

	DescribeTable("status code mapping",
		func(t apperrors.ErrorType, want int) {
			Expect(apperrors.New(t, "x").StatusCode).To(Equal(want))
		},
		Entry("provider not found -> 404", apperrors.ErrorTypeProviderNotFound, http.StatusNotFound),
		Entry("integration -> 502", apperrors.ErrorTypeIntegration, http.StatusBadGateway),
		Entry("approval required -> 428", apperrors.ErrorTypeApprovalRequired, http.StatusPreconditionRequired),
		Entry("runbook parse -> 400", apperrors.ErrorTypeRunbookParse, http.StatusBadRequest),
		Entry("ml engine -> 502", apperrors.ErrorTypeMLEngine, http.StatusBadGateway),
		Entry("configuration -> 500", apperrors.ErrorTypeConfiguration, http.StatusInternalServerError),
	)

	Describe("named constructors", func() {
		It("builds NewProviderNotFound with and without a mode", func() {
			err := apperrors.NewProviderNotFound("ticketing")
			Expect(err.Type).To(Equal(apperrors.ErrorTypeProviderNotFound))
			Expect(err.Error()).To(ContainSubstring("ticketing"))

			withMode := apperrors.NewProviderNotFound("ticketing", "live")
			Expect(withMode.Error()).To(ContainSubstring("live"))
		})

		It("builds NewApprovalRequired carrying the action and risk", func() {
			err := apperrors.NewApprovalRequired("act-12345678", "high")
			Expect(err.Type).To(Equal(apperrors.ErrorTypeApprovalRequired))
			Expect(err.Error()).To(ContainSubstring("act-12345678"))
			Expect(err.Error()).To(ContainSubstring("high"))
		})

		It("builds NewRunbookParseError carrying the path and reason", func() {
			err := apperrors.NewRunbookParseError("runbooks/disk-full.yaml", "missing steps field")
			Expect(err.Type).To(Equal(apperrors.ErrorTypeRunbookParse))
			Expect(err.Error()).To(ContainSubstring("runbooks/disk-full.yaml"))
		})
	})

	Describe("IsType / GetType / GetStatusCode", func() {
		It("identifies the type of a wrapped AppError", func() {
			err := apperrors.NewMLEngineError("timeout")
			Expect(apperrors.IsType(err, apperrors.ErrorTypeMLEngine)).To(BeTrue())
			Expect(apperrors.IsType(err, apperrors.ErrorTypeIntegration)).To(BeFalse())
			Expect(apperrors.GetType(err)).To(Equal(apperrors.ErrorTypeMLEngine))
			Expect(apperrors.GetStatusCode(err)).To(Equal(http.StatusBadGateway))
		})

		It("falls back to internal/500 for a plain error", func() {
			err := errors.New("boom")
			Expect(apperrors.GetType(err)).To(Equal(apperrors.ErrorTypeInternal))
			Expect(apperrors.GetStatusCode(err)).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("SafeErrorMessage", func() {
		It("passes validation messages through verbatim", func() {
			err := apperrors.NewValidationError("severity must be one of: low, medium, high, critical")
			Expect(apperrors.SafeErrorMessage(err)).To(Equal(err.Message))
		})

		It("hides internal detail behind a generic per-type message", func() {
			err := apperrors.Wrap(errors.New("dial tcp 10.0.0.5:443: i/o timeout"),
				apperrors.ErrorTypeIntegration, "failed to reach provider")
			msg := apperrors.SafeErrorMessage(err)
			Expect(msg).NotTo(ContainSubstring("10.0.0.5"))
			Expect(msg).To(Equal("An upstream integration failed to respond"))
		})

		It("returns a generic message for a non-AppError", func() {
			Expect(apperrors.SafeErrorMessage(errors.New("raw"))).To(Equal("An unexpected error occurred"))
		})
	})

	Describe("LogFields", func() {
		It("includes type, status code and cause for an AppError", func() {
			cause := errors.New("connection reset")
			err := apperrors.Wrap(cause, apperrors.ErrorTypeIntegration, "call failed").
				WithDetails("provider=pagerduty")

			fields := apperrors.LogFields(err)
			Expect(fields["error_type"]).To(Equal("integration"))
			Expect(fields["status_code"]).To(Equal(http.StatusBadGateway))
			Expect(fields["error_details"]).To(Equal("provider=pagerduty"))
			Expect(fields["underlying_error"]).To(Equal("connection reset"))
		})

		It("degrades gracefully for a plain error", func() {
			fields := apperrors.LogFields(errors.New("plain"))
			Expect(fields).To(HaveKey("error"))
			Expect(fields).NotTo(HaveKey("error_type"))
		})
	})

	Describe("Chain", func() {
		It("returns nil when every argument is nil", func() {
			Expect(apperrors.Chain(nil, nil)).To(BeNil())
		})

		It("returns the single error unmodified", func() {
			err := errors.New("only one")
			Expect(apperrors.Chain(nil, err)).To(Equal(err))
		})

		It("joins multiple non-nil errors in order", func() {
			e1 := errors.New("step one failed")
			e2 := errors.New("rollback failed")
			joined := apperrors.Chain(e1, nil, e2)
			Expect(joined.Error()).To(Equal("step one failed -> rollback failed"))
		})
	})
})
