package services

import (
	"dailywage-hub/internal/core/domain"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// Common lookup failures
var (
	ErrUserNotFound        = domain.NotFound("User not found")
	ErrJobNotFound         = domain.NotFound("Job not found")
	ErrApplicationNotFound = domain.NotFound("Application not found")
	ErrMessageNotFound     = domain.NotFound("Message not found")
	ErrPaymentNotFound     = domain.NotFound("Payment not found")

	ErrNotJobOwner = domain.Forbidden("Only the job's employer may perform this action")
	ErrJobTaken    = domain.Conflict("Job is not open; it may already be assigned to another worker")
)

// notFoundOr maps a missing row to notFound and wraps anything else
func notFoundOr(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.Wrap(err, op)
}
