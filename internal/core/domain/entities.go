package domain

import "github.com/google/uuid"

// Role represents user role in the system
type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
	RoleNGO      Role = "ngo"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleEmployer, RoleNGO, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID    uuid.UUID
	Role      Role
	SessionID uuid.UUID
}

// IsAdmin returns true for admin principals
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Is reports whether the principal is the given user
func (p Principal) Is(userID uuid.UUID) bool {
	return p.UserID == userID
}

// WageUnit is the period a wage amount is quoted for
type WageUnit string

const (
	WageDaily  WageUnit = "daily"
	WageHourly WageUnit = "hourly"
	WageFixed  WageUnit = "fixed"
)

// Valid reports whether u is a known wage unit
func (u WageUnit) Valid() bool {
	switch u {
	case WageDaily, WageHourly, WageFixed:
		return true
	}
	return false
}

// Posting limits
const (
	MaxWageAmount    = 10_000_000
	MaxWorkersNeeded = 1_000
)

// ApplicationStatus is the lifecycle status of a job application
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// PaymentStatus is the settlement status of a payment
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// ActivePaymentStatuses are the statuses a payment can be verified from
var ActivePaymentStatuses = []PaymentStatus{PaymentPending, PaymentProcessing}

// IsActive reports whether the payment can still be settled
func (s PaymentStatus) IsActive() bool {
	return s == PaymentPending || s == PaymentProcessing
}
