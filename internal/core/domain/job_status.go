package domain

// JobStatus is the lifecycle status of a job.
//
//	open -> in_progress -> awaiting_payment -> paid | completed
//	open -> cancelled
//	in_progress -> cancelled (only when LifecyclePolicy.AllowCancelInProgress)
type JobStatus string

const (
	JobOpen            JobStatus = "open"
	JobInProgress      JobStatus = "in_progress"
	JobAwaitingPayment JobStatus = "awaiting_payment"
	JobPaid            JobStatus = "paid"
	JobCompleted       JobStatus = "completed"
	JobCancelled       JobStatus = "cancelled"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen:            {JobInProgress, JobCancelled},
	JobInProgress:      {JobAwaitingPayment, JobCancelled},
	JobAwaitingPayment: {JobPaid, JobCompleted},
}

// Valid reports whether s is a known job status
func (s JobStatus) Valid() bool {
	switch s {
	case JobOpen, JobInProgress, JobAwaitingPayment, JobPaid, JobCompleted, JobCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s JobStatus) IsTerminal() bool {
	return len(jobTransitions[s]) == 0
}

// HasAssignedWorker reports whether a job in status s must carry an assigned worker
func (s JobStatus) HasAssignedWorker() bool {
	switch s {
	case JobInProgress, JobAwaitingPayment, JobPaid, JobCompleted:
		return true
	}
	return false
}

// CanTransition reports whether the state machine has an edge from -> to.
// Policy-gated edges (in_progress -> cancelled) are reported as legal here;
// callers apply the policy.
func CanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LifecyclePolicy holds the product decisions the state machine leaves open
type LifecyclePolicy struct {
	// AutoRejectOnAccept rejects the other pending applications of a job
	// in the same transaction that accepts one of them.
	AutoRejectOnAccept bool
	// AllowCancelInProgress lets an employer cancel a job that already has
	// an assigned worker; the assignment is cleared.
	AllowCancelInProgress bool
}
