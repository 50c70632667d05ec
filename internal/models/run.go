package models

import (
	"fmt"
	"time"
)

// RunMode is the direction of a run.
type RunMode string

const (
	RunModeExport RunMode = "export"
	RunModeImport RunMode = "import"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one export or import invocation against a profile.
type Run struct {
	id             string
	sequence       int
	mode           RunMode
	profile        string
	email          string
	status         RunStatus
	ratingsTotal   int
	ratingsApplied int
	errorMessage   string
	startedAt      *time.Time
	completedAt    *time.Time
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewRun creates a pending [Run] for the given profile.
func NewRun(sequence int, mode RunMode, profile, email string) *Run {
	now := time.Now()
	return &Run{
		sequence:  sequence,
		mode:      mode,
		profile:   profile,
		email:     email,
		status:    RunStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Run) ID() string { return r.id }
func (r *Run) Sequence() int { return r.sequence }
func (r *Run) Mode() RunMode { return r.mode }
func (r *Run) Profile() string { return r.profile }
func (r *Run) Email() string { return r.email }
func (r *Run) Status() RunStatus { return r.status }
func (r *Run) RatingsTotal() int { return r.ratingsTotal }
func (r *Run) RatingsApplied() int { return r.ratingsApplied }
func (r *Run) ErrorMessage() string { return r.errorMessage }
func (r *Run) StartedAt() *time.Time { return r.startedAt }
func (r *Run) CompletedAt() *time.Time { return r.completedAt }
func (r *Run) CreatedAt() time.Time { return r.createdAt }
func (r *Run) UpdatedAt() time.Time { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time { return r.deletedAt }
func (r *Run) SetID(id string) { r.id = id }
func (r *Run) SetSequence(seq int) { r.sequence = seq }
func (r *Run) SetStatus(s RunStatus) { r.status = s }
func (r *Run) SetRatingsTotal(n int) { r.ratingsTotal = n }
func (r *Run) SetRatingsApplied(n int) { r.ratingsApplied = n }
func (r *Run) SetErrorMessage(m string) { r.errorMessage = m }
func (r *Run) SetStartedAt(t *time.Time) { r.startedAt = t }
func (r *Run) SetCompletedAt(t *time.Time) { r.completedAt = t }
func (r *Run) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Start marks the run as running.
func (r *Run) Start() {
	now := time.Now()
	r.status = RunStatusRunning
	r.startedAt = &now
}

// Complete marks the run as completed.
func (r *Run) Complete() {
	now := time.Now()
	r.status = RunStatusCompleted
	r.completedAt = &now
}

// Fail marks the run as failed with err's message.
func (r *Run) Fail(err error) {
	now := time.Now()
	r.status = RunStatusFailed
	r.completedAt = &now
	if err != nil {
		r.errorMessage = err.Error()
	}
}

// Duration returns the time between start and completion, or zero when either is unknown.
func (r *Run) Duration() time.Duration {
	if r.startedAt == nil || r.completedAt == nil {
		return 0
	}
	return r.completedAt.Sub(*r.startedAt)
}

// Validate checks required fields and enumerations.
func (r *Run) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run id is required")
	}
	switch r.mode {
	case RunModeExport, RunModeImport:
	default:
		return fmt.Errorf("invalid run mode %q", r.mode)
	}
	if r.profile == "" {
		return fmt.Errorf("run profile is required")
	}
	switch r.status {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted, RunStatusFailed:
	default:
		return fmt.Errorf("invalid run status %q", r.status)
	}
	if r.ratingsApplied < 0 || r.ratingsTotal < 0 {
		return fmt.Errorf("rating counts must not be negative")
	}
	return nil
}
