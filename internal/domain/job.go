package domain

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus represents the lifecycle state of a bulk import job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

func (s JobStatus) String() string { return string(s) }

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether a job in this status may no longer change.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func ParseJobStatusFromString(s string) (JobStatus, error) {
	st := JobStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid job status %q", ErrValidation, s)
	}
	return st, nil
}

// ImportJob tracks one bulk import run. The record is created Pending by
// the orchestrator and mutated only by the job's own background task, so
// counters never race across goroutines.
type ImportJob struct {
	ID               string
	Status           JobStatus
	TotalRecords     int
	ProcessedRecords int
	FailedRecords    int
	StartedAt        *time.Time
	CompletedAt      *time.Time
	ErrorMessage     *string
	CreatedAt        time.Time
}

// SuccessRecords is derived, never stored: processed = success + failed.
func (j *ImportJob) SuccessRecords() int {
	return j.ProcessedRecords - j.FailedRecords
}

// ProgressPercentage returns processed/total*100 clamped to [0,100],
// and 0 while the total is still unknown.
func (j *ImportJob) ProgressPercentage() float64 {
	if j.TotalRecords <= 0 {
		return 0
	}
	pct := float64(j.ProcessedRecords) / float64(j.TotalRecords) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ProgressSnapshot is the point-in-time payload pushed to subscribers.
// It is derived from the job at each publish point and never persisted.
type ProgressSnapshot struct {
	JobID              string    `json:"jobId"`
	Status             JobStatus `json:"status"`
	TotalRecords       int       `json:"totalRecords"`
	ProcessedRecords   int       `json:"processedRecords"`
	FailedRecords      int       `json:"failedRecords"`
	ProgressPercentage float64   `json:"progressPercentage"`
	ErrorMessage       *string   `json:"errorMessage,omitempty"`
}

func (j *ImportJob) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		JobID:              j.ID,
		Status:             j.Status,
		TotalRecords:       j.TotalRecords,
		ProcessedRecords:   j.ProcessedRecords,
		FailedRecords:      j.FailedRecords,
		ProgressPercentage: j.ProgressPercentage(),
		ErrorMessage:       j.ErrorMessage,
	}
}
