package domain

import (
	"context"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_scheduled_job_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain ScheduledJobRepository

// JobStatus has exactly two transitions: pending→completed and
// pending→cancelled. Both targets are terminal; no job is re-activated.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType identifies the dispatch channel
type JobType string

const (
	JobTypeWhatsApp JobType = "whatsapp"
)

// ScheduledJob is a notification task picked up by the hourly scheduler
// tick. Delivery is at-least-once: a failed dispatch leaves the job
// pending so the next tick retries it.
type ScheduledJob struct {
	ID             string    `json:"id"`
	JobType        JobType   `json:"jobType"`
	ScheduledFor   time.Time `json:"scheduledFor"`
	Status         JobStatus `json:"status"`
	RecipientPhone string    `json:"recipientPhone"`
	Message        string    `json:"message"`
	OrderID        string    `json:"orderId,omitempty"`
	MeasurementID  string    `json:"measurementId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ScheduleJobRequest is the payload for POST /api/scheduled-jobs
type ScheduleJobRequest struct {
	JobType        JobType   `json:"jobType"`
	ScheduledFor   time.Time `json:"scheduledFor"`
	RecipientPhone string    `json:"recipientPhone"`
	Message        string    `json:"message"`
	OrderID        string    `json:"orderId,omitempty"`
	MeasurementID  string    `json:"measurementId,omitempty"`
}

func (r *ScheduleJobRequest) Validate() error {
	if r.JobType == "" {
		r.JobType = JobTypeWhatsApp
	}
	if r.JobType != JobTypeWhatsApp {
		return NewValidationError("jobType must be whatsapp")
	}
	if r.ScheduledFor.IsZero() {
		return NewValidationError("scheduledFor is required")
	}
	r.RecipientPhone = strings.TrimSpace(r.RecipientPhone)
	if r.RecipientPhone == "" {
		return NewValidationError("recipientPhone is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return NewValidationError("message is required")
	}
	return nil
}

type ScheduledJobRepository interface {
	CreateJob(ctx context.Context, job *ScheduledJob) error
	GetJobByID(ctx context.Context, id string) (*ScheduledJob, error)
	// ListDueJobs returns pending jobs with scheduled_for <= until.
	ListDueJobs(ctx context.Context, until time.Time) ([]*ScheduledJob, error)
	UpdateJobStatus(ctx context.Context, id string, status JobStatus) error
}
