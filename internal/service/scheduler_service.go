package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// upcomingWindow bounds GetUpcomingJobs to the next week of work.
const upcomingWindow = 7 * 24 * time.Hour

// SchedulerService owns the scheduled notification jobs and the
// periodic tick that dispatches the due ones. Dispatch is at-least-once:
// only a successful send moves a job to completed.
type SchedulerService struct {
	repo     domain.ScheduledJobRepository
	sender   domain.MessageSender
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSchedulerService(
	repo domain.ScheduledJobRepository,
	sender domain.MessageSender,
	logger logger.Logger,
	interval time.Duration,
) *SchedulerService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SchedulerService{
		repo:     repo,
		sender:   sender,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// ScheduleJob validates and stores a new pending job.
func (s *SchedulerService) ScheduleJob(ctx context.Context, req *domain.ScheduleJobRequest) (*domain.ScheduledJob, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := &domain.ScheduledJob{
		JobType:        req.JobType,
		ScheduledFor:   req.ScheduledFor,
		Status:         domain.JobStatusPending,
		RecipientPhone: req.RecipientPhone,
		Message:        req.Message,
		OrderID:        req.OrderID,
		MeasurementID:  req.MeasurementID,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create scheduled job: %w", err)
	}
	return job, nil
}

func (s *SchedulerService) GetJob(ctx context.Context, id string) (*domain.ScheduledJob, error) {
	return s.repo.GetJobByID(ctx, id)
}

// GetPendingJobs returns the pending jobs that are due now.
func (s *SchedulerService) GetPendingJobs(ctx context.Context) ([]*domain.ScheduledJob, error) {
	return s.repo.ListDueJobs(ctx, s.now())
}

// GetUpcomingJobs returns the pending jobs due within the next seven
// days, overdue ones included.
func (s *SchedulerService) GetUpcomingJobs(ctx context.Context) ([]*domain.ScheduledJob, error) {
	return s.repo.ListDueJobs(ctx, s.now().Add(upcomingWindow))
}

// CancelJob moves a pending job to cancelled. Cancelling a job that
// already reached a terminal state is a validation error.
func (s *SchedulerService) CancelJob(ctx context.Context, id string) (*domain.ScheduledJob, error) {
	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusPending {
		return nil, domain.NewValidationError(fmt.Sprintf("job is already %s", job.Status))
	}
	if err := s.repo.UpdateJobStatus(ctx, id, domain.JobStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel job: %w", err)
	}
	job.Status = domain.JobStatusCancelled
	return job, nil
}

// ExecuteJob looks up one job by id and dispatches it.
func (s *SchedulerService) ExecuteJob(ctx context.Context, id string) error {
	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, job)
}

// dispatch sends one job. A job that is no longer pending is a logged
// no-op; a dispatch failure returns the error and leaves the job
// pending so the next tick retries it.
func (s *SchedulerService) dispatch(ctx context.Context, job *domain.ScheduledJob) error {
	if job.Status != domain.JobStatusPending {
		s.logger.WithField("job_id", job.ID).
			WithField("status", string(job.Status)).
			Info("Skipping job: not pending")
		return nil
	}

	sid, err := s.sender.SendWhatsApp(ctx, job.RecipientPhone, job.Message)
	if err != nil {
		s.logger.WithField("job_id", job.ID).
			Error(fmt.Sprintf("Failed to dispatch scheduled message: %v", err))
		return err
	}

	if err := s.repo.UpdateJobStatus(ctx, job.ID, domain.JobStatusCompleted); err != nil {
		// The message went out but the status write failed; the job will
		// be retried and the recipient may see a duplicate.
		s.logger.WithField("job_id", job.ID).
			Error(fmt.Sprintf("Dispatched but failed to mark job completed: %v", err))
		return err
	}

	s.logger.WithField("job_id", job.ID).
		WithField("message_sid", sid).
		Info("Scheduled message dispatched")
	return nil
}

// RunDueJobs executes every currently due job sequentially. Errors are
// per-job; one failed dispatch does not stop the rest of the batch.
func (s *SchedulerService) RunDueJobs(ctx context.Context) {
	jobs, err := s.repo.ListDueJobs(ctx, s.now())
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list due jobs: %v", err))
		return
	}
	if len(jobs) == 0 {
		return
	}
	s.logger.WithField("count", len(jobs)).Info("Processing due scheduled jobs")
	for _, job := range jobs {
		if err := s.dispatch(ctx, job); err != nil {
			continue
		}
	}
}

// Start launches the periodic dispatch loop. Calling Start on a running
// scheduler is a no-op.
func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunDueJobs(ctx)
			}
		}
	}()

	s.logger.WithField("interval", s.interval.String()).Info("Scheduler started")
}

// Stop halts the dispatch loop and waits for an in-flight tick to
// finish. Safe to call multiple times.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("Scheduler stopped")
}
