package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

type scheduledJobRepository struct {
	db *sql.DB
}

// NewScheduledJobRepository creates a new PostgreSQL scheduled job repository
func NewScheduledJobRepository(db *sql.DB) domain.ScheduledJobRepository {
	return &scheduledJobRepository{db: db}
}

func (r *scheduledJobRepository) CreateJob(ctx context.Context, job *domain.ScheduledJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO scheduled_jobs (id, job_type, scheduled_for, status, recipient_phone, message, order_id, measurement_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID,
		job.JobType,
		job.ScheduledFor,
		job.Status,
		job.RecipientPhone,
		job.Message,
		nullString(job.OrderID),
		nullString(job.MeasurementID),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduled job: %w", err)
	}
	return nil
}

const jobColumns = `id, job_type, scheduled_for, status, recipient_phone, message, order_id, measurement_id, created_at, updated_at`

func (r *scheduledJobRepository) GetJobByID(ctx context.Context, id string) (*domain.ScheduledJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM scheduled_jobs WHERE id = $1`, jobColumns)
	row := r.db.QueryRowContext(ctx, query, id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, domain.NewErrNotFound("scheduled job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled job: %w", err)
	}
	return job, nil
}

func (r *scheduledJobRepository) ListDueJobs(ctx context.Context, until time.Time) ([]*domain.ScheduledJob, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"id", "job_type", "scheduled_for", "status", "recipient_phone",
		"message", "order_id", "measurement_id", "created_at", "updated_at",
	).From("scheduled_jobs").
		Where(sq.Eq{"status": domain.JobStatusPending}).
		Where(sq.LtOrEq{"scheduled_for": until}).
		OrderBy("scheduled_for").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build due jobs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list due jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.ScheduledJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due jobs: %w", err)
	}
	return jobs, nil
}

func (r *scheduledJobRepository) UpdateJobStatus(ctx context.Context, id string, status domain.JobStatus) error {
	query := `
		UPDATE scheduled_jobs
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewErrNotFound("scheduled job", id)
	}
	return nil
}

func scanJob(row rowScanner) (*domain.ScheduledJob, error) {
	var (
		j             domain.ScheduledJob
		orderID       sql.NullString
		measurementID sql.NullString
	)
	err := row.Scan(
		&j.ID, &j.JobType, &j.ScheduledFor, &j.Status, &j.RecipientPhone,
		&j.Message, &orderID, &measurementID, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.OrderID = orderID.String
	j.MeasurementID = measurementID.String
	return &j, nil
}
