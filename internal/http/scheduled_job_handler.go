package http

import (
	"encoding/json"
	"net/http"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// ScheduledJobHandler handles HTTP requests for the notification job queue
type ScheduledJobHandler struct {
	schedulerService *service.SchedulerService
	logger           logger.Logger
}

func NewScheduledJobHandler(schedulerService *service.SchedulerService, logger logger.Logger) *ScheduledJobHandler {
	return &ScheduledJobHandler{schedulerService: schedulerService, logger: logger}
}

// RegisterRoutes registers the scheduled job routes
func (h *ScheduledJobHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/scheduled-jobs", requireAuth(http.HandlerFunc(h.ListJobs)))
	mux.Handle("POST /api/scheduled-jobs", requireAuth(http.HandlerFunc(h.ScheduleJob)))
	mux.Handle("GET /api/scheduled-jobs/{id}", requireAuth(http.HandlerFunc(h.GetJob)))
	mux.Handle("POST /api/scheduled-jobs/{id}/cancel", requireAuth(http.HandlerFunc(h.CancelJob)))
}

// ScheduleJob enqueues a new pending notification job
func (h *ScheduledJobHandler) ScheduleJob(w http.ResponseWriter, r *http.Request) {
	var req domain.ScheduleJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := h.schedulerService.ScheduleJob(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, "schedule job", err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// ListJobs returns due pending jobs, or the next week of pending jobs
// when upcoming=true.
func (h *ScheduledJobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	var (
		jobs []*domain.ScheduledJob
		err  error
	)
	if r.URL.Query().Get("upcoming") == "true" {
		jobs, err = h.schedulerService.GetUpcomingJobs(r.Context())
	} else {
		jobs, err = h.schedulerService.GetPendingJobs(r.Context())
	}
	if err != nil {
		writeServiceError(w, h.logger, "list scheduled jobs", err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetJob retrieves one job by ID
func (h *ScheduledJobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.schedulerService.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, "get scheduled job", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// CancelJob moves a pending job to cancelled
func (h *ScheduledJobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.schedulerService.CancelJob(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, "cancel scheduled job", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
