package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/graham/internal/scheduler"
	"github.com/wonny/graham/pkg/logger"
)

// JobRunner exposes scheduler stats and manual triggers
type JobRunner interface {
	GetJobStats() map[string]scheduler.JobStats
	RunJob(jobName string) error
}

// JobHandler serves scheduler status
type JobHandler struct {
	runner JobRunner
	logger *logger.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(runner JobRunner, log *logger.Logger) *JobHandler {
	return &JobHandler{runner: runner, logger: log}
}

// GetJobs returns per-job run statistics
// GET /api/jobs
func (h *JobHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.GetJobStats())
}

// RunJob triggers a job outside its schedule
// POST /api/jobs/{name}/run
func (h *JobHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.runner.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"job":    name,
	})
}
