package handler

import (
	"log/slog"

	"github.com/gifts-prodinf/gifts-jobs/internal/api/dispatch"
	"github.com/gifts-prodinf/gifts-jobs/internal/api/query"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Dispatcher *dispatch.Dispatcher
	Query      *query.Service
}

// JobHandler handles job submission and status HTTP requests
type JobHandler struct {
	logger     *slog.Logger
	dispatcher *dispatch.Dispatcher
	query      *query.Service
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:     deps.Logger,
		dispatcher: deps.Dispatcher,
		query:      deps.Query,
	}
}
