package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gifts-prodinf/gifts-jobs/internal/api/dto"
	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// SubmitJob returns the POST handler for one endpoint family. It records the
// submission, enqueues the dispatch signal and answers with the new job id
// without waiting for the pipeline.
func (h *JobHandler) SubmitJob(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := h.dispatcher.Submit(c.Request.Context(), kind)
		if err != nil {
			h.logger.Error("Failed to submit job",
				slog.String("kind", kind),
				slog.String("error", err.Error()),
			)
			h.writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.JobRef{JobID: jobID})
	}
}

// ListJobs returns the GET handler listing all jobs of one endpoint family
func (h *JobHandler) ListJobs(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := h.query.ListJobs(c.Request.Context(), kind)
		if err != nil {
			h.logger.Error("Failed to list jobs",
				slog.String("kind", kind),
				slog.String("error", err.Error()),
			)
			h.writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewGroupResponse(jobs))
	}
}

// GetJob handles GET /gifts/<family>/:job_id for every endpoint family
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "job_id must be an integer",
		})
		return
	}

	job, err := h.query.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if !errors.Is(err, domain.ErrJobNotFound) {
			h.logger.Error("Failed to get job",
				slog.Int64("job_id", jobID),
				slog.String("error", err.Error()),
			)
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobRef{JobID: job.ID})
}

// writeError maps domain errors onto HTTP statuses: unknown ids yield 404;
// scheduling, storage and transition failures are server-side errors.
func (h *JobHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrJobNotFound) {
		status = http.StatusNotFound
	}

	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}
