package dto

import "github.com/gifts-prodinf/gifts-jobs/internal/domain"

// JobRef is the wire form of a single job reference
type JobRef struct {
	JobID int64 `json:"job_id"`
}

// GroupResponse is the wire form of a job listing
type GroupResponse struct {
	Group []JobRef `json:"group"`
}

// StatusResponse carries a job status string. Declared by the contract but
// not routed anywhere yet; reserved for future use.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON error body for all failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewGroupResponse builds a GroupResponse from store jobs, preserving order
func NewGroupResponse(jobs []domain.Job) GroupResponse {
	group := make([]JobRef, len(jobs))
	for i, job := range jobs {
		group[i] = JobRef{JobID: job.ID}
	}
	return GroupResponse{Group: group}
}
