package domain

import (
	"fmt"
	"time"
)

// Job kind constants, one per pipeline family.
const (
	KindUpdateEnsembl  = "UPDATE_ENSEMBL"
	KindProcessMapping = "PROCESS_MAPPING"
	KindPublishMapping = "PUBLISH_MAPPING"
)

// Job status constants
const (
	JobStatusSubmitted = "SUBMITTED"
	JobStatusRunning   = "RUNNING"
	JobStatusSucceeded = "SUCCEEDED"
	JobStatusFailed    = "FAILED"
)

// Job represents one unit of submitted pipeline work tracked by id and status
type Job struct {
	ID        int64     `db:"job_id"`
	Kind      string    `db:"kind"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Kinds returns all known job kinds in a fixed order.
func Kinds() []string {
	return []string{KindUpdateEnsembl, KindProcessMapping, KindPublishMapping}
}

// ValidKind reports whether kind names a known pipeline family.
func ValidKind(kind string) bool {
	switch kind {
	case KindUpdateEnsembl, KindProcessMapping, KindPublishMapping:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the four job statuses.
func ValidStatus(status string) bool {
	switch status {
	case JobStatusSubmitted, JobStatusRunning, JobStatusSucceeded, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether status is a terminal state.
func IsTerminal(status string) bool {
	return status == JobStatusSucceeded || status == JobStatusFailed
}

// PrevStatus returns the single status a job must currently hold for a
// transition into next to be legal. Transitions are strict single steps:
// SUBMITTED -> RUNNING -> {SUCCEEDED, FAILED}.
func PrevStatus(next string) (string, error) {
	switch next {
	case JobStatusRunning:
		return JobStatusSubmitted, nil
	case JobStatusSucceeded, JobStatusFailed:
		return JobStatusRunning, nil
	case JobStatusSubmitted:
		return "", fmt.Errorf("%w: no transition into %s", ErrInvalidTransition, next)
	}
	return "", fmt.Errorf("unknown job status %q", next)
}

// CanTransition reports whether a job in status from may move to status to.
func CanTransition(from, to string) bool {
	prev, err := PrevStatus(to)
	if err != nil {
		return false
	}
	return prev == from
}
