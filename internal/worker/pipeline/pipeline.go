package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// Task runs the pipeline work for one job kind. It must honor ctx
// cancellation; the worker enforces the per-job timeout through it.
type Task func(ctx context.Context, job *domain.Job) error

// Registry maps job kinds to their pipeline tasks
type Registry struct {
	tasks map[string]Task
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]Task),
	}
}

// Register binds a task to a job kind, replacing any previous binding
func (r *Registry) Register(kind string, task Task) {
	r.tasks[kind] = task
}

// Task returns the task registered for kind
func (r *Registry) Task(kind string) (Task, bool) {
	task, ok := r.tasks[kind]
	return task, ok
}

// Default returns a registry with the three pipeline families bound to
// staged placeholder tasks. The real genomic work runs in the external
// pipeline; these stand in for it during development and tests.
func Default(logger *slog.Logger) *Registry {
	r := NewRegistry()
	r.Register(domain.KindUpdateEnsembl, stagedTask(logger, []string{
		"fetch ensembl release metadata",
		"refresh gene and transcript annotations",
	}))
	r.Register(domain.KindProcessMapping, stagedTask(logger, []string{
		"load source records",
		"align ensembl and uniprot entries",
		"write mapping candidates",
	}))
	r.Register(domain.KindPublishMapping, stagedTask(logger, []string{
		"validate merged mappings",
		"publish release",
	}))
	return r
}

// stagedTask returns a Task that walks through the named stages, logging
// each one and stopping as soon as the context is canceled.
func stagedTask(logger *slog.Logger, stages []string) Task {
	return func(ctx context.Context, job *domain.Job) error {
		for _, stage := range stages {
			select {
			case <-ctx.Done():
				return fmt.Errorf("stage %q canceled: %w", stage, ctx.Err())
			case <-time.After(100 * time.Millisecond):
			}

			logger.Info("Pipeline stage complete",
				slog.Int64("job_id", job.ID),
				slog.String("kind", job.Kind),
				slog.String("stage", stage),
			)
		}
		return nil
	}
}
