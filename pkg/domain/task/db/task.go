package db

import (
	"context"

	"github.com/tasklane/tasklane/pkg/domain"
)

type TaskInterface interface {
	// Retreive tasks identified by taskIds.
	//
	// # Args
	//
	// - ctx: context
	//
	// - []string: taskIds
	//
	// # Returns
	//
	// - map[string]domain.Task : mapping from taskId to Task.
	// taskIds which do not point actual tasks are just omitted.
	//
	// - error
	Get(ctx context.Context, taskIds []string) (map[string]domain.Task, error)

	// Retrieve taskIds of the tasks matching the query.
	//
	// Matched taskIds are ordered by CreatedAt, oldest first.
	Find(ctx context.Context, query domain.TaskQuery) ([]string, error)

	// Create a new task from the spec.
	//
	// # Returns
	//
	// - string: taskId of the new task
	//
	// - error
	Create(ctx context.Context, spec domain.TaskSpec) (string, error)

	// Update attributes of the task identified by taskId.
	//
	// nil fields in update are left unchanged.
	//
	// When no task has the taskId, it returns error wrapping ErrMissing.
	Update(ctx context.Context, taskId string, update domain.TaskUpdate) error

	// SetDone sets the done flag of the task.
	//
	// When no task has the taskId, it returns error wrapping ErrMissing.
	SetDone(ctx context.Context, taskId string, done bool) error

	// UpdateLabel adds/removes labels on the task.
	//
	// Removals are applied before additions.
	//
	// When no task has the taskId, it returns error wrapping ErrMissing.
	UpdateLabel(ctx context.Context, taskId string, delta domain.LabelDelta) error

	// Delete the task identified by taskId, together with its labels.
	//
	// When no task has the taskId, it returns error wrapping ErrMissing.
	Delete(ctx context.Context, taskId string) error
}
