package tasks

import (
	"github.com/tasklane/tasklane/pkg/api/types/labels"
	"github.com/tasklane/tasklane/pkg/utils/cmp"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

// Detail is the wire representation of a task.
type Detail struct {
	TaskId    string           `json:"taskId"`
	Title     string           `json:"title"`
	Note      string           `json:"note,omitempty"`
	Done      bool             `json:"done"`
	Priority  int              `json:"priority"`
	Deadline  *rfctime.RFC3339 `json:"deadline,omitempty"`
	Labels    []labels.Label   `json:"labels"`
	CreatedAt rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt rfctime.RFC3339  `json:"updatedAt"`
}

func (d Detail) Equal(o Detail) bool {
	return d.TaskId == o.TaskId &&
		d.Title == o.Title &&
		d.Note == o.Note &&
		d.Done == o.Done &&
		d.Priority == o.Priority &&
		cmp.PEqualWith(d.Deadline, o.Deadline, rfctime.RFC3339.Equal) &&
		cmp.SliceContentEqWith(d.Labels, o.Labels, labels.Label.Equal) &&
		d.CreatedAt.Equal(o.CreatedAt) &&
		d.UpdatedAt.Equal(o.UpdatedAt)
}

// TaskSpec is the request body to create a task.
type TaskSpec struct {
	Title    string             `json:"title" validate:"required"`
	Note     string             `json:"note"`
	Priority int                `json:"priority" validate:"omitempty,min=1,max=5"`
	Deadline *rfctime.RFC3339   `json:"deadline"`
	Labels   []labels.UserLabel `json:"labels"`
}

func (s TaskSpec) Equal(o TaskSpec) bool {
	return s.Title == o.Title &&
		s.Note == o.Note &&
		s.Priority == o.Priority &&
		cmp.PEqualWith(s.Deadline, o.Deadline, rfctime.RFC3339.Equal) &&
		cmp.SliceContentEq(s.Labels, o.Labels)
}

// TaskUpdate is the request body to update a task.
//
// nil fields are left unchanged.
type TaskUpdate struct {
	Title    *string          `json:"title" validate:"omitnil,min=1"`
	Note     *string          `json:"note"`
	Priority *int             `json:"priority" validate:"omitnil,min=1,max=5"`
	Deadline *rfctime.RFC3339 `json:"deadline"`
}
