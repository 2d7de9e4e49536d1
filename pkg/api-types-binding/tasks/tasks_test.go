package tasks_test

import (
	"testing"

	apilabels "github.com/tasklane/tasklane/pkg/api/types/labels"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	bindtasks "github.com/tasklane/tasklane/pkg/api-types-binding/tasks"
	"github.com/tasklane/tasklane/pkg/domain"
	"github.com/tasklane/tasklane/pkg/utils/pointer"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
	"github.com/tasklane/tasklane/pkg/utils/try"
)

func TestComposeDetail(t *testing.T) {

	t.Run("it converts a task, appending system labels", func(t *testing.T) {
		deadline := try.To(rfctime.ParseRFC3339DateTime(
			"2023-04-10T00:00:00.000+09:00",
		)).OrFatal(t)
		createdAt := try.To(rfctime.ParseRFC3339DateTime(
			"2023-04-05T10:11:12.567+09:00",
		)).OrFatal(t)
		updatedAt := try.To(rfctime.ParseRFC3339DateTime(
			"2023-04-06T09:00:00.000+09:00",
		)).OrFatal(t)

		actual := bindtasks.ComposeDetail(domain.Task{
			TaskBody: domain.TaskBody{
				TaskId:    "task-1",
				Title:     "write meeting minutes",
				Note:      "weekly sync",
				Done:      true,
				Priority:  2,
				Deadline:  pointer.Ref(deadline.Time()),
				CreatedAt: createdAt.Time(),
				UpdatedAt: updatedAt.Time(),
			},
			Labels: domain.NewLabelSet([]domain.Label{
				{Key: "project", Value: "alpha"},
			}),
		})

		want := apitasks.Detail{
			TaskId:   "task-1",
			Title:    "write meeting minutes",
			Note:     "weekly sync",
			Done:     true,
			Priority: 2,
			Deadline: &deadline,
			Labels: []apilabels.Label{
				{Key: "project", Value: "alpha"},
				{Key: apilabels.KeyTaskId, Value: "task-1"},
				{Key: apilabels.KeyTaskCreated, Value: createdAt.String()},
			},
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		}

		if !actual.Equal(want) {
			t.Errorf("unmatch detail:\n got  %+v\n want %+v", actual, want)
		}
	})

	t.Run("it composes a task without user labels nor deadline", func(t *testing.T) {
		createdAt := try.To(rfctime.ParseRFC3339DateTime(
			"2023-04-05T10:11:12.567+09:00",
		)).OrFatal(t)

		actual := bindtasks.ComposeDetail(domain.Task{
			TaskBody: domain.TaskBody{
				TaskId:    "task-2",
				Title:     "buy milk",
				Priority:  3,
				CreatedAt: createdAt.Time(),
				UpdatedAt: createdAt.Time(),
			},
			Labels: domain.NewLabelSet(nil),
		})

		if actual.Deadline != nil {
			t.Errorf("deadline is not nil: %+v", actual.Deadline)
		}
		if len(actual.Labels) != 2 {
			t.Errorf("unmatch labels: %+v", actual.Labels)
		}
	})
}
