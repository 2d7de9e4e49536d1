package tasks

import (
	apilabels "github.com/tasklane/tasklane/pkg/api/types/labels"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	"github.com/tasklane/tasklane/pkg/domain"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

// ComposeDetail converts a domain Task into its wire representation.
//
// System labels (task#id, task#created) are appended to the user labels.
func ComposeDetail(t domain.Task) apitasks.Detail {
	labels := slices.Map(
		t.Labels.Slice(),
		func(l domain.Label) apilabels.Label {
			return apilabels.Label{Key: l.Key, Value: l.Value}
		},
	)
	labels = append(
		labels,
		apilabels.Label{Key: apilabels.KeyTaskId, Value: t.TaskId},
		apilabels.Label{
			Key:   apilabels.KeyTaskCreated,
			Value: rfctime.RFC3339(t.CreatedAt).String(),
		},
	)

	var deadline *rfctime.RFC3339
	if t.Deadline != nil {
		d := rfctime.RFC3339(*t.Deadline)
		deadline = &d
	}

	return apitasks.Detail{
		TaskId:    t.TaskId,
		Title:     t.Title,
		Note:      t.Note,
		Done:      t.Done,
		Priority:  t.Priority,
		Deadline:  deadline,
		Labels:    labels,
		CreatedAt: rfctime.RFC3339(t.CreatedAt),
		UpdatedAt: rfctime.RFC3339(t.UpdatedAt),
	}
}
