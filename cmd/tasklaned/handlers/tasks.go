package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	apilabels "github.com/tasklane/tasklane/pkg/api/types/labels"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	bindtasks "github.com/tasklane/tasklane/pkg/api-types-binding/tasks"
	"github.com/tasklane/tasklane/pkg/domain"
	kerr "github.com/tasklane/tasklane/pkg/domain/errors"
	taskdb "github.com/tasklane/tasklane/pkg/domain/task/db"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

// FindTaskHandler lists tasks matching query parameters.
//
// Supported parameters: label (repeatable, KEY:VALUE), done (true|false),
// since (RFC3339) and duration (Go duration, bounds UpdatedAt from since).
func FindTaskHandler(dbTask taskdb.TaskInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		query, err := queryParamToTaskQuery(c)
		if err != nil {
			return err
		}

		taskIds, err := dbTask.Find(ctx, query)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(taskIds) == 0 {
			return c.JSON(http.StatusOK, []apitasks.Detail{})
		}

		tasks, err := dbTask.Get(ctx, taskIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apitasks.Detail, 0, len(tasks))
		for _, taskId := range taskIds {
			if t, ok := tasks[taskId]; ok {
				found = append(found, bindtasks.ComposeDetail(t))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

var knownTaskFilters = map[string]struct{}{
	"label": {}, "done": {}, "since": {}, "duration": {},
}

func queryParamToTaskQuery(c echo.Context) (domain.TaskQuery, error) {
	query := domain.TaskQuery{}
	params := c.QueryParams()

	for key := range params {
		if _, ok := knownTaskFilters[key]; !ok {
			return domain.TaskQuery{}, apierr.BadRequest(
				fmt.Sprintf("unknown filter: %s (supported: label, done, since, duration)", key),
				nil,
			)
		}
	}

	for _, p := range params["label"] {
		l := apilabels.UserLabel{}
		if err := l.Parse(p); err != nil {
			return domain.TaskQuery{}, apierr.BadRequest(
				`each label should be formatted as KEY:VALUE, without reserved "task#" keys`,
				err,
			)
		}
		dl, err := domain.NewLabel(l.Key, l.Value)
		if err != nil {
			return domain.TaskQuery{}, apierr.BadRequest(fmt.Sprintf("bad label: %s", p), err)
		}
		query.Labels = append(query.Labels, dl)
	}

	if p := c.QueryParam("done"); p != "" {
		switch p {
		case "true":
			done := true
			query.Done = &done
		case "false":
			done := false
			query.Done = &done
		default:
			return domain.TaskQuery{}, apierr.BadRequest(
				`done should be "true" or "false"`, nil,
			)
		}
	}

	if p := c.QueryParam("since"); p != "" {
		since, err := rfctime.ParseRFC3339DateTime(p)
		if err != nil {
			return domain.TaskQuery{}, apierr.BadRequest(
				"since should be an RFC3339 timestamp", err,
			)
		}
		t := since.Time()
		query.Since = &t
	}

	if p := c.QueryParam("duration"); p != "" {
		if query.Since == nil {
			return domain.TaskQuery{}, apierr.BadRequest(
				"duration requires since", nil,
			)
		}
		d, err := time.ParseDuration(p)
		if err != nil {
			return domain.TaskQuery{}, apierr.BadRequest(
				`duration should be a Go duration, like "72h"`, err,
			)
		}
		until := query.Since.Add(d)
		query.Until = &until
	}

	return query, nil
}

// GetTaskHandler fetches a single task by the path parameter named paramKey.
func GetTaskHandler(dbTask taskdb.TaskInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId := c.Param(paramKey)

		tasks, err := dbTask.Get(ctx, []string{taskId})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		t, ok := tasks[taskId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, bindtasks.ComposeDetail(t))
	}
}

// TaskRegisterHandler creates a new task from the posted spec.
func TaskRegisterHandler(dbTask taskdb.TaskInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		spec := apitasks.TaskSpec{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&spec); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		if err := c.Validate(&spec); err != nil {
			return apierr.BadRequest("title is required; priority should be 1 to 5", err)
		}

		dspec := domain.TaskSpec{
			Title:    spec.Title,
			Note:     spec.Note,
			Priority: spec.Priority,
		}
		if spec.Deadline != nil {
			d := spec.Deadline.Time()
			dspec.Deadline = &d
		}
		for _, l := range spec.Labels {
			dl, err := domain.NewLabel(l.Key, l.Value)
			if err != nil {
				return apierr.BadRequest(fmt.Sprintf("bad label: %s", apilabels.Label(l)), err)
			}
			dspec.Labels = append(dspec.Labels, dl)
		}

		taskId, err := dbTask.Create(ctx, dspec)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return respondWithTask(c, dbTask, taskId)
	}
}

// UpdateTaskHandler updates attributes of a task. Absent fields stay unchanged.
func UpdateTaskHandler(dbTask taskdb.TaskInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId := c.Param(paramKey)

		update := apitasks.TaskUpdate{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&update); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		if err := c.Validate(&update); err != nil {
			return apierr.BadRequest("title may not be empty; priority should be 1 to 5", err)
		}

		dupdate := domain.TaskUpdate{
			Title:    update.Title,
			Note:     update.Note,
			Priority: update.Priority,
		}
		if update.Deadline != nil {
			d := update.Deadline.Time()
			dupdate.Deadline = &d
		}

		if dupdate.Empty() {
			// nothing to write. respond the task as it is, or 404.
			tasks, err := dbTask.Get(ctx, []string{taskId})
			if err != nil {
				return apierr.InternalServerError(err)
			}
			t, ok := tasks[taskId]
			if !ok {
				return apierr.NotFound()
			}
			return c.JSON(http.StatusOK, bindtasks.ComposeDetail(t))
		}

		if err := dbTask.Update(ctx, taskId, dupdate); errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return respondWithTask(c, dbTask, taskId)
	}
}

// DeleteTaskHandler removes a task and its labels.
func DeleteTaskHandler(dbTask taskdb.TaskInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId := c.Param(paramKey)

		if err := dbTask.Delete(ctx, taskId); errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// TaskDoneHandler marks a task done (done = true) or reopens it (done = false).
func TaskDoneHandler(dbTask taskdb.TaskInterface, paramKey string, done bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId := c.Param(paramKey)

		if err := dbTask.SetDone(ctx, taskId, done); errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return respondWithTask(c, dbTask, taskId)
	}
}

// PutLabelsHandler adds/removes labels on a task. Removals apply first.
func PutLabelsHandler(dbTask taskdb.TaskInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId := c.Param(paramKey)

		change := apilabels.Change{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&change); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}

		delta := domain.LabelDelta{}
		for _, l := range change.Add {
			dl, err := domain.NewLabel(l.Key, l.Value)
			if err != nil {
				return apierr.BadRequest(fmt.Sprintf("bad label: %s", apilabels.Label(l)), err)
			}
			delta.Add = append(delta.Add, dl)
		}
		for _, l := range change.Remove {
			dl, err := domain.NewLabel(l.Key, l.Value)
			if err != nil {
				return apierr.BadRequest(fmt.Sprintf("bad label: %s", apilabels.Label(l)), err)
			}
			delta.Remove = append(delta.Remove, dl)
		}

		if err := dbTask.UpdateLabel(ctx, taskId, delta); errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return respondWithTask(c, dbTask, taskId)
	}
}

func respondWithTask(c echo.Context, dbTask taskdb.TaskInterface, taskId string) error {
	tasks, err := dbTask.Get(c.Request().Context(), []string{taskId})
	if err != nil {
		return apierr.InternalServerError(err)
	}
	t, ok := tasks[taskId]
	if !ok {
		return apierr.InternalServerError(errors.New("task vanished while responding: " + taskId))
	}
	return c.JSON(http.StatusOK, bindtasks.ComposeDetail(t))
}
