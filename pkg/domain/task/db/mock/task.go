package mocks

import (
	"context"
	"errors"

	"github.com/tasklane/tasklane/pkg/domain"
	dbmock "github.com/tasklane/tasklane/pkg/domain/internal/db/mock"
	taskdb "github.com/tasklane/tasklane/pkg/domain/task/db"
)

type TaskInterface struct {
	Impl struct {
		Get         func(context.Context, []string) (map[string]domain.Task, error)
		Find        func(context.Context, domain.TaskQuery) ([]string, error)
		Create      func(context.Context, domain.TaskSpec) (string, error)
		Update      func(context.Context, string, domain.TaskUpdate) error
		SetDone     func(context.Context, string, bool) error
		UpdateLabel func(context.Context, string, domain.LabelDelta) error
		Delete      func(context.Context, string) error
	}
	Calls struct {
		Get    dbmock.CallLog[struct{ TaskId []string }]
		Find   dbmock.CallLog[domain.TaskQuery]
		Create dbmock.CallLog[domain.TaskSpec]
		Update dbmock.CallLog[struct {
			TaskId string
			Update domain.TaskUpdate
		}]
		SetDone dbmock.CallLog[struct {
			TaskId string
			Done   bool
		}]
		UpdateLabel dbmock.CallLog[struct {
			TaskId string
			Delta  domain.LabelDelta
		}]
		Delete dbmock.CallLog[struct{ TaskId string }]
	}
}

func NewTaskInterface() *TaskInterface {
	return &TaskInterface{}
}

var _ taskdb.TaskInterface = &TaskInterface{}

func (ti *TaskInterface) Get(ctx context.Context, taskIds []string) (map[string]domain.Task, error) {
	ti.Calls.Get = append(ti.Calls.Get, struct{ TaskId []string }{TaskId: taskIds})
	if ti.Impl.Get != nil {
		return ti.Impl.Get(ctx, taskIds)
	}
	panic(errors.New("it should not be called"))
}

func (ti *TaskInterface) Find(ctx context.Context, query domain.TaskQuery) ([]string, error) {
	ti.Calls.Find = append(ti.Calls.Find, query)
	if ti.Impl.Find != nil {
		return ti.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (ti *TaskInterface) Create(ctx context.Context, spec domain.TaskSpec) (string, error) {
	ti.Calls.Create = append(ti.Calls.Create, spec)
	if ti.Impl.Create != nil {
		return ti.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (ti *TaskInterface) Update(ctx context.Context, taskId string, update domain.TaskUpdate) error {
	ti.Calls.Update = append(ti.Calls.Update, struct {
		TaskId string
		Update domain.TaskUpdate
	}{
		TaskId: taskId, Update: update,
	})
	if ti.Impl.Update != nil {
		return ti.Impl.Update(ctx, taskId, update)
	}
	panic(errors.New("it should not be called"))
}

func (ti *TaskInterface) SetDone(ctx context.Context, taskId string, done bool) error {
	ti.Calls.SetDone = append(ti.Calls.SetDone, struct {
		TaskId string
		Done   bool
	}{
		TaskId: taskId, Done: done,
	})
	if ti.Impl.SetDone != nil {
		return ti.Impl.SetDone(ctx, taskId, done)
	}
	panic(errors.New("it should not be called"))
}

func (ti *TaskInterface) UpdateLabel(ctx context.Context, taskId string, delta domain.LabelDelta) error {
	ti.Calls.UpdateLabel = append(ti.Calls.UpdateLabel, struct {
		TaskId string
		Delta  domain.LabelDelta
	}{
		TaskId: taskId, Delta: delta,
	})
	if ti.Impl.UpdateLabel != nil {
		return ti.Impl.UpdateLabel(ctx, taskId, delta)
	}
	panic(errors.New("it should not be called"))
}

func (ti *TaskInterface) Delete(ctx context.Context, taskId string) error {
	ti.Calls.Delete = append(ti.Calls.Delete, struct{ TaskId string }{TaskId: taskId})
	if ti.Impl.Delete != nil {
		return ti.Impl.Delete(ctx, taskId)
	}
	panic(errors.New("it should not be called"))
}
