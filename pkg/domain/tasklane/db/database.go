package db

import (
	kschema "github.com/tasklane/tasklane/pkg/domain/schema/db"
	ktask "github.com/tasklane/tasklane/pkg/domain/task/db"
)

type TasklaneDatabase interface {
	Tasks() ktask.TaskInterface
	Schema() kschema.SchemaInterface
	Close() error
}
