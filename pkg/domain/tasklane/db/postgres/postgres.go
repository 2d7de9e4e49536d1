package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	kschema "github.com/tasklane/tasklane/pkg/domain/schema/db"
	kpgschema "github.com/tasklane/tasklane/pkg/domain/schema/db/postgres"
	ktask "github.com/tasklane/tasklane/pkg/domain/task/db"
	kpgtask "github.com/tasklane/tasklane/pkg/domain/task/db/postgres"
	dbInterface "github.com/tasklane/tasklane/pkg/domain/tasklane/db"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

type tasklaneDBPostgres struct {
	pool   *pgxpool.Pool
	tasks  ktask.TaskInterface
	schema kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.TasklaneDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &tasklaneDBPostgres{
		pool:   pool,
		tasks:  kpgtask.New(p),
		schema: schema,
	}, nil
}

func (t *tasklaneDBPostgres) Tasks() ktask.TaskInterface {
	return t.tasks
}

func (t *tasklaneDBPostgres) Schema() kschema.SchemaInterface {
	return t.schema
}

func (t *tasklaneDBPostgres) Close() error {
	t.pool.Close()
	return nil
}
