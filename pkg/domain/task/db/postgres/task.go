package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	"github.com/tasklane/tasklane/pkg/domain"
	kpgerr "github.com/tasklane/tasklane/pkg/domain/errors/dberrors/postgres"
	taskdb "github.com/tasklane/tasklane/pkg/domain/task/db"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

// default priority of new tasks, when the spec does not give one.
const DefaultPriority = 3

type taskPG struct { // implements taskdb.TaskInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) taskdb.TaskInterface {
	return &taskPG{pool: pool}
}

func (t *taskPG) Get(ctx context.Context, taskIds []string) (map[string]domain.Task, error) {
	if len(taskIds) == 0 {
		return map[string]domain.Task{}, nil
	}

	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return get(ctx, conn, taskIds)
}

func get(ctx context.Context, conn kpool.Queryer, taskIds []string) (map[string]domain.Task, error) {
	bodies := map[string]domain.TaskBody{}
	{
		rows, err := conn.Query(
			ctx,
			`
			select
				"task_id", "title", "note", "done", "priority",
				"deadline", "created_at", "updated_at"
			from "task"
			where "task_id" = any($1::varchar[])
			`,
			taskIds,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		for rows.Next() {
			var body domain.TaskBody
			if err := rows.Scan(
				&body.TaskId, &body.Title, &body.Note, &body.Done, &body.Priority,
				&body.Deadline, &body.CreatedAt, &body.UpdatedAt,
			); err != nil {
				return nil, err
			}
			bodies[body.TaskId] = body
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if len(bodies) == 0 { // means, no queried taskIds point actual ones.
		return map[string]domain.Task{}, nil
	}

	labels := map[string][]domain.Label{}
	{
		rows, err := conn.Query(
			ctx,
			`
			select "task_id", "key", "value" from "label"
			where "task_id" = any($1::varchar[])
			`,
			slices.KeysOf(bodies),
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		for rows.Next() {
			var taskId string
			var label domain.Label
			if err := rows.Scan(&taskId, &label.Key, &label.Value); err != nil {
				return nil, err
			}
			labels[taskId] = append(labels[taskId], label)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	result := make(map[string]domain.Task, len(bodies))
	for taskId, body := range bodies {
		result[taskId] = domain.Task{
			TaskBody: body,
			Labels:   domain.NewLabelSet(labels[taskId]),
		}
	}
	return result, nil
}

func (t *taskPG) Find(ctx context.Context, query domain.TaskQuery) ([]string, error) {
	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	conds := []string{}
	args := []interface{}{}

	if query.Done != nil {
		args = append(args, *query.Done)
		conds = append(conds, fmt.Sprintf(`"done" = $%d`, len(args)))
	}
	if query.Since != nil {
		args = append(args, *query.Since)
		conds = append(conds, fmt.Sprintf(`$%d <= "updated_at"`, len(args)))
	}
	if query.Until != nil {
		args = append(args, *query.Until)
		conds = append(conds, fmt.Sprintf(`"updated_at" < $%d`, len(args)))
	}
	for _, l := range query.Labels {
		args = append(args, l.Key, l.Value)
		conds = append(conds, fmt.Sprintf(
			`"task_id" in (select "task_id" from "label" where "key" = $%d and "value" = $%d)`,
			len(args)-1, len(args),
		))
	}

	sql := `select "task_id" from "task"`
	if 0 < len(conds) {
		sql += ` where ` + strings.Join(conds, ` and `)
	}
	sql += ` order by "created_at", "task_id"`

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taskIds := []string{}
	for rows.Next() {
		var taskId string
		if err := rows.Scan(&taskId); err != nil {
			return nil, err
		}
		taskIds = append(taskIds, taskId)
	}
	return taskIds, rows.Err()
}

func (t *taskPG) Create(ctx context.Context, spec domain.TaskSpec) (string, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	taskId := uuid.NewString()

	priority := spec.Priority
	if priority == 0 {
		priority = DefaultPriority
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "task" ("task_id", "title", "note", "done", "priority", "deadline")
		values ($1, $2, $3, false, $4, $5)
		`,
		taskId, spec.Title, spec.Note, priority, spec.Deadline,
	); err != nil {
		return "", err
	}

	if err := insertLabels(ctx, tx, taskId, spec.Labels); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return taskId, nil
}

func insertLabels(ctx context.Context, conn kpool.Queryer, taskId string, labels []domain.Label) error {
	for _, l := range domain.NewLabelSet(labels).Slice() {
		if _, err := conn.Exec(
			ctx,
			`
			insert into "label" ("task_id", "key", "value") values ($1, $2, $3)
			on conflict do nothing
			`,
			taskId, l.Key, l.Value,
		); err != nil {
			return err
		}
	}
	return nil
}

func (t *taskPG) Update(ctx context.Context, taskId string, update domain.TaskUpdate) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var title, note string
	var priority int
	var deadline *time.Time
	if err := tx.QueryRow(
		ctx,
		`select "title", "note", "priority", "deadline" from "task" where "task_id" = $1 for update`,
		taskId,
	).Scan(&title, &note, &priority, &deadline); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{Table: "task", Identity: taskId}
		}
		return err
	}

	if update.Title != nil {
		title = *update.Title
	}
	if update.Note != nil {
		note = *update.Note
	}
	if update.Priority != nil {
		priority = *update.Priority
	}
	if update.Deadline != nil {
		deadline = update.Deadline
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "task"
		set "title" = $2, "note" = $3, "priority" = $4, "deadline" = $5, "updated_at" = now()
		where "task_id" = $1
		`,
		taskId, title, note, priority, deadline,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (t *taskPG) SetDone(ctx context.Context, taskId string, done bool) error {
	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`update "task" set "done" = $2, "updated_at" = now() where "task_id" = $1`,
		taskId, done,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{Table: "task", Identity: taskId}
	}
	return nil
}

func (t *taskPG) UpdateLabel(ctx context.Context, taskId string, delta domain.LabelDelta) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var found string
	if err := tx.QueryRow(
		ctx,
		`select "task_id" from "task" where "task_id" = $1 for update`,
		taskId,
	).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{Table: "task", Identity: taskId}
		}
		return err
	}

	// remove first, then add. so a label in both sides survives.
	for _, l := range delta.Remove {
		if _, err := tx.Exec(
			ctx,
			`delete from "label" where "task_id" = $1 and "key" = $2 and "value" = $3`,
			taskId, l.Key, l.Value,
		); err != nil {
			return err
		}
	}

	if err := insertLabels(ctx, tx, taskId, delta.Add); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`update "task" set "updated_at" = now() where "task_id" = $1`,
		taskId,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (t *taskPG) Delete(ctx context.Context, taskId string) error {
	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	// labels follow by "on delete cascade".
	tag, err := conn.Exec(
		ctx, `delete from "task" where "task_id" = $1`, taskId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{Table: "task", Identity: taskId}
	}
	return nil
}
