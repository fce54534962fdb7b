package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskledger/taskledger/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "status", "created_at", "updated_at",
}

// PostgresTaskRepository stores task snapshots in PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// scanTask scans a single row and reconstitutes the aggregate.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		id          string
		title       string
		description *string
		status      string
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := row.Scan(&id, &title, &description, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	taskID, err := domain.ParseTaskID(id)
	if err != nil {
		return nil, fmt.Errorf("parse stored task id %q: %w", id, err)
	}
	taskStatus, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, fmt.Errorf("parse stored task status %q: %w", status, err)
	}

	return domain.ReconstituteTask(taskID, title, description, taskStatus, createdAt, updatedAt), nil
}

// scanTasks scans multiple rows into a slice of aggregates.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// Save upserts the task snapshot by id.
func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Insert("tasks").
		Columns(taskColumns...).
		Values(
			task.ID().String(),
			task.Title(),
			task.Description(),
			task.Status(),
			task.CreatedAt(),
			task.UpdatedAt(),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Save query for task: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save task: %w", err)
	}

	return nil
}

// FindByID retrieves a task by id.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// FindAll retrieves tasks matching the criteria, ordered by creation time.
func (r *PostgresTaskRepository) FindAll(ctx context.Context, criteria *domain.FilterCriteria) ([]*domain.Task, error) {
	qb := psql.Select(taskColumns...).From("tasks")

	if criteria.HasFilters() {
		qb = qb.Where(sq.Eq{"status": *criteria.Status})
	}

	query, args, err := qb.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindAll query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	return scanTasks(rows)
}

// Delete removes the record matching the task's id. Deleting an absent
// record is not an error.
func (r *PostgresTaskRepository) Delete(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": task.ID().String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

// CountByStatus returns the number of stored tasks per status.
func (r *PostgresTaskRepository) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int, error) {
	query, args, err := psql.
		Select("status", "COUNT(*)").
		From("tasks").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CountByStatus query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan task count: %w", err)
		}
		counts[domain.TaskStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return counts, nil
}
