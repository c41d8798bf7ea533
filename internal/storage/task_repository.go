// Package storage provides task persistence over database/sql.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"tasktrack/internal/apperr"
	"tasktrack/internal/config"
	"tasktrack/internal/tasks"
	"tasktrack/pkg/types"
)

const taskColumns = "id, title, description, creation_date, due_date, status, completed_ts"

// Open opens a database connection for the configured provider.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	driver, err := driverName(cfg.Provider)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Provider, err)
	}
	if cfg.Provider == config.ProviderSQLite && strings.Contains(cfg.DSN, "mode=memory") {
		// A pooled second connection would see a different in-memory database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func driverName(provider string) (string, error) {
	switch provider {
	case config.ProviderSQLite:
		return "sqlite3", nil
	case config.ProviderPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unknown database provider %q", provider)
	}
}

// TaskRepository implements tasks.Store using a SQL database
type TaskRepository struct {
	db       *sql.DB
	provider string
	filter   *tasks.FilterManager
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, provider string) *TaskRepository {
	return &TaskRepository{
		db:       db,
		provider: provider,
		filter:   tasks.NewFilterManager(),
	}
}

// Migrate creates the tasks relation if it does not exist.
func (tr *TaskRepository) Migrate(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if tr.provider == config.ProviderPostgres {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS tasks (
			%s,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			creation_date DATE NOT NULL,
			due_date DATE,
			status TEXT NOT NULL,
			completed_ts TIMESTAMP
		)`, idColumn)

	if _, err := tr.db.ExecContext(ctx, schema); err != nil {
		return apperr.NewStorage("failed to create tasks table", err)
	}
	return nil
}

// rebind rewrites ? placeholders into the $N dialect for postgres.
func (tr *TaskRepository) rebind(query string) string {
	if tr.provider != config.ProviderPostgres {
		return query
	}
	var b strings.Builder
	argIndex := 1
	for _, r := range query {
		if r == '?' {
			fmt.Fprintf(&b, "$%d", argIndex)
			argIndex++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Insert stores a new task and assigns its id.
func (tr *TaskRepository) Insert(ctx context.Context, task *types.Task) error {
	query := `
		INSERT INTO tasks (title, description, creation_date, due_date, status, completed_ts)
		VALUES (?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		task.Title, task.Description, task.CreationDate,
		nullableDate(task.DueDate), string(task.Status), task.CompletedTS,
	}

	if tr.provider == config.ProviderPostgres {
		row := tr.db.QueryRowContext(ctx, tr.rebind(query+" RETURNING id"), args...)
		if err := row.Scan(&task.ID); err != nil {
			return apperr.NewStorage("failed to insert task", err)
		}
		return nil
	}

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.NewStorage("failed to insert task", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return apperr.NewStorage("failed to read inserted task id", err)
	}
	task.ID = id
	return nil
}

// List retrieves tasks matching the filters in the requested order.
func (tr *TaskRepository) List(ctx context.Context, filters tasks.Filters, sort *tasks.Sort) ([]types.Task, error) {
	whereClause, args := tr.filter.BuildWhereClause(filters)
	orderClause := tr.filter.BuildOrderClause(sort)

	query := strings.TrimSpace(fmt.Sprintf(
		"SELECT %s FROM tasks %s %s", taskColumns, whereClause, orderClause))

	rows, err := tr.db.QueryContext(ctx, tr.rebind(query), args...)
	if err != nil {
		return nil, apperr.NewStorage("failed to list tasks", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var taskList []types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperr.NewStorage("failed to scan task", err)
		}
		taskList = append(taskList, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewStorage("failed to iterate tasks", err)
	}
	return taskList, nil
}

// GetByID retrieves a task by id.
func (tr *TaskRepository) GetByID(ctx context.Context, id int64) (*types.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = ?", taskColumns)

	row := tr.db.QueryRowContext(ctx, tr.rebind(query), id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NewNotFound("task not found")
		}
		return nil, apperr.NewStorage("failed to get task", err)
	}
	return task, nil
}

// Update applies a full-record update to an existing task.
func (tr *TaskRepository) Update(ctx context.Context, task *types.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, creation_date = ?, due_date = ?, status = ?, completed_ts = ?
		WHERE id = ?`

	result, err := tr.db.ExecContext(ctx, tr.rebind(query),
		task.Title, task.Description, task.CreationDate,
		nullableDate(task.DueDate), string(task.Status), task.CompletedTS, task.ID,
	)
	if err != nil {
		return apperr.NewStorage("failed to update task", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.NewStorage("failed to read update result", err)
	}
	if rowsAffected == 0 {
		return apperr.NewNotFound("task not found")
	}
	return nil
}

// Delete removes a task by id.
func (tr *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := tr.db.ExecContext(ctx, tr.rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return apperr.NewStorage("failed to delete task", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.NewStorage("failed to read delete result", err)
	}
	if rowsAffected == 0 {
		return apperr.NewNotFound("task not found")
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*types.Task, error) {
	var task types.Task
	var due types.Date
	var completed sql.NullTime
	var status string

	err := s.Scan(
		&task.ID, &task.Title, &task.Description,
		&task.CreationDate, &due, &status, &completed,
	)
	if err != nil {
		return nil, err
	}

	task.Status = types.Status(status)
	if !due.IsZero() {
		task.DueDate = &due
	}
	if completed.Valid {
		ts := completed.Time.UTC()
		task.CompletedTS = &ts
	}
	return &task, nil
}

func nullableDate(d *types.Date) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
