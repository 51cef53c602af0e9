package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	List(ctx context.Context) ([]models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, id int64, input *models.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *SQLiteDB
}

func NewTaskRepository(db *SQLiteDB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, completed, created_at`

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (title, description, completed, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at
	`

	err := r.db.DB.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		formatSQLiteTime(task.CreatedAt),
	).Scan(&task.ID, sqliteTime{&task.CreatedAt})

	if err != nil {
		return apperrors.NewStorageError("create task", err)
	}

	return nil
}

func (r *taskRepository) List(ctx context.Context) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("scan task", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate tasks", err)
	}

	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, apperrors.NewStorageError("get task", err)
	}

	return task, nil
}

// Update меняет только переданные поля. Пустой input обрабатывает сервис.
func (r *taskRepository) Update(ctx context.Context, id int64, input *models.UpdateTaskInput) (*models.Task, error) {
	var (
		sets []string
		args []any
	)
	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *input.Description)
	}
	if input.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *input.Completed)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + taskColumns
	args = append(args, id)

	task, err := scanTask(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, apperrors.NewStorageError("update task", err)
	}

	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStorageError("delete task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStorageError("delete task", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var description sql.NullString
	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Completed,
		sqliteTime{&task.CreatedAt},
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	return task, nil
}
