package service

import (
	"context"
	"strings"
	"time"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/SergeiKhy/todo-shorturl/internal/repository"
	"go.uber.org/zap"
)

// TaskService интерфейс сервиса задач
type TaskService interface {
	CreateTask(ctx context.Context, input *models.CreateTaskInput) (*models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, input *models.UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type taskService struct {
	taskRepo repository.TaskRepository
	logger   *zap.Logger
}

// NewTaskService создаёт новый экземпляр сервиса задач
func NewTaskService(taskRepo repository.TaskRepository, logger *zap.Logger) TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

func (s *taskService) CreateTask(ctx context.Context, input *models.CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title", "title cannot be empty", ErrEmptyTitle)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task created", zap.Int64("id", task.ID))
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.taskRepo.List(ctx)
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// UpdateTask применяет частичное обновление. Без единого поля - ErrNoUpdateFields,
// но только после проверки существования задачи.
func (s *taskService) UpdateTask(ctx context.Context, id int64, input *models.UpdateTaskInput) (*models.Task, error) {
	if input.IsEmpty() {
		if _, err := s.taskRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperrors.NewValidationError("", "no fields to update", ErrNoUpdateFields)
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.NewValidationError("title", "title cannot be empty", ErrEmptyTitle)
	}

	task, err := s.taskRepo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task updated", zap.Int64("id", id))
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Task deleted", zap.Int64("id", id))
	return nil
}
