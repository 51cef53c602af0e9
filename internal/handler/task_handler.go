package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/SergeiKhy/todo-shorturl/internal/repository"
	"github.com/SergeiKhy/todo-shorturl/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type TaskHandler struct {
	service service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(service service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger,
	}
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTaskResponse(task models.Task, _ int) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
	}
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body models.CreateTaskInput true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Router /items [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input models.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), &input)
	if err != nil {
		h.respondError(c, 0, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(*task, 0))
}

// ListTasks godoc
// @Summary List tasks, newest first
// @Tags tasks
// @Produce json
// @Success 200 {array} TaskResponse
// @Router /items [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context())
	if err != nil {
		h.respondError(c, 0, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(tasks, toTaskResponse))
}

// GetTask godoc
// @Summary Get a task by id
// @Tags tasks
// @Produce json
// @Param id path int true "Task id"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(*task, 0))
}

// UpdateTask godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task id"
// @Param request body models.UpdateTaskInput true "Fields to update"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var input models.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), id, &input)
	if err != nil {
		h.respondError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(*task, 0))
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path int true "Task id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /items/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), id); err != nil {
		h.respondError(c, id, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: service.ErrInvalidTaskID.Error(),
		})
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) respondError(c *gin.Context, id int64, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Task " + strconv.FormatInt(id, 10) + " not found",
		})
	case apperrors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: apperrors.GetValidationError(err).Message,
		})
	default:
		h.logger.Error("Task operation failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Database error",
		})
	}
}
