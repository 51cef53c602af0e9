package models

import (
	"time"
)

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateTaskInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
}

// UpdateTaskInput частичное обновление: nil означает "не менять"
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (in *UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Completed == nil
}
