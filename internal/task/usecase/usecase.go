package usecase

import "lifehub-backend/internal/task/domain"

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	CreateTask(userID, title, description, emailID string, dueDate *string, priority string) (*domain.Task, error)
	GetTaskByID(userID, taskID string) (*domain.Task, error)
	GetUserTasks(userID string, status *string, limit, offset int) ([]*domain.Task, int64, error)
	UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error)
	DeleteTask(userID, taskID string) error
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}
