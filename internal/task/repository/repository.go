package repository

import "lifehub-backend/internal/task/domain"

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *domain.Task) error
	FindByID(id string) (*domain.Task, error)
	FindByUserID(userID string, status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error)
	Update(task *domain.Task) error
	Delete(id string) error
}
