package repository

import (
	"time"

	eventdomain "lifehub-backend/internal/event/domain"
)

// EventRepository defines persistence operations the event endpoints need.
// Soft-deleted records are never returned from listings.
type EventRepository interface {
	List(userID string, from, to *time.Time) ([]*eventdomain.Event, error)
	ListAll(userID string) ([]*eventdomain.Event, error)
	FindByID(userID, id string) (*eventdomain.Event, error)
	Create(event *eventdomain.Event) error
	Update(event *eventdomain.Event) error
	Delete(id string) error
}
