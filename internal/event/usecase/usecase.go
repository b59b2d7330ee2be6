package usecase

import (
	"time"

	eventdomain "lifehub-backend/internal/event/domain"
	eventdto "lifehub-backend/internal/event/dto"
)

type EventUsecase interface {
	Create(userID string, req *eventdto.CreateEventRequest) (*eventdomain.Event, error)
	List(userID string, from, to *time.Time) ([]*eventdomain.Event, error)
	Get(userID, id string) (*eventdomain.Event, error)
	Update(userID, id string, req *eventdto.UpdateEventRequest) (*eventdomain.Event, error)
	Delete(userID, id string) error
	CleanupDuplicates(userID string) (int, error)
}
