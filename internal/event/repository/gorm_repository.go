package repository

import (
	"errors"
	"time"

	eventdomain "lifehub-backend/internal/event/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new instance of eventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{
		db: db,
	}
}

func (r *eventRepository) List(userID string, from, to *time.Time) ([]*eventdomain.Event, error) {
	query := r.db.Where("user_id = ? AND is_deleted = ?", userID, false)
	if from != nil {
		query = query.Where("start_time >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_time <= ?", *to)
	}

	var events []*eventdomain.Event
	err := query.Order("start_time ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) ListAll(userID string) ([]*eventdomain.Event, error) {
	var events []*eventdomain.Event
	err := r.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("title ASC, start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) FindByID(userID, id string) (*eventdomain.Event, error) {
	var event eventdomain.Event
	err := r.db.Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(event *eventdomain.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return r.db.Create(event).Error
}

func (r *eventRepository) Update(event *eventdomain.Event) error {
	event.UpdatedAt = time.Now()
	return r.db.Save(event).Error
}

func (r *eventRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&eventdomain.Event{}).Error
}
