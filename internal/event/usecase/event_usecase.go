package usecase

import (
	"errors"
	"log"
	"time"

	eventdomain "lifehub-backend/internal/event/domain"
	eventdto "lifehub-backend/internal/event/dto"
	"lifehub-backend/internal/event/repository"
	"lifehub-backend/internal/sync"

	"github.com/google/uuid"
)

var ErrEventNotFound = errors.New("event not found")

// duplicateTolerance matches the fallback window the sync engine uses, so
// cleanup and sync agree on what counts as the same event.
const duplicateTolerance = 5 * time.Minute

// eventUsecase implements EventUsecase interface
type eventUsecase struct {
	repo repository.EventRepository
}

// NewEventUsecase creates a new instance of eventUsecase
func NewEventUsecase(repo repository.EventRepository) EventUsecase {
	return &eventUsecase{
		repo: repo,
	}
}

func (u *eventUsecase) Create(userID string, req *eventdto.CreateEventRequest) (*eventdomain.Event, error) {
	category := req.Category
	if category == "" {
		category = eventdomain.CategoryDefault
	}
	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	event := &eventdomain.Event{
		ID:              uuid.New().String(),
		UserID:          userID,
		CalendarID:      calendarID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Category:        category,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		AllDay:          req.AllDay,
		NeedsRemoteSync: true,
	}

	if err := u.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (u *eventUsecase) List(userID string, from, to *time.Time) ([]*eventdomain.Event, error) {
	return u.repo.List(userID, from, to)
}

func (u *eventUsecase) Get(userID, id string) (*eventdomain.Event, error) {
	event, err := u.repo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// Update applies local edits and re-flags the event so the next outbound
// pass pushes the new content.
func (u *eventUsecase) Update(userID, id string, req *eventdto.UpdateEventRequest) (*eventdomain.Event, error) {
	event, err := u.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime.UTC()
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}

	event.NeedsRemoteSync = true
	if err := u.repo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete soft-deletes a synced event so the outbound pass can propagate the
// deletion; a never-pushed event is removed outright.
func (u *eventUsecase) Delete(userID, id string) error {
	event, err := u.Get(userID, id)
	if err != nil {
		return err
	}

	if event.RemoteID == nil {
		return u.repo.Delete(event.ID)
	}

	now := time.Now().UTC()
	event.IsDeleted = true
	event.DeletedAt = &now
	event.NeedsRemoteSync = true
	return u.repo.Update(event)
}

// CleanupDuplicates collapses clusters of events with the same title and
// calendar whose starts fall within the dedup tolerance. The most complete
// record survives; synced losers are soft-deleted so the remote copy goes
// too, never-pushed losers are removed outright.
func (u *eventUsecase) CleanupDuplicates(userID string) (int, error) {
	events, err := u.repo.ListAll(userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	i := 0
	for i < len(events) {
		cluster := []*eventdomain.Event{events[i]}
		j := i + 1
		for j < len(events) &&
			events[j].Title == events[i].Title &&
			events[j].CalendarID == events[i].CalendarID &&
			events[j].StartTime.Sub(cluster[len(cluster)-1].StartTime) <= duplicateTolerance {
			cluster = append(cluster, events[j])
			j++
		}
		i = j

		if len(cluster) < 2 {
			continue
		}

		survivor := cluster[0]
		for _, e := range cluster[1:] {
			if sync.MoreCompleteEvent(e, survivor) {
				survivor = e
			}
		}

		log.Printf("[Event] cleanup found %d duplicates of %q for user %s", len(cluster)-1, survivor.Title, userID)

		for _, e := range cluster {
			if e.ID == survivor.ID {
				continue
			}
			if e.RemoteID == nil {
				if err := u.repo.Delete(e.ID); err != nil {
					return removed, err
				}
			} else {
				now := time.Now().UTC()
				e.IsDeleted = true
				e.DeletedAt = &now
				e.NeedsRemoteSync = true
				if err := u.repo.Update(e); err != nil {
					return removed, err
				}
			}
			removed++
		}
	}

	return removed, nil
}
