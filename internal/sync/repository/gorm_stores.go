// Package repository binds the sync engine's store ports to gorm, scoped to
// one transaction per sync pass.
package repository

import (
	"context"
	"errors"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	emaildomain "lifehub-backend/internal/email/domain"
	eventdomain "lifehub-backend/internal/event/domain"
	"lifehub-backend/internal/sync"

	"gorm.io/gorm"
)

// NewTxRunner wraps one sync pass in a database transaction. The stores
// handed to fn all share it, so the lastSync update commits with the data.
func NewTxRunner(db *gorm.DB) sync.TxFunc {
	return func(ctx context.Context, fn func(sync.Stores) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(sync.Stores{
				Mail:  &mailStore{db: tx},
				Event: &eventStore{db: tx},
				Conn:  &connStore{db: tx},
			})
		})
	}
}

type mailStore struct {
	db *gorm.DB
}

func (s *mailStore) PendingDeletes(userID string) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := s.db.
		Where("user_id = ? AND is_deleted = ? AND remote_id IS NOT NULL", userID, true).
		Find(&emails).Error
	return emails, err
}

func (s *mailStore) PendingUpdates(userID string) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := s.db.
		Where("user_id = ? AND needs_remote_sync = ? AND is_deleted = ? AND remote_id IS NOT NULL", userID, true, false).
		Find(&emails).Error
	return emails, err
}

func (s *mailStore) PendingCreates(userID string) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := s.db.
		Where("user_id = ? AND needs_remote_sync = ? AND is_deleted = ? AND remote_id IS NULL", userID, true, false).
		Find(&emails).Error
	return emails, err
}

func (s *mailStore) FindByRemoteID(userID, remoteID string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := s.db.Where("user_id = ? AND remote_id = ?", userID, remoteID).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (s *mailStore) FindBySubjectNear(userID, subject string, around time.Time, tolerance time.Duration) ([]*emaildomain.Email, error) {
	var emails []*emaildomain.Email
	err := s.db.
		Where("user_id = ? AND subject = ? AND is_deleted = ? AND internal_date BETWEEN ? AND ?",
			userID, subject, false, around.Add(-tolerance), around.Add(tolerance)).
		Find(&emails).Error
	return emails, err
}

func (s *mailStore) Insert(email *emaildomain.Email) error {
	now := time.Now()
	email.CreatedAt = now
	email.UpdatedAt = now
	return s.db.Create(email).Error
}

func (s *mailStore) Update(email *emaildomain.Email) error {
	email.UpdatedAt = time.Now()
	return s.db.Omit("Attachments").Save(email).Error
}

func (s *mailStore) Delete(id string) error {
	if err := s.db.Where("email_id = ?", id).Delete(&emaildomain.Attachment{}).Error; err != nil {
		return err
	}
	return s.db.Where("id = ?", id).Delete(&emaildomain.Email{}).Error
}

type eventStore struct {
	db *gorm.DB
}

func (s *eventStore) PendingDeletes(userID string) ([]*eventdomain.Event, error) {
	var events []*eventdomain.Event
	err := s.db.
		Where("user_id = ? AND is_deleted = ? AND remote_id IS NOT NULL", userID, true).
		Find(&events).Error
	return events, err
}

func (s *eventStore) PendingUpdates(userID string) ([]*eventdomain.Event, error) {
	var events []*eventdomain.Event
	err := s.db.
		Where("user_id = ? AND needs_remote_sync = ? AND is_deleted = ? AND remote_id IS NOT NULL", userID, true, false).
		Find(&events).Error
	return events, err
}

func (s *eventStore) PendingCreates(userID string) ([]*eventdomain.Event, error) {
	var events []*eventdomain.Event
	err := s.db.
		Where("user_id = ? AND needs_remote_sync = ? AND is_deleted = ? AND remote_id IS NULL", userID, true, false).
		Find(&events).Error
	return events, err
}

func (s *eventStore) FindByRemoteID(userID, remoteID string) (*eventdomain.Event, error) {
	var event eventdomain.Event
	err := s.db.Where("user_id = ? AND remote_id = ?", userID, remoteID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (s *eventStore) FindByTitleNear(userID, title, calendarID string, around time.Time, tolerance time.Duration) ([]*eventdomain.Event, error) {
	var events []*eventdomain.Event
	err := s.db.
		Where("user_id = ? AND title = ? AND calendar_id = ? AND is_deleted = ? AND start_time BETWEEN ? AND ?",
			userID, title, calendarID, false, around.Add(-tolerance), around.Add(tolerance)).
		Find(&events).Error
	return events, err
}

func (s *eventStore) Insert(event *eventdomain.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.db.Create(event).Error
}

func (s *eventStore) Update(event *eventdomain.Event) error {
	event.UpdatedAt = time.Now()
	return s.db.Save(event).Error
}

func (s *eventStore) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&eventdomain.Event{}).Error
}

type connStore struct {
	db *gorm.DB
}

func (s *connStore) UpdateLastSync(connID string, at time.Time) error {
	return s.db.Model(&connectiondomain.Connection{}).
		Where("id = ?", connID).
		Updates(map[string]interface{}{"last_sync": at, "updated_at": time.Now()}).Error
}
