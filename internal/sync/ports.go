// Package sync reconciles locally-owned emails and calendar events with the
// remote provider state, in both directions, without a shared transaction
// boundary. Outbound always runs before inbound so deletions propagate before
// a pull could resurrect them.
package sync

import (
	"context"
	"errors"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	emaildomain "lifehub-backend/internal/email/domain"
	eventdomain "lifehub-backend/internal/event/domain"
)

// ErrNotConnected means the user has no connection for the provider.
var ErrNotConnected = errors.New("provider is not connected")

// MailStore is the transactional mail access the engine needs: the three
// outbound flag-combination queries, dedup lookups, and plain writes.
type MailStore interface {
	PendingDeletes(userID string) ([]*emaildomain.Email, error)
	PendingUpdates(userID string) ([]*emaildomain.Email, error)
	PendingCreates(userID string) ([]*emaildomain.Email, error)

	FindByRemoteID(userID, remoteID string) (*emaildomain.Email, error)
	FindBySubjectNear(userID, subject string, around time.Time, tolerance time.Duration) ([]*emaildomain.Email, error)

	Insert(email *emaildomain.Email) error
	Update(email *emaildomain.Email) error
	Delete(id string) error
}

// EventStore is the calendar counterpart of MailStore.
type EventStore interface {
	PendingDeletes(userID string) ([]*eventdomain.Event, error)
	PendingUpdates(userID string) ([]*eventdomain.Event, error)
	PendingCreates(userID string) ([]*eventdomain.Event, error)

	FindByRemoteID(userID, remoteID string) (*eventdomain.Event, error)
	FindByTitleNear(userID, title, calendarID string, around time.Time, tolerance time.Duration) ([]*eventdomain.Event, error)

	Insert(event *eventdomain.Event) error
	Update(event *eventdomain.Event) error
	Delete(id string) error
}

// ConnStore updates connection metadata inside the sync transaction so the
// lastSync stamp commits atomically with the data it summarizes.
type ConnStore interface {
	UpdateLastSync(connID string, at time.Time) error
}

// Stores groups the transaction-scoped stores handed to one sync pass.
type Stores struct {
	Mail  MailStore
	Event EventStore
	Conn  ConnStore
}

// TxFunc runs fn with stores bound to a single transaction, committing only
// if fn returns nil.
type TxFunc func(ctx context.Context, fn func(Stores) error) error

// MailRemote is the provider surface the mail reconcilers drive. Every call
// is a single attempt; the engine decides what is retried and when.
type MailRemote interface {
	List(ctx context.Context, token, bucket, pageToken string) ([]*emaildomain.Email, string, error)
	ModifyLabels(ctx context.Context, token, remoteID string, add, remove []string) error
	Trash(ctx context.Context, token, remoteID string) error
	Create(ctx context.Context, token string, email *emaildomain.Email) (string, error)
}

// CalendarRemote is the provider surface the event reconcilers drive.
type CalendarRemote interface {
	List(ctx context.Context, token, calendarID, pageToken string) ([]*eventdomain.Event, string, error)
	Update(ctx context.Context, token string, event *eventdomain.Event) error
	Trash(ctx context.Context, token, calendarID, remoteID string) error
	Create(ctx context.Context, token string, event *eventdomain.Event) (string, error)
}

// Credentials is the slice of the connection usecase the orchestrator needs.
type Credentials interface {
	Connection(userID, provider string) (*connectiondomain.Connection, error)
	ValidToken(ctx context.Context, conn *connectiondomain.Connection) (string, error)
}
