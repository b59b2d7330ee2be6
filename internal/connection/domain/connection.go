package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const (
	ProviderGmail    = "gmail"
	ProviderCalendar = "google_calendar"
)

// TokenUpdateFunc persists a token refreshed mid-operation so the next sync
// does not repeat the exchange.
type TokenUpdateFunc func(token *oauth2.Token) error

// Connection holds a user's OAuth credentials for one provider. At most one
// row exists per (user, provider), enforced by the unique index.
type Connection struct {
	ID       string `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"uniqueIndex:idx_connections_user_provider;not null" json:"userId"`
	Provider string `gorm:"uniqueIndex:idx_connections_user_provider;not null" json:"provider"`

	// Email is the remote account address, captured at connect time.
	Email string `json:"email"`

	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`

	// CalendarIDs selects which remote calendars to sync. Empty means just
	// the primary calendar. Unused for the mail provider.
	CalendarIDs StringList `gorm:"type:text" json:"calendarIds,omitempty"`

	LastSync *time.Time `json:"lastSync"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Connection) TableName() string {
	return "connections"
}

// StringList is a JSON-encoded list persisted in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}
