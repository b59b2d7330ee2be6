package domain

import "time"

// Event categories, mirrored to a single remote color/label on push.
const (
	CategoryDefault  = "default"
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryMeeting  = "meeting"
)

// Event is a locally-owned calendar record. The sync flags follow the same
// lifecycle as Email: RemoteID null until pushed, NeedsRemoteSync gating the
// outbound pass, IsDeleted marking a pending remote trash.
type Event struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	UserID   string  `gorm:"index:idx_events_user;not null" json:"userId"`
	RemoteID *string `gorm:"index:idx_events_remote" json:"remoteId"`

	// CalendarID is the remote bucket the event belongs to.
	CalendarID string `gorm:"default:primary" json:"calendarId"`

	Title       string `json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `json:"location"`
	Category    string `gorm:"default:default" json:"category"`

	StartTime time.Time `gorm:"index" json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	AllDay    bool      `json:"allDay"`

	NeedsRemoteSync bool       `gorm:"index" json:"-"`
	IsDeleted       bool       `gorm:"index" json:"-"`
	DeletedAt       *time.Time `json:"-"`
	LastRemoteSync  *time.Time `json:"lastRemoteSync"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Event) TableName() string {
	return "events"
}
