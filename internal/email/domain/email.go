package domain

import (
	"strings"
	"time"
)

// Email is a locally-owned mail record. RemoteID is null until the record has
// been pushed; NeedsRemoteSync gates the outbound pass; IsDeleted marks a
// pending remote trash. SyncedLabels holds the label set as of the last
// successful sync so the outbound pass can emit a minimal delta.
type Email struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	UserID   string  `gorm:"index:idx_emails_user;not null" json:"userId"`
	RemoteID *string `gorm:"index:idx_emails_remote" json:"remoteId"`
	ThreadID string  `json:"threadId"`

	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	Recipients string `json:"recipients"`
	Cc         string `json:"cc"`
	Snippet    string `json:"snippet"`

	// Body is fetched on demand, never during bulk sync, and cached forever
	// once retrieved.
	Body       string `gorm:"type:text" json:"body,omitempty"`
	BodyCached bool   `json:"bodyCached"`

	Labels       LabelSet `gorm:"type:text" json:"labels"`
	SyncedLabels LabelSet `gorm:"type:text" json:"-"`

	InternalDate time.Time `gorm:"index" json:"internalDate"`

	NeedsRemoteSync bool       `gorm:"index" json:"-"`
	IsDeleted       bool       `gorm:"index" json:"-"`
	DeletedAt       *time.Time `json:"-"`
	LastRemoteSync  *time.Time `json:"lastRemoteSync"`

	Attachments []Attachment `gorm:"foreignKey:EmailID" json:"attachments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Email) TableName() string {
	return "emails"
}

// Attachment belongs to exactly one email. Data is base64 payload,
// back-filled lazily when the body is first fetched in full.
type Attachment struct {
	ID       string `gorm:"primaryKey" json:"id"`
	EmailID  string `gorm:"index;not null" json:"emailId"`
	RemoteID string `json:"-"`

	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	ContentID string `json:"-"`
	Data      string `gorm:"type:text" json:"-"`
}

func (Attachment) TableName() string {
	return "email_attachments"
}

// IsInline reports whether the attachment is referenced from inside the HTML
// body. Inline attachments never appear in the downloadable list.
func (a *Attachment) IsInline() bool {
	return a.ContentID != "" && strings.HasPrefix(a.MimeType, "image/")
}
