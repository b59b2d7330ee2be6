package repository

import emaildomain "lifehub-backend/internal/email/domain"

// EmailRepository defines persistence operations the email endpoints need.
// Soft-deleted records are never returned from listings.
type EmailRepository interface {
	List(userID, label string, limit, offset int) ([]*emaildomain.Email, int64, error)
	FindByID(userID, id string) (*emaildomain.Email, error)
	Create(email *emaildomain.Email) error
	Update(email *emaildomain.Email) error
	Delete(id string) error

	Attachments(emailID string) ([]emaildomain.Attachment, error)
	FindAttachment(emailID, attachmentID string) (*emaildomain.Attachment, error)
	SaveAttachment(att *emaildomain.Attachment) error
}
