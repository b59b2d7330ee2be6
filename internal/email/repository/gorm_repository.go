package repository

import (
	"errors"
	"time"

	emaildomain "lifehub-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailRepository implements EmailRepository interface
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

func (r *emailRepository) List(userID, label string, limit, offset int) ([]*emaildomain.Email, int64, error) {
	query := r.db.Model(&emaildomain.Email{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	// Labels live in a JSON text column; membership check by quoted value.
	if label != "" {
		query = query.Where("labels LIKE ?", `%"`+label+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emails []*emaildomain.Email
	err := query.
		Order("internal_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&emails).Error
	if err != nil {
		return nil, 0, err
	}

	return emails, total, nil
}

func (r *emailRepository) FindByID(userID, id string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, false).First(&email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) Create(email *emaildomain.Email) error {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	email.CreatedAt = time.Now()
	email.UpdatedAt = time.Now()
	return r.db.Create(email).Error
}

func (r *emailRepository) Update(email *emaildomain.Email) error {
	email.UpdatedAt = time.Now()
	return r.db.Omit("Attachments").Save(email).Error
}

func (r *emailRepository) Delete(id string) error {
	if err := r.db.Where("email_id = ?", id).Delete(&emaildomain.Attachment{}).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", id).Delete(&emaildomain.Email{}).Error
}

func (r *emailRepository) Attachments(emailID string) ([]emaildomain.Attachment, error) {
	var attachments []emaildomain.Attachment
	err := r.db.Where("email_id = ?", emailID).Find(&attachments).Error
	return attachments, err
}

func (r *emailRepository) FindAttachment(emailID, attachmentID string) (*emaildomain.Attachment, error) {
	var att emaildomain.Attachment
	err := r.db.Where("email_id = ? AND id = ?", emailID, attachmentID).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &att, nil
}

func (r *emailRepository) SaveAttachment(att *emaildomain.Attachment) error {
	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	return r.db.Save(att).Error
}
