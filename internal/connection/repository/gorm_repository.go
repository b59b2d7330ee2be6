package repository

import (
	"errors"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// connectionRepository implements ConnectionRepository interface
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new instance of connectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{
		db: db,
	}
}

func (r *connectionRepository) Create(conn *connectiondomain.Connection) error {
	conn.ID = uuid.New().String()
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = time.Now()
	return r.db.Create(conn).Error
}

func (r *connectionRepository) Update(conn *connectiondomain.Connection) error {
	conn.UpdatedAt = time.Now()
	return r.db.Save(conn).Error
}

func (r *connectionRepository) FindByUserAndProvider(userID, provider string) (*connectiondomain.Connection, error) {
	var conn connectiondomain.Connection
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) FindByUser(userID string) ([]*connectiondomain.Connection, error) {
	var conns []*connectiondomain.Connection
	err := r.db.Where("user_id = ?", userID).Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *connectionRepository) Delete(userID, provider string) error {
	return r.db.Where("user_id = ? AND provider = ?", userID, provider).Delete(&connectiondomain.Connection{}).Error
}
