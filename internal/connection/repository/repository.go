package repository

import connectiondomain "lifehub-backend/internal/connection/domain"

// ConnectionRepository defines persistence operations for provider
// connections.
type ConnectionRepository interface {
	Create(conn *connectiondomain.Connection) error
	Update(conn *connectiondomain.Connection) error
	FindByUserAndProvider(userID, provider string) (*connectiondomain.Connection, error)
	FindByUser(userID string) ([]*connectiondomain.Connection, error)
	Delete(userID, provider string) error
}
