package usecase

import (
	"context"

	connectiondomain "lifehub-backend/internal/connection/domain"
	connectiondto "lifehub-backend/internal/connection/dto"
)

// ConnectionUsecase is the credential store for provider connections. Token
// validity is handled here; callers never refresh on their own.
type ConnectionUsecase interface {
	AuthURL(provider, state string) (string, error)
	ExchangeCode(ctx context.Context, userID, provider, code string) (*connectiondomain.Connection, error)
	Status(userID string) ([]*connectiondto.StatusResponse, error)
	Disconnect(userID, provider string) error

	Connection(userID, provider string) (*connectiondomain.Connection, error)
	ValidToken(ctx context.Context, conn *connectiondomain.Connection) (string, error)
	TokenUpdate(conn *connectiondomain.Connection) connectiondomain.TokenUpdateFunc
	SetCalendars(userID string, calendarIDs []string) (*connectiondomain.Connection, error)
}
