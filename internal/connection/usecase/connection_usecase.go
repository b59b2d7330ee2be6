package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	connectiondto "lifehub-backend/internal/connection/dto"
	"lifehub-backend/internal/connection/repository"
	"lifehub-backend/pkg/config"
	"lifehub-backend/pkg/remote"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// expiryMargin is how close to expiry a token may get before we refresh it.
// Wide enough that a full sync pass never runs off the end of a token.
const expiryMargin = 2 * time.Minute

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var providerScopes = map[string][]string{
	connectiondomain.ProviderGmail: {
		"https://www.googleapis.com/auth/gmail.modify",
		"https://www.googleapis.com/auth/gmail.send",
	},
	connectiondomain.ProviderCalendar: {
		"https://www.googleapis.com/auth/calendar",
	},
}

// connectionUsecase implements ConnectionUsecase interface
type connectionUsecase struct {
	repo   repository.ConnectionRepository
	config *config.Config

	// endpoint is google.Endpoint in production; tests point it at a local
	// token server.
	endpoint oauth2.Endpoint
}

// NewConnectionUsecase creates a new instance of connectionUsecase
func NewConnectionUsecase(repo repository.ConnectionRepository, cfg *config.Config) ConnectionUsecase {
	return &connectionUsecase{
		repo:     repo,
		config:   cfg,
		endpoint: google.Endpoint,
	}
}

func (u *connectionUsecase) oauthConfig(provider string) (*oauth2.Config, error) {
	scopes, ok := providerScopes[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	redirect := u.config.GmailRedirectURI
	if provider == connectiondomain.ProviderCalendar {
		redirect = u.config.CalendarRedirectURI
	}

	return &oauth2.Config{
		ClientID:     u.config.GoogleClientID,
		ClientSecret: u.config.GoogleClientSecret,
		RedirectURL:  redirect,
		Scopes:       scopes,
		Endpoint:     u.endpoint,
	}, nil
}

func (u *connectionUsecase) AuthURL(provider, state string) (string, error) {
	cfg, err := u.oauthConfig(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// ExchangeCode trades an authorization code for tokens, verifies the granted
// scopes actually cover what the sync engine needs, and upserts the
// connection. An under-scoped grant fails here rather than on a later call.
func (u *connectionUsecase) ExchangeCode(ctx context.Context, userID, provider, code string) (*connectiondomain.Connection, error) {
	cfg, err := u.oauthConfig(provider)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, remote.AuthError("code exchange failed: %v", err)
	}

	if err := verifyScopes(token, providerScopes[provider]); err != nil {
		return nil, err
	}

	email := u.fetchAccountEmail(ctx, cfg, token)

	conn, err := u.repo.FindByUserAndProvider(userID, provider)
	if err != nil {
		return nil, err
	}

	if conn == nil {
		conn = &connectiondomain.Connection{
			UserID:   userID,
			Provider: provider,
		}
		applyToken(conn, token)
		conn.Email = email
		if err := u.repo.Create(conn); err != nil {
			return nil, err
		}
		return conn, nil
	}

	applyToken(conn, token)
	if email != "" {
		conn.Email = email
	}
	if err := u.repo.Update(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// ValidToken returns a usable access token, refreshing first when the stored
// one is inside the expiry margin. Refresh failures are terminal: the caller
// surfaces a reconnect-required state instead of retrying.
func (u *connectionUsecase) ValidToken(ctx context.Context, conn *connectiondomain.Connection) (string, error) {
	if conn.AccessToken != "" && conn.TokenExpiry.After(time.Now().Add(expiryMargin)) {
		return conn.AccessToken, nil
	}

	if conn.RefreshToken == "" {
		return "", remote.AuthError("connection %s has no refresh token, reconnect required", conn.ID)
	}

	cfg, err := u.oauthConfig(conn.Provider)
	if err != nil {
		return "", err
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: conn.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return "", remote.AuthError("token refresh rejected: %v", err)
	}

	applyToken(conn, token)
	if err := u.repo.Update(conn); err != nil {
		return "", err
	}

	return conn.AccessToken, nil
}

// TokenUpdate builds the persistence callback fired when a provider client
// refreshes mid-operation.
func (u *connectionUsecase) TokenUpdate(conn *connectiondomain.Connection) connectiondomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		applyToken(conn, token)
		return u.repo.Update(conn)
	}
}

func (u *connectionUsecase) Connection(userID, provider string) (*connectiondomain.Connection, error) {
	return u.repo.FindByUserAndProvider(userID, provider)
}

func (u *connectionUsecase) Status(userID string) ([]*connectiondto.StatusResponse, error) {
	conns, err := u.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	byProvider := make(map[string]*connectiondomain.Connection, len(conns))
	for _, c := range conns {
		byProvider[c.Provider] = c
	}

	out := make([]*connectiondto.StatusResponse, 0, 2)
	for _, provider := range []string{connectiondomain.ProviderGmail, connectiondomain.ProviderCalendar} {
		status := &connectiondto.StatusResponse{Provider: provider}
		if c, ok := byProvider[provider]; ok {
			status.Connected = true
			status.Email = c.Email
			status.LastSync = c.LastSync
		}
		out = append(out, status)
	}
	return out, nil
}

func (u *connectionUsecase) Disconnect(userID, provider string) error {
	return u.repo.Delete(userID, provider)
}

func (u *connectionUsecase) SetCalendars(userID string, calendarIDs []string) (*connectiondomain.Connection, error) {
	conn, err := u.repo.FindByUserAndProvider(userID, connectiondomain.ProviderCalendar)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, errors.New("calendar is not connected")
	}

	conn.CalendarIDs = connectiondomain.StringList(calendarIDs)
	if err := u.repo.Update(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func (u *connectionUsecase) fetchAccountEmail(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) string {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		log.Printf("[Connection] userinfo fetch failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Connection] userinfo fetch returned %d", resp.StatusCode)
		return ""
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Printf("[Connection] userinfo decode failed: %v", err)
		return ""
	}
	return info.Email
}

func applyToken(conn *connectiondomain.Connection, token *oauth2.Token) {
	conn.AccessToken = token.AccessToken
	conn.TokenExpiry = token.Expiry
	// Providers reissue refresh tokens only sometimes; keep the old one
	// unless a new one arrived.
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}
}

func verifyScopes(token *oauth2.Token, required []string) error {
	granted, _ := token.Extra("scope").(string)
	for _, scope := range required {
		if !hasScope(granted, scope) {
			return remote.AuthError("granted scopes %q missing %q", granted, scope)
		}
	}
	return nil
}

func hasScope(granted, scope string) bool {
	for _, s := range strings.Fields(granted) {
		if s == scope {
			return true
		}
	}
	return false
}
