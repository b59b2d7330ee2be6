package gcal

import (
	"context"
	"fmt"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	eventdomain "lifehub-backend/internal/event/domain"
	"lifehub-backend/pkg/remote"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = connectiondomain.TokenUpdateFunc

// Credentials carries the tokens for one call plus the persistence callback
// fired when the underlying token source refreshes mid-operation.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	OnRefresh    TokenUpdateFunc
}

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (s *Service) client(ctx context.Context, creds Credentials) (*calendar.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: creds.OnRefresh,
	}

	httpClient := oauth2.NewClient(ctx, wrappedSource)

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}

	return srv, nil
}

// Window bounds a list call in time.
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow spans thirty days either side of now.
func DefaultWindow() Window {
	now := time.Now().UTC()
	return Window{
		Start: now.AddDate(0, 0, -30),
		End:   now.AddDate(0, 0, 30),
	}
}

// EventPage is one page of canonical records from a list call.
type EventPage struct {
	Events        []*eventdomain.Event
	NextPageToken string
}

// ListEvents fetches one page of events from a calendar within a window.
// Recurring events are expanded into single instances.
func (s *Service) ListEvents(ctx context.Context, creds Credentials, calendarID, pageToken string, window Window) (*EventPage, error) {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return nil, remote.Wrap("gcal.list", err)
	}

	call := srv.Events.List(calendarID).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, remote.Wrap("gcal.list", err)
	}

	page := &EventPage{
		Events:        make([]*eventdomain.Event, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		if item.Status == "cancelled" {
			continue
		}
		page.Events = append(page.Events, ToEvent(item, calendarID))
	}

	return page, nil
}

// Create inserts a local event remotely and returns its remote identifier.
func (s *Service) Create(ctx context.Context, creds Credentials, event *eventdomain.Event) (string, error) {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return "", remote.Wrap("gcal.create", err)
	}

	created, err := srv.Events.Insert(calendarOrPrimary(event.CalendarID), ToWire(event)).Context(ctx).Do()
	if err != nil {
		return "", remote.Wrap("gcal.create", err)
	}

	return created.Id, nil
}

// Update pushes the local content of a previously-synced event.
func (s *Service) Update(ctx context.Context, creds Credentials, event *eventdomain.Event) error {
	if event.RemoteID == nil {
		return remote.Wrap("gcal.update", fmt.Errorf("event %s has no remote id", event.ID))
	}

	srv, err := s.client(ctx, creds)
	if err != nil {
		return remote.Wrap("gcal.update", err)
	}

	_, err = srv.Events.Patch(calendarOrPrimary(event.CalendarID), *event.RemoteID, ToWire(event)).Context(ctx).Do()
	if err != nil {
		return remote.Wrap("gcal.update", err)
	}

	return nil
}

// Trash deletes an event remotely. The Calendar API has no trash bucket, so
// delete is the closest equivalent; a missing event maps to a NotFound.
func (s *Service) Trash(ctx context.Context, creds Credentials, calendarID, remoteID string) error {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return remote.Wrap("gcal.delete", err)
	}

	err = srv.Events.Delete(calendarOrPrimary(calendarID), remoteID).Context(ctx).Do()
	if err != nil {
		return remote.Wrap("gcal.delete", err)
	}

	return nil
}

func calendarOrPrimary(calendarID string) string {
	if calendarID == "" {
		return "primary"
	}
	return calendarID
}
