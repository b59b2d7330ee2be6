package sync

import (
	"context"
	"time"

	emaildomain "lifehub-backend/internal/email/domain"
	eventdomain "lifehub-backend/internal/event/domain"
	gcalclient "lifehub-backend/pkg/gcal"
	gmailclient "lifehub-backend/pkg/gmail"
)

const defaultCallTimeout = 40 * time.Second

// gmailRemote adapts the Gmail client to the MailRemote port and applies the
// per-call timeout; a call that runs past it is a server error, retried only
// by the next scheduled sync.
type gmailRemote struct {
	svc     *gmailclient.Service
	timeout time.Duration
}

func NewGmailRemote(svc *gmailclient.Service, timeout time.Duration) MailRemote {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return gmailRemote{svc: svc, timeout: timeout}
}

func (g gmailRemote) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

func (g gmailRemote) List(ctx context.Context, token, bucket, pageToken string) ([]*emaildomain.Email, string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	page, err := g.svc.ListMessages(ctx, gmailclient.Credentials{AccessToken: token}, bucket, pageToken, 100)
	if err != nil {
		return nil, "", err
	}
	return page.Emails, page.NextPageToken, nil
}

func (g gmailRemote) ModifyLabels(ctx context.Context, token, remoteID string, add, remove []string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	return g.svc.ModifyLabels(ctx, gmailclient.Credentials{AccessToken: token}, remoteID, add, remove)
}

func (g gmailRemote) Trash(ctx context.Context, token, remoteID string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	return g.svc.Trash(ctx, gmailclient.Credentials{AccessToken: token}, remoteID)
}

func (g gmailRemote) Create(ctx context.Context, token string, email *emaildomain.Email) (string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	return g.svc.Create(ctx, gmailclient.Credentials{AccessToken: token}, email)
}

// gcalRemote adapts the Calendar client to the CalendarRemote port.
type gcalRemote struct {
	svc     *gcalclient.Service
	timeout time.Duration
}

func NewCalendarRemote(svc *gcalclient.Service, timeout time.Duration) CalendarRemote {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return gcalRemote{svc: svc, timeout: timeout}
}

func (g gcalRemote) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

func (g gcalRemote) List(ctx context.Context, token, calendarID, pageToken string) ([]*eventdomain.Event, string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	page, err := g.svc.ListEvents(ctx, gcalclient.Credentials{AccessToken: token}, calendarID, pageToken, gcalclient.DefaultWindow())
	if err != nil {
		return nil, "", err
	}
	return page.Events, page.NextPageToken, nil
}

func (g gcalRemote) Update(ctx context.Context, token string, event *eventdomain.Event) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	return g.svc.Update(ctx, gcalclient.Credentials{AccessToken: token}, event)
}

func (g gcalRemote) Trash(ctx context.Context, token, calendarID, remoteID string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	return g.svc.Trash(ctx, gcalclient.Credentials{AccessToken: token}, calendarID, remoteID)
}

func (g gcalRemote) Create(ctx context.Context, token string, event *eventdomain.Event) (string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	return g.svc.Create(ctx, gcalclient.Credentials{AccessToken: token}, event)
}
