package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	emaildomain "lifehub-backend/internal/email/domain"
	eventdomain "lifehub-backend/internal/event/domain"
	"lifehub-backend/pkg/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeMailStore struct {
	order  []string
	emails map[string]*emaildomain.Email
}

func newFakeMailStore(emails ...*emaildomain.Email) *fakeMailStore {
	s := &fakeMailStore{emails: map[string]*emaildomain.Email{}}
	for _, e := range emails {
		s.order = append(s.order, e.ID)
		s.emails[e.ID] = e
	}
	return s
}

func (s *fakeMailStore) all() []*emaildomain.Email {
	out := make([]*emaildomain.Email, 0, len(s.emails))
	for _, id := range s.order {
		if e, ok := s.emails[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeMailStore) PendingDeletes(userID string) ([]*emaildomain.Email, error) {
	var out []*emaildomain.Email
	for _, e := range s.all() {
		if e.UserID == userID && e.IsDeleted && e.RemoteID != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeMailStore) PendingUpdates(userID string) ([]*emaildomain.Email, error) {
	var out []*emaildomain.Email
	for _, e := range s.all() {
		if e.UserID == userID && e.NeedsRemoteSync && !e.IsDeleted && e.RemoteID != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeMailStore) PendingCreates(userID string) ([]*emaildomain.Email, error) {
	var out []*emaildomain.Email
	for _, e := range s.all() {
		if e.UserID == userID && e.NeedsRemoteSync && !e.IsDeleted && e.RemoteID == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeMailStore) FindByRemoteID(userID, remoteID string) (*emaildomain.Email, error) {
	for _, e := range s.all() {
		if e.UserID == userID && e.RemoteID != nil && *e.RemoteID == remoteID {
			return e, nil
		}
	}
	return nil, nil
}

func (s *fakeMailStore) FindBySubjectNear(userID, subject string, around time.Time, tolerance time.Duration) ([]*emaildomain.Email, error) {
	var out []*emaildomain.Email
	for _, e := range s.all() {
		if e.UserID != userID || e.IsDeleted || e.Subject != subject {
			continue
		}
		diff := e.InternalDate.Sub(around)
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeMailStore) Insert(email *emaildomain.Email) error {
	s.order = append(s.order, email.ID)
	s.emails[email.ID] = email
	return nil
}

func (s *fakeMailStore) Update(email *emaildomain.Email) error {
	s.emails[email.ID] = email
	return nil
}

func (s *fakeMailStore) Delete(id string) error {
	delete(s.emails, id)
	return nil
}

type fakeEventStore struct {
	order  []string
	events map[string]*eventdomain.Event
}

func newFakeEventStore(events ...*eventdomain.Event) *fakeEventStore {
	s := &fakeEventStore{events: map[string]*eventdomain.Event{}}
	for _, ev := range events {
		s.order = append(s.order, ev.ID)
		s.events[ev.ID] = ev
	}
	return s
}

func (s *fakeEventStore) all() []*eventdomain.Event {
	out := make([]*eventdomain.Event, 0, len(s.events))
	for _, id := range s.order {
		if ev, ok := s.events[id]; ok {
			out = append(out, ev)
		}
	}
	return out
}

func (s *fakeEventStore) PendingDeletes(userID string) ([]*eventdomain.Event, error) {
	var out []*eventdomain.Event
	for _, ev := range s.all() {
		if ev.UserID == userID && ev.IsDeleted && ev.RemoteID != nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *fakeEventStore) PendingUpdates(userID string) ([]*eventdomain.Event, error) {
	var out []*eventdomain.Event
	for _, ev := range s.all() {
		if ev.UserID == userID && ev.NeedsRemoteSync && !ev.IsDeleted && ev.RemoteID != nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *fakeEventStore) PendingCreates(userID string) ([]*eventdomain.Event, error) {
	var out []*eventdomain.Event
	for _, ev := range s.all() {
		if ev.UserID == userID && ev.NeedsRemoteSync && !ev.IsDeleted && ev.RemoteID == nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *fakeEventStore) FindByRemoteID(userID, remoteID string) (*eventdomain.Event, error) {
	for _, ev := range s.all() {
		if ev.UserID == userID && ev.RemoteID != nil && *ev.RemoteID == remoteID {
			return ev, nil
		}
	}
	return nil, nil
}

func (s *fakeEventStore) FindByTitleNear(userID, title, calendarID string, around time.Time, tolerance time.Duration) ([]*eventdomain.Event, error) {
	var out []*eventdomain.Event
	for _, ev := range s.all() {
		if ev.UserID != userID || ev.IsDeleted || ev.Title != title || ev.CalendarID != calendarID {
			continue
		}
		diff := ev.StartTime.Sub(around)
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *fakeEventStore) Insert(event *eventdomain.Event) error {
	s.order = append(s.order, event.ID)
	s.events[event.ID] = event
	return nil
}

func (s *fakeEventStore) Update(event *eventdomain.Event) error {
	s.events[event.ID] = event
	return nil
}

func (s *fakeEventStore) Delete(id string) error {
	delete(s.events, id)
	return nil
}

type fakeConnStore struct {
	lastSyncCalls []string
}

func (s *fakeConnStore) UpdateLastSync(connID string, at time.Time) error {
	s.lastSyncCalls = append(s.lastSyncCalls, connID)
	return nil
}

// fakeMailRemote records every call in order so tests can assert the outbound
// phase sequence and the outbound-before-inbound invariant.
type fakeMailRemote struct {
	calls []string

	pages        map[string][]*emaildomain.Email
	trashErr     error
	modifyErr    error
	createErr    error
	listErr      map[string]error
	nextCreateID int
}

func (r *fakeMailRemote) List(ctx context.Context, token, bucket, pageToken string) ([]*emaildomain.Email, string, error) {
	r.calls = append(r.calls, "list:"+bucket)
	if err := r.listErr[bucket]; err != nil {
		return nil, "", err
	}
	return r.pages[bucket], "", nil
}

func (r *fakeMailRemote) ModifyLabels(ctx context.Context, token, remoteID string, add, remove []string) error {
	r.calls = append(r.calls, fmt.Sprintf("modify:%s:+%v:-%v", remoteID, add, remove))
	return r.modifyErr
}

func (r *fakeMailRemote) Trash(ctx context.Context, token, remoteID string) error {
	r.calls = append(r.calls, "trash:"+remoteID)
	return r.trashErr
}

func (r *fakeMailRemote) Create(ctx context.Context, token string, email *emaildomain.Email) (string, error) {
	r.calls = append(r.calls, "create:"+email.Subject)
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextCreateID++
	return fmt.Sprintf("abc%d", r.nextCreateID), nil
}

type fakeCalRemote struct {
	calls []string

	pages     map[string][]*eventdomain.Event
	trashErr  error
	updateErr error
	createErr error
}

func (r *fakeCalRemote) List(ctx context.Context, token, calendarID, pageToken string) ([]*eventdomain.Event, string, error) {
	r.calls = append(r.calls, "list:"+calendarID)
	return r.pages[calendarID], "", nil
}

func (r *fakeCalRemote) Update(ctx context.Context, token string, event *eventdomain.Event) error {
	r.calls = append(r.calls, "update:"+*event.RemoteID)
	return r.updateErr
}

func (r *fakeCalRemote) Trash(ctx context.Context, token, calendarID, remoteID string) error {
	r.calls = append(r.calls, "trash:"+remoteID)
	return r.trashErr
}

func (r *fakeCalRemote) Create(ctx context.Context, token string, event *eventdomain.Event) (string, error) {
	r.calls = append(r.calls, "create:"+event.Title)
	if r.createErr != nil {
		return "", r.createErr
	}
	return "evt-1", nil
}

type fakeCreds struct {
	conn     *connectiondomain.Connection
	tokenErr error
}

func (c *fakeCreds) Connection(userID, provider string) (*connectiondomain.Connection, error) {
	if c.conn == nil || c.conn.Provider != provider {
		return nil, nil
	}
	return c.conn, nil
}

func (c *fakeCreds) ValidToken(ctx context.Context, conn *connectiondomain.Connection) (string, error) {
	if c.tokenErr != nil {
		return "", c.tokenErr
	}
	return "tok", nil
}

func passthroughTx(stores Stores) TxFunc {
	return func(ctx context.Context, fn func(Stores) error) error {
		return fn(stores)
	}
}

func strPtr(s string) *string { return &s }

func serverErr() error {
	return &remote.Error{Kind: remote.KindServer, Op: "test", Err: errors.New("boom")}
}

func notFoundErr() error {
	return &remote.Error{Kind: remote.KindNotFound, Op: "test", Err: errors.New("gone")}
}

// ---- mail outbound ----

func TestMailOutboundPhaseOrder(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeMailStore(
		&emaildomain.Email{ID: "e-create", UserID: "u1", Subject: "new mail", NeedsRemoteSync: true, InternalDate: now},
		&emaildomain.Email{ID: "e-del", UserID: "u1", RemoteID: strPtr("r-del"), IsDeleted: true, NeedsRemoteSync: true, InternalDate: now},
		&emaildomain.Email{
			ID: "e-upd", UserID: "u1", RemoteID: strPtr("r-upd"), NeedsRemoteSync: true,
			Labels:       emaildomain.LabelSet{"inbox", "starred"},
			SyncedLabels: emaildomain.LabelSet{"inbox"},
			InternalDate: now,
		},
	)
	rem := &fakeMailRemote{}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	require.Equal(t, []string{
		"trash:r-del",
		"modify:r-upd:+[starred]:-[]",
		"create:new mail",
	}, rem.calls)
	assert.Equal(t, PushCounts{Created: 1, Updated: 1, Deleted: 1}, counts)
}

func TestMailOutboundLabelDeltaIsMinimal(t *testing.T) {
	e := &emaildomain.Email{
		ID: "e1", UserID: "u1", RemoteID: strPtr("r1"), NeedsRemoteSync: true,
		Labels:       emaildomain.LabelSet{"inbox", "starred", "work"},
		SyncedLabels: emaildomain.LabelSet{"inbox", "unread", "work"},
	}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{}

	mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	require.Len(t, rem.calls, 1)
	assert.Equal(t, "modify:r1:+[starred]:-[unread]", rem.calls[0])
	assert.False(t, e.NeedsRemoteSync)
	assert.Equal(t, emaildomain.LabelSet{"inbox", "starred", "work"}, e.SyncedLabels)
	assert.NotNil(t, e.LastRemoteSync)
}

func TestMailOutboundEmptyDeltaClearsFlagWithoutRemoteCall(t *testing.T) {
	e := &emaildomain.Email{
		ID: "e1", UserID: "u1", RemoteID: strPtr("r1"), NeedsRemoteSync: true,
		Labels:       emaildomain.LabelSet{"inbox"},
		SyncedLabels: emaildomain.LabelSet{"inbox"},
	}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	assert.Empty(t, rem.calls)
	assert.False(t, e.NeedsRemoteSync)
	assert.Equal(t, PushCounts{}, counts)
}

func TestMailOutboundCreateAdoptsRemoteID(t *testing.T) {
	e := &emaildomain.Email{
		ID: "e1", UserID: "u1", Subject: "hello", NeedsRemoteSync: true,
		Labels: emaildomain.LabelSet{"sent"},
	}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	require.NotNil(t, e.RemoteID)
	assert.Equal(t, "abc1", *e.RemoteID)
	assert.False(t, e.NeedsRemoteSync)
	assert.Equal(t, emaildomain.LabelSet{"sent"}, e.SyncedLabels)
	assert.Equal(t, PushCounts{Created: 1}, counts)
}

func TestMailOutboundCreateFailureKeepsFlagSet(t *testing.T) {
	e := &emaildomain.Email{ID: "e1", UserID: "u1", Subject: "hello", NeedsRemoteSync: true}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{createErr: serverErr()}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	assert.True(t, e.NeedsRemoteSync, "creation retries on the next pass")
	assert.Nil(t, e.RemoteID)
	assert.Equal(t, PushCounts{Failed: 1}, counts)
}

func TestMailOutboundTrashFailureKeepsTombstone(t *testing.T) {
	e := &emaildomain.Email{ID: "e1", UserID: "u1", RemoteID: strPtr("r1"), IsDeleted: true, NeedsRemoteSync: true}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{trashErr: serverErr()}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	kept, ok := store.emails["e1"]
	require.True(t, ok, "local tombstone must survive a failed remote trash")
	assert.True(t, kept.IsDeleted)
	assert.False(t, kept.NeedsRemoteSync, "trashes are not retried")
	assert.Equal(t, PushCounts{Failed: 1}, counts)
}

func TestMailOutboundTrashNotFoundDeletesLocally(t *testing.T) {
	e := &emaildomain.Email{ID: "e1", UserID: "u1", RemoteID: strPtr("r1"), IsDeleted: true, NeedsRemoteSync: true}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{trashErr: notFoundErr()}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	_, ok := store.emails["e1"]
	assert.False(t, ok, "already-gone remote counts as a completed delete")
	assert.Equal(t, PushCounts{Deleted: 1}, counts)
}

func TestMailOutboundModifyFailureClearsFlag(t *testing.T) {
	e := &emaildomain.Email{
		ID: "e1", UserID: "u1", RemoteID: strPtr("r1"), NeedsRemoteSync: true,
		Labels:       emaildomain.LabelSet{"inbox", "starred"},
		SyncedLabels: emaildomain.LabelSet{"inbox"},
	}
	store := newFakeMailStore(e)
	rem := &fakeMailRemote{modifyErr: serverErr()}

	counts := mailOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	assert.False(t, e.NeedsRemoteSync)
	assert.Equal(t, emaildomain.LabelSet{"inbox"}, e.SyncedLabels, "synced set unchanged on failure")
	assert.Equal(t, PushCounts{Failed: 1}, counts)
}

// ---- mail inbound ----

func TestMailInboundInsertsUnseen(t *testing.T) {
	store := newFakeMailStore()
	rem := &fakeMailRemote{pages: map[string][]*emaildomain.Email{
		"INBOX": {
			{
				RemoteID:     strPtr("r1"),
				Subject:      "fresh",
				Labels:       emaildomain.LabelSet{"inbox", "category_social"},
				SyncedLabels: emaildomain.LabelSet{"category_social", "inbox"},
				InternalDate: time.Now().UTC(),
			},
		},
	}}

	pulled, merged, err := mailInbound{remote: rem, store: store}.pull(context.Background(), "tok", "u1", "INBOX")

	require.NoError(t, err)
	assert.Equal(t, 1, pulled)
	assert.Equal(t, 0, merged)
	require.Len(t, store.emails, 1)
	for _, e := range store.emails {
		assert.Equal(t, "u1", e.UserID)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.NeedsRemoteSync, "inbound records are in sync by construction")
		assert.Equal(t, emaildomain.LabelSet{"inbox", "category_social"}, e.Labels)
	}
}

func TestMailInboundIsIdempotent(t *testing.T) {
	store := newFakeMailStore()
	rem := &fakeMailRemote{pages: map[string][]*emaildomain.Email{
		"INBOX": {
			{RemoteID: strPtr("r1"), Subject: "once", Labels: emaildomain.LabelSet{"inbox"}, InternalDate: time.Now().UTC()},
		},
	}}
	in := mailInbound{remote: rem, store: store}

	pulled, _, err := in.pull(context.Background(), "tok", "u1", "INBOX")
	require.NoError(t, err)
	assert.Equal(t, 1, pulled)

	pulled, merged, err := in.pull(context.Background(), "tok", "u1", "INBOX")
	require.NoError(t, err)
	assert.Equal(t, 0, pulled, "second pull of the same message must not duplicate it")
	assert.Equal(t, 0, merged)
	assert.Len(t, store.emails, 1)
}

func TestMailInboundFallbackMatchAdoptsRemoteID(t *testing.T) {
	sent := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	local := &emaildomain.Email{
		ID: "local-1", UserID: "u1", Subject: "meeting notes",
		Labels: emaildomain.LabelSet{"sent"}, InternalDate: sent.Add(2 * time.Minute),
	}
	store := newFakeMailStore(local)
	rem := &fakeMailRemote{pages: map[string][]*emaildomain.Email{
		"SENT": {
			{RemoteID: strPtr("r-sent"), Subject: "meeting notes", Labels: emaildomain.LabelSet{"sent"}, InternalDate: sent},
		},
	}}

	pulled, merged, err := mailInbound{remote: rem, store: store}.pull(context.Background(), "tok", "u1", "SENT")

	require.NoError(t, err)
	assert.Equal(t, 0, pulled)
	assert.Equal(t, 1, merged)
	require.Len(t, store.emails, 1)
	require.NotNil(t, local.RemoteID)
	assert.Equal(t, "r-sent", *local.RemoteID)
}

func TestMailInboundMergesLabelsAsUnion(t *testing.T) {
	existing := &emaildomain.Email{
		ID: "local-1", UserID: "u1", RemoteID: strPtr("r1"), Subject: "keep my labels",
		Labels:       emaildomain.LabelSet{"inbox", "project-x"},
		SyncedLabels: emaildomain.LabelSet{"inbox"},
		Body:         "local body stays",
		InternalDate: time.Now().UTC(),
	}
	store := newFakeMailStore(existing)
	rem := &fakeMailRemote{pages: map[string][]*emaildomain.Email{
		"INBOX": {
			{RemoteID: strPtr("r1"), Subject: "changed remotely", Labels: emaildomain.LabelSet{"inbox", "starred"}, InternalDate: time.Now().UTC()},
		},
	}}

	_, merged, err := mailInbound{remote: rem, store: store}.pull(context.Background(), "tok", "u1", "INBOX")

	require.NoError(t, err)
	assert.Equal(t, 1, merged)
	assert.Equal(t, emaildomain.LabelSet{"inbox", "project-x", "starred"}, existing.Labels)
	assert.Equal(t, emaildomain.LabelSet{"inbox", "starred"}, existing.SyncedLabels, "synced set tracks what the remote holds")
	assert.Equal(t, "keep my labels", existing.Subject, "content is never overwritten")
	assert.Equal(t, "local body stays", existing.Body)
}

// ---- event outbound ----

func TestEventOutboundPhaseOrderAndCreate(t *testing.T) {
	now := time.Now().UTC()
	ev := &eventdomain.Event{ID: "ev-new", UserID: "u1", CalendarID: "primary", Title: "standup", NeedsRemoteSync: true, StartTime: now}
	store := newFakeEventStore(
		ev,
		&eventdomain.Event{ID: "ev-del", UserID: "u1", CalendarID: "primary", RemoteID: strPtr("r-del"), IsDeleted: true, NeedsRemoteSync: true, StartTime: now},
		&eventdomain.Event{ID: "ev-upd", UserID: "u1", CalendarID: "primary", RemoteID: strPtr("r-upd"), NeedsRemoteSync: true, StartTime: now},
	)
	rem := &fakeCalRemote{}

	counts := eventOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	require.Equal(t, []string{"trash:r-del", "update:r-upd", "create:standup"}, rem.calls)
	assert.Equal(t, PushCounts{Created: 1, Updated: 1, Deleted: 1}, counts)
	require.NotNil(t, ev.RemoteID)
	assert.Equal(t, "evt-1", *ev.RemoteID)
	assert.False(t, ev.NeedsRemoteSync)
}

func TestEventOutboundUpdateFailureClearsFlag(t *testing.T) {
	ev := &eventdomain.Event{ID: "ev1", UserID: "u1", CalendarID: "primary", RemoteID: strPtr("r1"), NeedsRemoteSync: true}
	store := newFakeEventStore(ev)
	rem := &fakeCalRemote{updateErr: serverErr()}

	counts := eventOutbound{remote: rem, store: store}.push(context.Background(), "tok", "u1")

	assert.False(t, ev.NeedsRemoteSync)
	assert.Equal(t, PushCounts{Failed: 1}, counts)
}

// ---- orchestrator ----

func TestSyncMailNotConnected(t *testing.T) {
	o := NewOrchestrator(&fakeCreds{}, &fakeMailRemote{}, &fakeCalRemote{}, passthroughTx(Stores{}))

	_, err := o.SyncMail(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSyncMailAuthFailureAborts(t *testing.T) {
	creds := &fakeCreds{
		conn:     &connectiondomain.Connection{ID: "c1", UserID: "u1", Provider: connectiondomain.ProviderGmail},
		tokenErr: remote.AuthError("refresh token revoked"),
	}
	connStore := &fakeConnStore{}
	stores := Stores{Mail: newFakeMailStore(), Event: newFakeEventStore(), Conn: connStore}
	o := NewOrchestrator(creds, &fakeMailRemote{}, &fakeCalRemote{}, passthroughTx(stores))

	_, err := o.SyncMail(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, remote.IsAuth(err))
	assert.Empty(t, connStore.lastSyncCalls, "a dead credential aborts before touching the store")
}

func TestSyncMailRunsOutboundBeforeInboundAndStampsConnection(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeMailStore(
		&emaildomain.Email{ID: "e-del", UserID: "u1", RemoteID: strPtr("r-del"), IsDeleted: true, NeedsRemoteSync: true, InternalDate: now},
	)
	connStore := &fakeConnStore{}
	rem := &fakeMailRemote{pages: map[string][]*emaildomain.Email{
		"INBOX": {{RemoteID: strPtr("r-in"), Subject: "incoming", Labels: emaildomain.LabelSet{"inbox"}, InternalDate: now}},
	}}
	creds := &fakeCreds{conn: &connectiondomain.Connection{ID: "c1", UserID: "u1", Provider: connectiondomain.ProviderGmail}}
	stores := Stores{Mail: store, Event: newFakeEventStore(), Conn: connStore}

	o := NewOrchestrator(creds, rem, &fakeCalRemote{}, passthroughTx(stores))
	summary, err := o.SyncMail(context.Background(), "u1")

	require.NoError(t, err)
	require.Equal(t, []string{"trash:r-del", "list:INBOX", "list:SENT"}, rem.calls,
		"deletions must reach the remote before any pull")
	assert.Equal(t, 1, summary.Pulled)
	assert.Equal(t, PushCounts{Deleted: 1}, summary.Push)
	assert.Equal(t, []string{"c1"}, connStore.lastSyncCalls)
}

func TestSyncMailBadBucketDoesNotSinkOthers(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeMailStore()
	connStore := &fakeConnStore{}
	rem := &fakeMailRemote{
		pages: map[string][]*emaildomain.Email{
			"SENT": {{RemoteID: strPtr("r-s"), Subject: "sent one", Labels: emaildomain.LabelSet{"sent"}, InternalDate: now}},
		},
		listErr: map[string]error{"INBOX": serverErr()},
	}
	creds := &fakeCreds{conn: &connectiondomain.Connection{ID: "c1", UserID: "u1", Provider: connectiondomain.ProviderGmail}}
	stores := Stores{Mail: store, Event: newFakeEventStore(), Conn: connStore}

	o := NewOrchestrator(creds, rem, &fakeCalRemote{}, passthroughTx(stores))
	summary, err := o.SyncMail(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pulled, "the healthy bucket still syncs")
	assert.Equal(t, 1, summary.PullFailed)
	assert.Zero(t, summary.Push.Failed, "a failed pull is not an outbound failure")
	assert.Equal(t, []string{"c1"}, connStore.lastSyncCalls)
}

func TestSyncCalendarUsesConfiguredCalendars(t *testing.T) {
	connStore := &fakeConnStore{}
	rem := &fakeCalRemote{pages: map[string][]*eventdomain.Event{}}
	creds := &fakeCreds{conn: &connectiondomain.Connection{
		ID: "c2", UserID: "u1", Provider: connectiondomain.ProviderCalendar,
		CalendarIDs: connectiondomain.StringList{"primary", "team@group.calendar.google.com"},
	}}
	stores := Stores{Mail: newFakeMailStore(), Event: newFakeEventStore(), Conn: connStore}

	o := NewOrchestrator(creds, &fakeMailRemote{}, rem, passthroughTx(stores))
	_, err := o.SyncCalendar(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, []string{"list:primary", "list:team@group.calendar.google.com"}, rem.calls)
}

func TestSyncCalendarDefaultsToPrimary(t *testing.T) {
	connStore := &fakeConnStore{}
	rem := &fakeCalRemote{}
	creds := &fakeCreds{conn: &connectiondomain.Connection{ID: "c2", UserID: "u1", Provider: connectiondomain.ProviderCalendar}}
	stores := Stores{Mail: newFakeMailStore(), Event: newFakeEventStore(), Conn: connStore}

	o := NewOrchestrator(creds, &fakeMailRemote{}, rem, passthroughTx(stores))
	_, err := o.SyncCalendar(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, []string{"list:primary"}, rem.calls)
}

// ---- summary ----

func TestPushCountsAdd(t *testing.T) {
	p := PushCounts{Created: 1, Failed: 1}
	p.add(PushCounts{Created: 2, Updated: 3, Deleted: 4, Failed: 1})

	assert.Equal(t, PushCounts{Created: 3, Updated: 3, Deleted: 4, Failed: 2}, p)
}
