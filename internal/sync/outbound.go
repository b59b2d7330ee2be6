package sync

import (
	"context"
	"log"
	"time"

	emaildomain "lifehub-backend/internal/email/domain"
	eventdomain "lifehub-backend/internal/event/domain"
	"lifehub-backend/pkg/remote"
)

// mailOutbound pushes local mail state to the provider. Strict phase order:
// trashes first, then label deltas, then creates. A just-deleted record must
// be gone remotely before anything else runs for the same account.
type mailOutbound struct {
	remote MailRemote
	store  MailStore
}

func (o mailOutbound) push(ctx context.Context, token, userID string) PushCounts {
	var counts PushCounts
	now := time.Now().UTC()

	deletes, err := o.store.PendingDeletes(userID)
	if err != nil {
		log.Printf("[Sync] listing pending mail deletes for user %s: %v", userID, err)
		counts.Failed++
		return counts
	}
	for _, e := range deletes {
		counts.add(o.apply(ctx, token, e, TrashMove{RemoteID: *e.RemoteID}, now))
	}

	updates, err := o.store.PendingUpdates(userID)
	if err != nil {
		log.Printf("[Sync] listing pending mail updates for user %s: %v", userID, err)
		counts.Failed++
		return counts
	}
	for _, e := range updates {
		add, removed := e.Labels.Diff(e.SyncedLabels)
		if len(add) == 0 && len(removed) == 0 {
			// Nothing actually changed; just drop the flag.
			e.NeedsRemoteSync = false
			if err := o.store.Update(e); err != nil {
				log.Printf("[Sync] clearing sync flag on email %s: %v", e.ID, err)
				counts.Failed++
			}
			continue
		}
		counts.add(o.apply(ctx, token, e, LabelDelta{RemoteID: *e.RemoteID, Add: add, Remove: removed}, now))
	}

	creates, err := o.store.PendingCreates(userID)
	if err != nil {
		log.Printf("[Sync] listing pending mail creates for user %s: %v", userID, err)
		counts.Failed++
		return counts
	}
	for _, e := range creates {
		counts.add(o.apply(ctx, token, e, Create{}, now))
	}

	return counts
}

func (o mailOutbound) apply(ctx context.Context, token string, e *emaildomain.Email, action Action, now time.Time) PushCounts {
	switch a := action.(type) {
	case TrashMove:
		err := o.remote.Trash(ctx, token, a.RemoteID)
		if err != nil && !remote.IsNotFound(err) {
			// No endless retries on deletes: drop the flag, keep the
			// tombstone, let someone look at the log.
			log.Printf("[Sync] trashing email %s remotely: %v", e.ID, err)
			e.NeedsRemoteSync = false
			if uerr := o.store.Update(e); uerr != nil {
				log.Printf("[Sync] updating email %s after failed trash: %v", e.ID, uerr)
			}
			return PushCounts{Failed: 1}
		}
		// Already gone remotely counts as done.
		if err := o.store.Delete(e.ID); err != nil {
			log.Printf("[Sync] deleting email %s locally: %v", e.ID, err)
			return PushCounts{Failed: 1}
		}
		return PushCounts{Deleted: 1}

	case LabelDelta:
		if err := o.remote.ModifyLabels(ctx, token, a.RemoteID, a.Add, a.Remove); err != nil {
			log.Printf("[Sync] modifying labels on email %s: %v", e.ID, err)
			e.NeedsRemoteSync = false
			if uerr := o.store.Update(e); uerr != nil {
				log.Printf("[Sync] updating email %s after failed modify: %v", e.ID, uerr)
			}
			return PushCounts{Failed: 1}
		}
		e.NeedsRemoteSync = false
		e.SyncedLabels = e.Labels.Sorted()
		e.LastRemoteSync = &now
		if err := o.store.Update(e); err != nil {
			log.Printf("[Sync] updating email %s after modify: %v", e.ID, err)
			return PushCounts{Failed: 1}
		}
		return PushCounts{Updated: 1}

	case Create:
		remoteID, err := o.remote.Create(ctx, token, e)
		if err != nil {
			// Creation failures are often transient; the flag stays set and
			// the next pass tries again.
			log.Printf("[Sync] creating email %s remotely: %v", e.ID, err)
			return PushCounts{Failed: 1}
		}
		e.RemoteID = &remoteID
		e.NeedsRemoteSync = false
		e.SyncedLabels = e.Labels.Sorted()
		e.LastRemoteSync = &now
		if err := o.store.Update(e); err != nil {
			log.Printf("[Sync] updating email %s after create: %v", e.ID, err)
			return PushCounts{Failed: 1}
		}
		return PushCounts{Created: 1}
	}
	return PushCounts{}
}

// eventOutbound pushes local calendar state to the provider, with the same
// phase order and retry rules as mail. Content updates take the place of
// label deltas.
type eventOutbound struct {
	remote CalendarRemote
	store  EventStore
}

func (o eventOutbound) push(ctx context.Context, token, userID string) PushCounts {
	var counts PushCounts
	now := time.Now().UTC()

	deletes, err := o.store.PendingDeletes(userID)
	if err != nil {
		log.Printf("[Sync] listing pending event deletes for user %s: %v", userID, err)
		counts.Failed++
		return counts
	}
	for _, ev := range deletes {
		counts.add(o.apply(ctx, token, ev, TrashMove{RemoteID: *ev.RemoteID}, now))
	}

	updates, err := o.store.PendingUpdates(userID)
	if err != nil {
		log.Printf("[Sync] listing pending event updates for user %s: %v", userID, err)
		counts.Failed++
		return counts
	}
	for _, ev := range updates {
		counts.add(o.apply(ctx, token, ev, ContentUpdate{RemoteID: *ev.RemoteID}, now))
	}

	creates, err := o.store.PendingCreates(userID)
	if err != nil {
		log.Printf("[Sync] listing pending event creates for user %s: %v", userID, err)
		counts.Failed++
		return counts
	}
	for _, ev := range creates {
		counts.add(o.apply(ctx, token, ev, Create{}, now))
	}

	return counts
}

func (o eventOutbound) apply(ctx context.Context, token string, ev *eventdomain.Event, action Action, now time.Time) PushCounts {
	switch a := action.(type) {
	case TrashMove:
		err := o.remote.Trash(ctx, token, ev.CalendarID, a.RemoteID)
		if err != nil && !remote.IsNotFound(err) {
			log.Printf("[Sync] deleting event %s remotely: %v", ev.ID, err)
			ev.NeedsRemoteSync = false
			if uerr := o.store.Update(ev); uerr != nil {
				log.Printf("[Sync] updating event %s after failed delete: %v", ev.ID, uerr)
			}
			return PushCounts{Failed: 1}
		}
		if err := o.store.Delete(ev.ID); err != nil {
			log.Printf("[Sync] deleting event %s locally: %v", ev.ID, err)
			return PushCounts{Failed: 1}
		}
		return PushCounts{Deleted: 1}

	case ContentUpdate:
		if err := o.remote.Update(ctx, token, ev); err != nil {
			log.Printf("[Sync] updating event %s remotely: %v", ev.ID, err)
			ev.NeedsRemoteSync = false
			if uerr := o.store.Update(ev); uerr != nil {
				log.Printf("[Sync] updating event %s after failed push: %v", ev.ID, uerr)
			}
			return PushCounts{Failed: 1}
		}
		ev.NeedsRemoteSync = false
		ev.LastRemoteSync = &now
		if err := o.store.Update(ev); err != nil {
			log.Printf("[Sync] updating event %s after push: %v", ev.ID, err)
			return PushCounts{Failed: 1}
		}
		return PushCounts{Updated: 1}

	case Create:
		remoteID, err := o.remote.Create(ctx, token, ev)
		if err != nil {
			log.Printf("[Sync] creating event %s remotely: %v", ev.ID, err)
			return PushCounts{Failed: 1}
		}
		ev.RemoteID = &remoteID
		ev.NeedsRemoteSync = false
		ev.LastRemoteSync = &now
		if err := o.store.Update(ev); err != nil {
			log.Printf("[Sync] updating event %s after create: %v", ev.ID, err)
			return PushCounts{Failed: 1}
		}
		return PushCounts{Created: 1}
	}
	return PushCounts{}
}
