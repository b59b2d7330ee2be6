package sync

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// maxPagesPerBucket bounds one pull so a huge mailbox cannot pin a sync
// invocation; the next scheduled sync continues from fresh state anyway.
const maxPagesPerBucket = 10

// mailInbound pulls remote mail per bucket, inserting unseen records and
// merging label state into seen ones. Content of an existing record is never
// overwritten: once local, content is authoritative locally.
type mailInbound struct {
	remote MailRemote
	store  MailStore
}

func (i mailInbound) pull(ctx context.Context, token, userID, bucket string) (pulled, merged int, err error) {
	dedup := mailDedup{store: i.store}
	pageToken := ""

	for page := 0; page < maxPagesPerBucket; page++ {
		items, next, err := i.remote.List(ctx, token, bucket, pageToken)
		if err != nil {
			return pulled, merged, err
		}

		for _, candidate := range items {
			existing, err := dedup.resolve(userID, candidate)
			if err != nil {
				log.Printf("[Sync] resolving email %q for user %s: %v", candidate.Subject, userID, err)
				continue
			}

			now := time.Now().UTC()

			if existing == nil {
				candidate.ID = uuid.New().String()
				candidate.UserID = userID
				candidate.NeedsRemoteSync = false
				candidate.LastRemoteSync = &now
				for j := range candidate.Attachments {
					candidate.Attachments[j].ID = uuid.New().String()
					candidate.Attachments[j].EmailID = candidate.ID
				}
				if err := i.store.Insert(candidate); err != nil {
					log.Printf("[Sync] inserting email %q for user %s: %v", candidate.Subject, userID, err)
					continue
				}
				pulled++
				continue
			}

			changed := false
			if existing.RemoteID == nil && candidate.RemoteID != nil {
				// A fallback match on a record whose push never committed:
				// adopt the remote id instead of creating a twin later.
				existing.RemoteID = candidate.RemoteID
				changed = true
			}

			mergedLabels := existing.Labels.Union(candidate.Labels)
			if len(mergedLabels) != len(existing.Labels) {
				existing.Labels = mergedLabels
				changed = true
			}
			// Remember what the remote currently holds so the next outbound
			// delta stays minimal.
			existing.SyncedLabels = candidate.Labels.Sorted()
			existing.LastRemoteSync = &now

			if err := i.store.Update(existing); err != nil {
				log.Printf("[Sync] updating email %s for user %s: %v", existing.ID, userID, err)
				continue
			}
			if changed {
				merged++
			}
		}

		pageToken = next
		if pageToken == "" {
			break
		}
	}

	return pulled, merged, nil
}

// eventInbound pulls remote events per calendar. Seen events keep their local
// content and category; only the remote id and sync stamp are reconciled.
type eventInbound struct {
	remote CalendarRemote
	store  EventStore
}

func (i eventInbound) pull(ctx context.Context, token, userID, calendarID string) (pulled, merged int, err error) {
	dedup := eventDedup{store: i.store}
	pageToken := ""

	for page := 0; page < maxPagesPerBucket; page++ {
		items, next, err := i.remote.List(ctx, token, calendarID, pageToken)
		if err != nil {
			return pulled, merged, err
		}

		for _, candidate := range items {
			existing, err := dedup.resolve(userID, candidate)
			if err != nil {
				log.Printf("[Sync] resolving event %q for user %s: %v", candidate.Title, userID, err)
				continue
			}

			now := time.Now().UTC()

			if existing == nil {
				candidate.ID = uuid.New().String()
				candidate.UserID = userID
				candidate.NeedsRemoteSync = false
				candidate.LastRemoteSync = &now
				if err := i.store.Insert(candidate); err != nil {
					log.Printf("[Sync] inserting event %q for user %s: %v", candidate.Title, userID, err)
					continue
				}
				pulled++
				continue
			}

			changed := false
			if existing.RemoteID == nil && candidate.RemoteID != nil {
				existing.RemoteID = candidate.RemoteID
				changed = true
			}
			existing.LastRemoteSync = &now

			if err := i.store.Update(existing); err != nil {
				log.Printf("[Sync] updating event %s for user %s: %v", existing.ID, userID, err)
				continue
			}
			if changed {
				merged++
			}
		}

		pageToken = next
		if pageToken == "" {
			break
		}
	}

	return pulled, merged, nil
}
