package sync

import (
	"log"
	"sort"
	"time"

	emaildomain "lifehub-backend/internal/email/domain"
	eventdomain "lifehub-backend/internal/event/domain"
)

// dedupTolerance bounds the fallback timestamp match. Wide enough to absorb
// clock skew between the two systems, narrow enough not to swallow a real
// second occurrence of the same subject.
const dedupTolerance = 5 * time.Minute

type mailDedup struct {
	store MailStore
}

// resolve decides whether a candidate pulled from the remote already exists
// locally. Remote-id match wins; the (subject, timestamp) heuristic catches a
// record created locally and observed remotely before its push committed.
func (d mailDedup) resolve(userID string, candidate *emaildomain.Email) (*emaildomain.Email, error) {
	if candidate.RemoteID != nil {
		existing, err := d.store.FindByRemoteID(userID, *candidate.RemoteID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	matches, err := d.store.FindBySubjectNear(userID, candidate.Subject, candidate.InternalDate, dedupTolerance)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		log.Printf("[Sync] %d duplicate candidates for email %q, keeping the most complete", len(matches), candidate.Subject)
	}

	sort.Slice(matches, func(i, j int) bool {
		return moreCompleteEmail(matches[i], matches[j])
	})
	return matches[0], nil
}

type eventDedup struct {
	store EventStore
}

func (d eventDedup) resolve(userID string, candidate *eventdomain.Event) (*eventdomain.Event, error) {
	if candidate.RemoteID != nil {
		existing, err := d.store.FindByRemoteID(userID, *candidate.RemoteID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	matches, err := d.store.FindByTitleNear(userID, candidate.Title, candidate.CalendarID, candidate.StartTime, dedupTolerance)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		log.Printf("[Sync] %d duplicate candidates for event %q, keeping the most complete", len(matches), candidate.Title)
	}

	sort.Slice(matches, func(i, j int) bool {
		return MoreCompleteEvent(matches[i], matches[j])
	})
	return matches[0], nil
}

// Completeness ordering for ambiguous matches: a record with a remote id
// beats one without, then one with content, then the lower local id.
func moreCompleteEmail(a, b *emaildomain.Email) bool {
	if (a.RemoteID != nil) != (b.RemoteID != nil) {
		return a.RemoteID != nil
	}
	if (a.Snippet != "" || a.BodyCached) != (b.Snippet != "" || b.BodyCached) {
		return a.Snippet != "" || a.BodyCached
	}
	return a.ID < b.ID
}

// MoreCompleteEvent is the completeness ordering for events, shared with the
// duplicate-cleanup endpoint so both pick the same survivor.
func MoreCompleteEvent(a, b *eventdomain.Event) bool {
	if (a.RemoteID != nil) != (b.RemoteID != nil) {
		return a.RemoteID != nil
	}
	if (a.Description != "") != (b.Description != "") {
		return a.Description != ""
	}
	return a.ID < b.ID
}
