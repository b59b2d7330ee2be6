package sync

import (
	"context"
	"log"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
)

// defaultMailBuckets are the labels pulled on every mail sync.
var defaultMailBuckets = []string{"INBOX", "SENT"}

// Orchestrator runs one full sync per (user, provider): valid token first,
// outbound before inbound, one transaction around the whole pass so the
// lastSync stamp commits atomically with the data it summarizes.
type Orchestrator struct {
	creds Credentials
	mail  MailRemote
	cal   CalendarRemote
	inTx  TxFunc

	locks       *keyedLocks
	mailBuckets []string
}

func NewOrchestrator(creds Credentials, mail MailRemote, cal CalendarRemote, inTx TxFunc) *Orchestrator {
	return &Orchestrator{
		creds:       creds,
		mail:        mail,
		cal:         cal,
		inTx:        inTx,
		locks:       newKeyedLocks(),
		mailBuckets: defaultMailBuckets,
	}
}

func (o *Orchestrator) SyncMail(ctx context.Context, userID string) (*Summary, error) {
	unlock := o.locks.lock(userID + "/" + connectiondomain.ProviderGmail)
	defer unlock()

	conn, err := o.creds.Connection(userID, connectiondomain.ProviderGmail)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrNotConnected
	}

	token, err := o.creds.ValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Provider: connectiondomain.ProviderGmail}
	err = o.inTx(ctx, func(s Stores) error {
		out := mailOutbound{remote: o.mail, store: s.Mail}
		summary.Push = out.push(ctx, token, userID)

		in := mailInbound{remote: o.mail, store: s.Mail}
		for _, bucket := range o.mailBuckets {
			pulled, merged, err := in.pull(ctx, token, userID, bucket)
			summary.Pulled += pulled
			summary.Merged += merged
			if err != nil {
				// One bad bucket does not sink the others.
				log.Printf("[Sync] pulling mail bucket %s for user %s: %v", bucket, userID, err)
				summary.PullFailed++
			}
		}

		return s.Conn.UpdateLastSync(conn.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (o *Orchestrator) SyncCalendar(ctx context.Context, userID string) (*Summary, error) {
	unlock := o.locks.lock(userID + "/" + connectiondomain.ProviderCalendar)
	defer unlock()

	conn, err := o.creds.Connection(userID, connectiondomain.ProviderCalendar)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrNotConnected
	}

	token, err := o.creds.ValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	calendars := []string(conn.CalendarIDs)
	if len(calendars) == 0 {
		calendars = []string{"primary"}
	}

	summary := &Summary{Provider: connectiondomain.ProviderCalendar}
	err = o.inTx(ctx, func(s Stores) error {
		out := eventOutbound{remote: o.cal, store: s.Event}
		summary.Push = out.push(ctx, token, userID)

		in := eventInbound{remote: o.cal, store: s.Event}
		for _, calendarID := range calendars {
			pulled, merged, err := in.pull(ctx, token, userID, calendarID)
			summary.Pulled += pulled
			summary.Merged += merged
			if err != nil {
				log.Printf("[Sync] pulling calendar %s for user %s: %v", calendarID, userID, err)
				summary.PullFailed++
			}
		}

		return s.Conn.UpdateLastSync(conn.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}
