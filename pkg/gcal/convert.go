package gcal

import (
	"time"

	eventdomain "lifehub-backend/internal/event/domain"

	"google.golang.org/api/calendar/v3"
)

const categoryProperty = "lifehub_category"

// ToEvent maps a wire event to a canonical record. Inbound records are in
// sync by construction, so NeedsRemoteSync starts false.
func ToEvent(item *calendar.Event, calendarID string) *eventdomain.Event {
	remoteID := item.Id
	start, allDay := parseEventTime(item.Start)
	end, _ := parseEventTime(item.End)

	event := &eventdomain.Event{
		RemoteID:        &remoteID,
		CalendarID:      calendarID,
		Title:           item.Summary,
		Description:     item.Description,
		Location:        item.Location,
		Category:        eventdomain.CategoryDefault,
		StartTime:       start,
		EndTime:         end,
		AllDay:          allDay,
		NeedsRemoteSync: false,
	}

	if item.ExtendedProperties != nil {
		if c, ok := item.ExtendedProperties.Private[categoryProperty]; ok && c != "" {
			event.Category = c
		}
	}

	return event
}

// ToWire maps a canonical record to the provider payload. The category rides
// along as a private extended property so it round-trips through the remote.
func ToWire(event *eventdomain.Event) *calendar.Event {
	wire := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{categoryProperty: event.Category},
		},
	}

	if event.AllDay {
		wire.Start = &calendar.EventDateTime{Date: event.StartTime.UTC().Format("2006-01-02")}
		wire.End = &calendar.EventDateTime{Date: event.EndTime.UTC().Format("2006-01-02")}
	} else {
		wire.Start = &calendar.EventDateTime{DateTime: event.StartTime.UTC().Format(time.RFC3339)}
		wire.End = &calendar.EventDateTime{DateTime: event.EndTime.UTC().Format(time.RFC3339)}
	}

	return wire
}

// parseEventTime handles both timed and all-day values. Everything is
// normalized to UTC before storage.
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t.UTC(), false
		}
		return time.Time{}, false
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
