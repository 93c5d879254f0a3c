package calendarsvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/event"
)

type googleClient struct {
	svc        *calendar.Service
	calendarID string
}

var _ event.Client = (*googleClient)(nil)

// NewGoogleClient builds an event.Client backed by the Google Calendar API.
// Credentials come from the service account file in conf.Calendar.
func NewGoogleClient(ctx context.Context, conf *core.Config) (event.Client, error) {
	svc, err := calendar.NewService(
		ctx,
		option.WithCredentialsFile(conf.Calendar.CredentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating calendar service")
	}
	return &googleClient{svc: svc, calendarID: conf.Calendar.CalendarID}, nil
}

func (c *googleClient) ListUpcoming(ctx context.Context) ([]event.RawEvent, error) {
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "listing events")
	}

	raws := make([]event.RawEvent, 0, len(res.Items))
	for _, item := range res.Items {
		raws = append(raws, toRawEvent(item))
	}
	return raws, nil
}

func (c *googleClient) GetAttendees(ctx context.Context, eventID string) ([]event.Attendee, error) {
	ev, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "getting event")
	}
	return toAttendees(ev.Attendees), nil
}

func (c *googleClient) PatchAttendees(ctx context.Context, eventID string, attendees []event.Attendee) error {
	patch := &calendar.Event{
		Attendees:       toGoogleAttendees(attendees),
		ForceSendFields: []string{"Attendees"},
	}
	if _, err := c.svc.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return errors.Wrap(err, "patching event attendees")
	}
	return nil
}

func toRawEvent(item *calendar.Event) event.RawEvent {
	raw := event.RawEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Location:    item.Location,
		Description: item.Description,
		Attendees:   toAttendees(item.Attendees),
	}
	if item.Creator != nil {
		if raw.Creator = item.Creator.DisplayName; raw.Creator == "" {
			raw.Creator = item.Creator.Email
		}
	}
	if item.Start != nil {
		raw.Start = event.RawTime{DateTime: item.Start.DateTime, Date: item.Start.Date}
	}
	if item.End != nil {
		raw.End = event.RawTime{DateTime: item.End.DateTime, Date: item.End.Date}
	}
	return raw
}

func toAttendees(attendees []*calendar.EventAttendee) []event.Attendee {
	res := make([]event.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a == nil {
			continue
		}
		res = append(res, event.Attendee{Email: a.Email, ResponseStatus: a.ResponseStatus})
	}
	return res
}

func toGoogleAttendees(attendees []event.Attendee) []*calendar.EventAttendee {
	res := make([]*calendar.EventAttendee, 0, len(attendees))
	for _, a := range attendees {
		res = append(res, &calendar.EventAttendee{Email: a.Email, ResponseStatus: a.ResponseStatus})
	}
	return res
}
