package event

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNoAttendees = errors.New("no attendees found")
)

type (
	// Client is a calendar provider. Errors propagate verbatim; no
	// retries are attempted here.
	Client interface {
		// ListUpcoming returns upcoming events ordered by start time.
		ListUpcoming(ctx context.Context) ([]RawEvent, error)
		// GetAttendees returns the current attendee list of an event.
		GetAttendees(ctx context.Context, eventID string) ([]Attendee, error)
		// PatchAttendees replaces the attendee list of an event.
		PatchAttendees(ctx context.Context, eventID string, attendees []Attendee) error
	}

	Service interface {
		List(ctx context.Context) ([]Event, error)
		GetAttendees(ctx context.Context, eventID string) ([]Attendee, error)
		Attend(ctx context.Context, eventID, email string) ([]Attendee, error)
		Unattend(ctx context.Context, eventID, email string) ([]Attendee, error)
	}

	service struct {
		client Client
	}
)

var _ Service = (*service)(nil)

func NewService(client Client) Service {
	return &service{client: client}
}

// List returns the normalized upcoming events. The calendar holds all
// state; this layer only reshapes what the provider returns.
func (svc *service) List(ctx context.Context) ([]Event, error) {
	raws, err := svc.client.ListUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(raws))
	for i, raw := range raws {
		events = append(events, normalize(raw, i+1))
	}
	return events, nil
}

func (svc *service) GetAttendees(ctx context.Context, eventID string) ([]Attendee, error) {
	attendees, err := svc.client.GetAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if attendees == nil {
		attendees = []Attendee{}
	}
	return attendees, nil
}

// Attend adds the email to the event's attendee list and pushes the
// mutated list back to the calendar.
func (svc *service) Attend(ctx context.Context, eventID, email string) ([]Attendee, error) {
	attendees, err := svc.GetAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees = AddAttendee(attendees, email)
	if err := svc.client.PatchAttendees(ctx, eventID, attendees); err != nil {
		return nil, err
	}
	return attendees, nil
}

func (svc *service) Unattend(ctx context.Context, eventID, email string) ([]Attendee, error) {
	attendees, err := svc.GetAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err = RemoveAttendee(attendees, email)
	if err != nil {
		return nil, err
	}
	if err := svc.client.PatchAttendees(ctx, eventID, attendees); err != nil {
		return nil, err
	}
	return attendees, nil
}

// AddAttendee appends the email to the caller's list and returns it.
func AddAttendee(attendees []Attendee, email string) []Attendee {
	return append(attendees, Attendee{Email: email, ResponseStatus: ResponseAccepted})
}

// RemoveAttendee removes the email from the caller's list and returns it.
// Removing from an empty list is an error.
func RemoveAttendee(attendees []Attendee, email string) ([]Attendee, error) {
	if len(attendees) == 0 {
		return nil, ErrNoAttendees
	}
	kept := make([]Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a.Email != email {
			kept = append(kept, a)
		}
	}
	return kept, nil
}
