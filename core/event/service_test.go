package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	events    []RawEvent
	attendees map[string][]Attendee
	patched   map[string][]Attendee
	err       error
}

var _ Client = (*fakeClient)(nil)

func (c *fakeClient) ListUpcoming(context.Context) ([]RawEvent, error) {
	return c.events, c.err
}

func (c *fakeClient) GetAttendees(_ context.Context, eventID string) ([]Attendee, error) {
	return c.attendees[eventID], c.err
}

func (c *fakeClient) PatchAttendees(_ context.Context, eventID string, attendees []Attendee) error {
	if c.err != nil {
		return c.err
	}
	if c.patched == nil {
		c.patched = make(map[string][]Attendee)
	}
	c.patched[eventID] = attendees
	return nil
}

func Test_service_List(t *testing.T) {
	client := &fakeClient{
		events: []RawEvent{
			{
				ID:          "evt1",
				Summary:     "Intro to Go",
				Location:    "IMSE 156",
				Description: "Bring a laptop",
				Creator:     "Ada",
				Start:       RawTime{DateTime: "2018-10-01T18:00:00-05:00"},
				End:         RawTime{DateTime: "2018-10-01T19:00:00-05:00"},
				Attendees:   []Attendee{{Email: "raider@ttu.edu", ResponseStatus: "accepted"}},
			},
			{
				// defaults kick in: no location, no creator, all-day
				ID:      "evt2",
				Summary: "Hack Day",
				Start:   RawTime{Date: "2018-10-06"},
				End:     RawTime{Date: "2018-10-07"},
			},
		},
	}
	svc := NewService(client)

	events, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("List() returned %d events; want 2", len(events))
	}

	first := events[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "evt1", first.EventID)
	assert.Equal(t, "Monday", first.Day)
	assert.Equal(t, "2018-10-01T18:00:00-05:00", first.StartTime)
	assert.Equal(t, "Intro to Go", first.Title)
	assert.Equal(t, "IMSE 156", first.Location)
	assert.Equal(t, "Ada", first.Creator)
	assert.False(t, first.AllDayEvent)
	assert.Len(t, first.Attendees, 1)

	second := events[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "Saturday", second.Day)
	assert.Equal(t, "2018-10-06", second.StartTime)
	assert.Equal(t, "TBA", second.Location)
	assert.Equal(t, "SDC", second.Creator)
	assert.True(t, second.AllDayEvent)
	assert.NotNil(t, second.Attendees)
	assert.Empty(t, second.Attendees)
}

func Test_service_List_clientError(t *testing.T) {
	wantErr := errors.New("calendar unreachable")
	svc := NewService(&fakeClient{err: wantErr})

	if _, err := svc.List(context.Background()); err != wantErr {
		t.Errorf("List() err = %v; want %v", err, wantErr)
	}
}

func Test_service_AttendUnattend(t *testing.T) {
	client := &fakeClient{
		attendees: map[string][]Attendee{
			"evt1": {{Email: "ada@ttu.edu", ResponseStatus: "accepted"}},
		},
	}
	svc := NewService(client)
	ctx := context.Background()

	attendees, err := svc.Attend(ctx, "evt1", "raider@ttu.edu")
	if err != nil {
		t.Fatalf("Attend() failed: %v", err)
	}
	want := []Attendee{
		{Email: "ada@ttu.edu", ResponseStatus: "accepted"},
		{Email: "raider@ttu.edu", ResponseStatus: "accepted"},
	}
	assert.Equal(t, want, attendees)
	assert.Equal(t, want, client.patched["evt1"])

	// removal from an empty list errors out
	if _, err := svc.Unattend(ctx, "evt2", "raider@ttu.edu"); err != ErrNoAttendees {
		t.Errorf("Unattend(empty) err = %v; want ErrNoAttendees", err)
	}

	client.attendees["evt1"] = want
	attendees, err = svc.Unattend(ctx, "evt1", "ada@ttu.edu")
	if err != nil {
		t.Fatalf("Unattend() failed: %v", err)
	}
	assert.Equal(t, []Attendee{{Email: "raider@ttu.edu", ResponseStatus: "accepted"}}, attendees)
}

func TestAddRemoveAttendee(t *testing.T) {
	list := AddAttendee(nil, "a@ttu.edu")
	list = AddAttendee(list, "b@ttu.edu")
	assert.Equal(t, []Attendee{
		{Email: "a@ttu.edu", ResponseStatus: ResponseAccepted},
		{Email: "b@ttu.edu", ResponseStatus: ResponseAccepted},
	}, list)

	list, err := RemoveAttendee(list, "a@ttu.edu")
	if err != nil {
		t.Fatalf("RemoveAttendee() failed: %v", err)
	}
	assert.Equal(t, []Attendee{{Email: "b@ttu.edu", ResponseStatus: ResponseAccepted}}, list)

	if _, err := RemoveAttendee(nil, "a@ttu.edu"); err != ErrNoAttendees {
		t.Errorf("RemoveAttendee(empty) err = %v; want ErrNoAttendees", err)
	}
}
