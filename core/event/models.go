package event

import "time"

const (
	defaultLocation = "TBA"
	defaultCreator  = "SDC"

	// ResponseAccepted is the status recorded for attendees added here.
	ResponseAccepted = "accepted"
)

// Attendee mirrors the calendar attendee shape.
type Attendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// Event is the normalized calendar event served to clients.
type Event struct {
	ID          int        `json:"id"` // 1-based position in the listing
	EventID     string     `json:"eventId"`
	Day         string     `json:"day"` // weekday name of the start time
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	Creator     string     `json:"creator"`
	Description string     `json:"description"`
	Attendees   []Attendee `json:"attendees"`
	AllDayEvent bool       `json:"allDayEvent"`
}

// RawTime is a calendar timestamp: either DateTime (RFC3339) or, for
// all-day events, Date (YYYY-MM-DD).
type RawTime struct {
	DateTime string
	Date     string
}

func (rt RawTime) value() string {
	if rt.DateTime != "" {
		return rt.DateTime
	}
	return rt.Date
}

func (rt RawTime) allDay() bool { return rt.DateTime == "" && rt.Date != "" }

func (rt RawTime) parse() (time.Time, bool) {
	if rt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, rt.DateTime); err == nil {
			return t, true
		}
	}
	if rt.Date != "" {
		if t, err := time.Parse("2006-01-02", rt.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RawEvent is the calendar event shape as returned by the provider,
// before normalization.
type RawEvent struct {
	ID          string
	Summary     string
	Location    string
	Description string
	Creator     string
	Start       RawTime
	End         RawTime
	Attendees   []Attendee
}

// normalize maps a RawEvent to the served Event shape, filling defaults.
func normalize(raw RawEvent, pos int) Event {
	ev := Event{
		ID:          pos,
		EventID:     raw.ID,
		StartTime:   raw.Start.value(),
		EndTime:     raw.End.value(),
		Title:       raw.Summary,
		Location:    raw.Location,
		Creator:     raw.Creator,
		Description: raw.Description,
		Attendees:   raw.Attendees,
		AllDayEvent: raw.Start.allDay(),
	}
	if ev.Location == "" {
		ev.Location = defaultLocation
	}
	if ev.Creator == "" {
		ev.Creator = defaultCreator
	}
	if ev.Attendees == nil {
		ev.Attendees = []Attendee{}
	}
	if start, ok := raw.Start.parse(); ok {
		ev.Day = start.Weekday().String()
	}
	return ev
}
