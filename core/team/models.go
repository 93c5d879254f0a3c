package team

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ttuacm/sdc-backend/core"
)

// NowFunc returns the current time. Mockable so that group-name
// formatting is deterministic in tests.
var NowFunc = time.Now

// Team is a named membership roster.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"` // ordered emails, not deduplicated here
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewTeam contains information needed to create a Team.
type NewTeam struct {
	Name string `json:"name" validate:"required"`
}

func (nt *NewTeam) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	return validate.Struct(nt)
}

// FormatGroupName formats a group name to match the current semester
// and year, eg. "SDC - Algorithms - Fall 18".
//
// June through December counts as Fall, everything else as Spring.
func FormatGroupName(groupName string) string {
	now := NowFunc()

	// same month arithmetic as the historical records: 0-indexed months,
	// Fall iff the index is in (4, 11]
	monthIdx := int(now.Month()) - 1
	season := "Spring"
	if monthIdx > 4 && monthIdx <= 11 {
		season = "Fall"
	}

	return fmt.Sprintf("SDC - %s - %s %02d", groupName, season, now.Year()%100)
}
