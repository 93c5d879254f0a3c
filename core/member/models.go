package member

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ttuacm/sdc-backend/core"
)

// Member is a mailing-roster entry. Unlike Student it carries no
// credentials; it only tracks group subscriptions and dues.
type Member struct {
	Email       string    `json:"email"`
	Groups      []string  `json:"groups"`
	HasPaidDues bool      `json:"has_paid_dues"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewMember contains information needed to create a roster entry.
type NewMember struct {
	Email string `json:"email" validate:"required,email"`
}

func (nm *NewMember) Validate(validate *validator.Validate) error {
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	return validate.Struct(nm)
}

// Subscription names the groups a member joins or leaves.
type Subscription struct {
	Email  string   `json:"email" validate:"required,email"`
	Groups []string `json:"groups" validate:"required,min=1"`
}

func (s *Subscription) Validate(validate *validator.Validate) error {
	s.Email = core.CleanString(s.Email, true /* lower */)
	for i, g := range s.Groups {
		s.Groups[i] = core.CleanString(g)
	}
	return validate.Struct(s)
}
