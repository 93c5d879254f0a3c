package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/ttuacm/sdc-backend/core"
)

// Classifications a Student may register with.
var Classifications = []string{
	"Freshman",
	"Sophomore",
	"Junior",
	"Senior",
	"Graduate",
	"Other",
}

// Student is a registered club member account.
//
// A record is either Verified or holds a non-empty ConfirmEmailToken,
// never both absent.
type Student struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	Classification     string    `json:"classification"`
	Verified           bool      `json:"verified"`
	HasPaidDues        bool      `json:"has_paid_dues"`
	ConfirmEmailToken  string    `json:"-"`
	ResetPasswordToken string    `json:"-"`
	ResetTokenExpires  time.Time `json:"-"`
	PasswordHash       []byte    `json:"-"`
	CreatedAt          time.Time `json:"created_at"` // UTC
	UpdatedAt          time.Time `json:"updated_at"` // UTC
	LastLogin          time.Time `json:"last_login"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	Classification string `json:"classification" validate:"omitempty,classification"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc Service) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Classification = core.CleanString(ns.Classification)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ns.Email)
}

// ResetStudentPassword is the payload of the final password-set call.
type ResetStudentPassword struct {
	PassToken string `json:"-"`
	Password  string `json:"password" validate:"required"`
}

func (rp *ResetStudentPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
