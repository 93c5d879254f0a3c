package student

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core"
)

var (
	// errors
	ErrNotFound     = errors.New("student not found")
	ErrEmailExists  = errors.New("there is already an account with that email")
	ErrInvalidLogin = errors.New("invalid login")
	ErrNotVerified  = errors.New("account has not been verified")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excluded ...Student) error
		CreateStudent(ctx context.Context, s Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		GetStudentByConfirmToken(ctx context.Context, token string) (Student, error)
		GetStudentByResetToken(ctx context.Context, token string) (Student, error)
		// UpdateStudent replaces all mutable fields of the stored record.
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Register(ctx context.Context, ns NewStudent) (Student, error)
		Authenticate(ctx context.Context, email, pwd string) (Student, error)
		ConfirmEmail(ctx context.Context, token string) (Student, error)
		ForgotPassword(ctx context.Context, email string) (Student, error)
		CheckResetToken(ctx context.Context, token string) (string, error)
		ResetPassword(ctx context.Context, rp ResetStudentPassword) (Student, error)
		CheckEmailUniqueness(email string) error
		GetByID(ctx context.Context, id string) (Student, error)
		GetByEmail(ctx context.Context, email string) (Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	ConfigureTokenGen(conf.SecretKey, conf.PassTokenTimeout)
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckEmailUniqueness(email string) error {
	return svc.repo.CheckEmailUniqueness(context.Background(), email)
}

// Register persists a new unverified Student and mails them a confirmation token.
func (svc *service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.repo.CheckEmailUniqueness(ctx, ns.Email); err != nil {
		return Student{}, err
	}

	now := time.Now().UTC()
	s := Student{
		FirstName:         ns.FirstName,
		LastName:          ns.LastName,
		Email:             ns.Email,
		Classification:    ns.Classification,
		ConfirmEmailToken: generateToken(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Student{}, pkgerrors.Wrap(err, "hashing password")
	}

	s, err := svc.repo.CreateStudent(ctx, s)
	if err != nil {
		return Student{}, err
	}
	svc.sendConfirmationMail(s)
	return s, nil
}

// Authenticate checks the credentials and records the login time.
func (svc *service) Authenticate(ctx context.Context, email, pwd string) (Student, error) {
	s, err := svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Student{}, err
	}
	if err = s.CheckPassword(pwd); err != nil {
		return Student{}, ErrInvalidLogin
	}
	if !s.Verified {
		return Student{}, ErrNotVerified
	}

	s.LastLogin = time.Now().UTC()
	s.UpdatedAt = s.LastLogin
	return svc.repo.UpdateStudent(ctx, s)
}

// ConfirmEmail consumes a confirmation token and marks the account verified.
func (svc *service) ConfirmEmail(ctx context.Context, token string) (Student, error) {
	if token == "" {
		return Student{}, ErrInvalidToken
	}
	s, err := svc.repo.GetStudentByConfirmToken(ctx, token)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Student{}, ErrInvalidToken
		}
		return Student{}, err
	}

	s.Verified = true
	s.ConfirmEmailToken = ""
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, s)
}

// ForgotPassword issues a reset token and mails it to the account owner.
func (svc *service) ForgotPassword(ctx context.Context, email string) (Student, error) {
	s, err := svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Student{}, err
	}

	s.ResetPasswordToken = generateToken()
	s.ResetTokenExpires = time.Now().UTC().Add(svc.conf.PasswordResetTimeout)
	s.UpdatedAt = time.Now().UTC()
	s, err = svc.repo.UpdateStudent(ctx, s)
	if err != nil {
		return Student{}, err
	}
	svc.sendPasswordResetMail(s)
	return s, nil
}

// CheckResetToken validates a stored reset token and returns the short-lived
// pass-token required by the follow-up password-set call.
func (svc *service) CheckResetToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	s, err := svc.repo.GetStudentByResetToken(ctx, token)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if time.Now().UTC().After(s.ResetTokenExpires) {
		return "", ErrTokenExpired
	}
	return encodeUID(s) + "." + makePassToken(s), nil
}

// ResetPassword consumes a pass-token and replaces the account password.
func (svc *service) ResetPassword(ctx context.Context, rp ResetStudentPassword) (Student, error) {
	parts := strings.SplitN(rp.PassToken, ".", 2)
	if len(parts) < 2 {
		return Student{}, ErrInvalidToken
	}
	id, err := decodeUID(parts[0])
	if err != nil {
		return Student{}, ErrInvalidToken
	}

	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Student{}, ErrInvalidToken
		}
		return Student{}, err
	}
	if s.ResetPasswordToken == "" {
		return Student{}, ErrInvalidToken
	}
	if time.Now().UTC().After(s.ResetTokenExpires) {
		return Student{}, ErrTokenExpired
	}
	if err = verifyPassToken(s, parts[1]); err != nil {
		switch err {
		case errTokenExpired:
			return Student{}, ErrTokenExpired
		default:
			return Student{}, ErrInvalidToken
		}
	}

	if err = s.SetPassword(rp.Password); err != nil {
		return Student{}, pkgerrors.Wrap(err, "hashing password")
	}
	s.ResetPasswordToken = ""
	s.ResetTokenExpires = time.Time{}
	s.UpdatedAt = time.Now().UTC()
	s, err = svc.repo.UpdateStudent(ctx, s)
	if err != nil {
		return Student{}, err
	}
	svc.sendPasswordChangedMail(s)
	return s, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *service) sendConfirmationMail(s Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.FullName(), Address: s.Email}},
		Subject:      "Confirm your email address",
		TemplateName: "confirm-email",
		TemplateData: struct {
			Name  string
			Token string
		}{s.FirstName, s.ConfirmEmailToken},
	})
}

func (svc *service) sendPasswordResetMail(s Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.FullName(), Address: s.Email}},
		Subject:      "Password reset",
		TemplateName: "password-reset",
		TemplateData: struct {
			Name  string
			Token string
		}{s.FirstName, s.ResetPasswordToken},
	})
}

func (svc *service) sendPasswordChangedMail(s Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.FullName(), Address: s.Email}},
		Subject:      "Your password was changed",
		TemplateName: "password-changed",
		TemplateData: struct{ Name string }{s.FirstName},
	})
}
