package testutil

import (
	"context"
	"log"
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/student"
)

// NewConfig returns a self-contained Config for tests. No env files are
// read and no external services are reachable with it.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "SDC",
		Env:              "test",
		Debug:            false,
		TestMode:         true,
		WorkDir:          core.Getwd(),
		SecretKey:        []byte("secret"),
		FrontendBaseURL:  "https://sdc.ttuacm.org",
		AdminEmails:      []string{"admin@ttuacm.org"},
		DefaultFromEmail: mail.Address{Name: "SDC", Address: "no-reply@ttuacm.org"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		PasswordResetTimeout: 3 * 24 * time.Hour,
		PassTokenTimeout:     15 * time.Minute,
	}
}

type testLogger struct {
	std *log.Logger
}

var _ core.Logger = (*testLogger)(nil)

// NewLogger returns a stdout-only Logger for tests.
func NewLogger() core.Logger {
	return &testLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}
}

func (l testLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.print(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.print(msg, args); l.std.Fatal(msg) }

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	first, last, email, pwd string,
	verified bool,
) student.Student {
	std := student.Student{
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Classification: "Senior",
		Verified:       verified,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}
