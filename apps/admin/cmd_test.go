package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/ttuacm/sdc-backend/core/member"
	"github.com/ttuacm/sdc-backend/core/student"
	inmemdb "github.com/ttuacm/sdc-backend/storage/database/inmem"
	testutil "github.com/ttuacm/sdc-backend/tests"
)

var (
	stdRepo student.Repository
	mbrRepo member.Repository
)

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	db := inmemdb.Open()
	stdRepo = inmemdb.NewStudentRepository(db)
	mbrRepo = inmemdb.NewMemberRepository(db)

	// start CLI; migrations are mocked so no *sql.DB is needed
	return &commandLine{
		stdRepo: stdRepo,
		mbrRepo: mbrRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no command", args: []string{}, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "no subcommand defaults to up", args: []string{"migrate"}},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "teams", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addStudent(t *testing.T) {
	cli := setup(t)

	existing := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "0ld-pwd", false)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no flags", args: []string{"addstudent"}, wantErr: errHelp},
		{name: "email only", args: []string{"addstudent", "-email", "new@ttu.edu"}, wantErr: errHelp},
		{name: "no password", args: []string{"addstudent", "-email", "new@ttu.edu", "-first", "New", "-last", "Raider"}, wantErr: errHelp},
		{name: "created", args: []string{"addstudent", "-email", "new@ttu.edu", "-first", "New", "-last", "Raider"}, extra: extra{pwd: "s3cret"}},
		{name: "existing updated", args: []string{"addstudent", "-email", "Grace@TTU.edu", "-first", "Gracie", "-last", "Hopper"}, extra: extra{pwd: "s3cret"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	std, err := stdRepo.GetStudentByEmail(context.Background(), "new@ttu.edu")
	if err != nil {
		t.Fatalf("GetStudentByEmail() failed: %v", err)
	}
	if !std.Verified {
		t.Error("Verified = false; want true")
	}
	if std.Classification != "Other" {
		t.Errorf("Classification = %s; want Other", std.Classification)
	}
	if err := std.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if std.CreatedAt.IsZero() || std.UpdatedAt.IsZero() {
		t.Errorf("timestamps not set: CreatedAt = %v, UpdatedAt = %v", std.CreatedAt, std.UpdatedAt)
	}

	std, err = stdRepo.GetStudentByEmail(context.Background(), existing.Email)
	if err != nil {
		t.Fatalf("GetStudentByEmail() failed: %v", err)
	}
	if std.FirstName != "Gracie" {
		t.Errorf("FirstName = %s; want Gracie", std.FirstName)
	}
	if !std.Verified {
		t.Error("Verified = false; want true")
	}
	if err := std.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if std.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set on update")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "0ld-pwd", true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@ttu.edu"}, wantErr: errHelp},
		{name: "student not found", args: []string{"resetpassword", "-email", "lol@ttu.edu"}, extra: extra{pwd: "lol"}, wantErr: student.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", std.Email}, extra: extra{pwd: "new-pwd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := stdRepo.GetStudentByEmail(context.Background(), std.Email)
				if err != nil {
					t.Fatalf("GetStudentByEmail() failed: %v", err)
				}
				if err := refreshed.CheckPassword("new-pwd"); err != nil {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_resetMembers(t *testing.T) {
	cli := setup(t)

	for _, email := range []string{"a@ttu.edu", "b@ttu.edu"} {
		if _, err := mbrRepo.CreateMember(context.Background(), member.Member{Email: email}); err != nil {
			t.Fatalf("CreateMember() failed: %v", err)
		}
	}

	if err := cli.run([]string{"admin", "resetmembers"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	members, err := mbrRepo.QueryAllMembers(context.Background())
	if err != nil {
		t.Fatalf("QueryAllMembers() failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("members = %v; want none", members)
	}
}
