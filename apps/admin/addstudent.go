package main

import (
	"context"
	"time"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/student"
)

// addStudent updates or creates a verified student.Student
func (cli *commandLine) addStudent(email, first, last, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	std, err := cli.stdRepo.GetStudentByEmail(ctx, email)
	if err != nil {
		if err != student.ErrNotFound {
			return err
		}
		std = student.Student{
			Email:          email,
			FirstName:      core.CleanString(first),
			LastName:       core.CleanString(last),
			Classification: "Other",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		std.Verified = true
		if err := std.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.stdRepo.CreateStudent(ctx, std)
		return err
	}

	std.FirstName = core.CleanString(first)
	std.LastName = core.CleanString(last)
	std.Verified = true
	std.UpdatedAt = now
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.stdRepo.UpdateStudent(ctx, std)
	return err
}
