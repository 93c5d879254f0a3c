package main

import (
	"context"

	"github.com/ttuacm/sdc-backend/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	std, err := cli.stdRepo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.stdRepo.UpdateStudent(ctx, std)
	return err
}
