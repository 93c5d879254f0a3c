package main

import "context"

// resetMembers wipes the roster at the start of a new school year.
func (cli *commandLine) resetMembers() error {
	return cli.mbrRepo.ResetMembers(context.Background())
}
