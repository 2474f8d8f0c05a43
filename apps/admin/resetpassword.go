package main

import (
	"context"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.passwords.SetPassword(context.Background(), email, pwd)
}
