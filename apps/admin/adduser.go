package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tadika/core/onboarding"
)

func (cli *commandLine) addUser(name, email, pwd, role string) error {
	prof, err := cli.onboarding.CreateUser(context.Background(), onboarding.NewUser{
		FullName: name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s %q (%s)\n", prof.Role, prof.FullName, prof.ID)
	return nil
}
