package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/onboarding"
	"github.com/trezcool/tadika/core/profile"
)

// demoUsers are the accounts advertised on the login page of demo deployments.
var demoUsers = []onboarding.NewUser{
	{FullName: "Admin User", Email: "admin@childcare.com", Password: "admin123", Role: string(profile.RoleAdmin)},
	{FullName: "Teacher User", Email: "teacher@childcare.com", Password: "teacher123", Role: string(profile.RoleTeacher)},
	{FullName: "Parent User", Email: "parent@childcare.com", Password: "parent123", Role: string(profile.RoleParent)},
}

// setupDemo creates the demo accounts; accounts that already exist are left untouched.
func (cli *commandLine) setupDemo() error {
	ctx := context.Background()
	var created, skipped int
	for _, nu := range demoUsers {
		_, err := cli.onboarding.CreateUser(ctx, nu)
		switch {
		case err == nil:
			created++
		case auth.IsAuthError(err, auth.ErrUserExists):
			skipped++
		default:
			return fmt.Errorf("creating %s: %w", nu.Email, err)
		}
	}
	fmt.Fprintf(cli.out, "demo accounts: %d created, %d already existed\n", created, skipped)
	return nil
}
