package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/onboarding"
	"github.com/trezcool/tadika/core/profile"
	emailsvc "github.com/trezcool/tadika/services/email"
	logsvc "github.com/trezcool/tadika/services/logger"
	cacheinmem "github.com/trezcool/tadika/storage/cache/inmem"
	inmemdb "github.com/trezcool/tadika/storage/database/inmem"
	testutil "github.com/trezcool/tadika/tests"
)

type fixture struct {
	cli      *commandLine
	out      *bytes.Buffer
	provider *auth.LocalProvider
	profiles profile.Repository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conf := core.NewTestConfig()
	db := inmemdb.Open()
	validate, _ := testutil.NewValidator()

	f := &fixture{
		out:      new(bytes.Buffer),
		provider: auth.NewLocalProvider(conf, inmemdb.NewAccountRepository(db), cacheinmem.NewRevocationStore()),
		profiles: inmemdb.NewProfileRepository(db),
	}
	mailer := emailsvc.NewConsoleServiceMock(conf, logsvc.NewNopLogger())
	f.cli = &commandLine{
		passwords:  f.provider,
		onboarding: onboarding.NewService(f.provider, profile.NewService(f.profiles), mailer, validate),
		out:        f.out,
	}
	return f
}

func mockPassword(pwd string) {
	readPasswordFunc = func(int) ([]byte, error) {
		return []byte(pwd), nil
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
	f := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		if dir != "migrations" {
			return fmt.Errorf("unexpected migrations dir %q", dir)
		}
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "pickups", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := f.cli.run(args); err != nil {
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
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() expected an error")
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		args     []string
		pwd      string
		wantHelp bool
		wantErr  bool
		wantRole profile.Role
	}{
		{name: "no args", args: []string{"adduser"}, wantHelp: true},
		{name: "no name", args: []string{"adduser", "-email", "cikgu@test.test"}, pwd: "pwd", wantHelp: true},
		{name: "no password", args: []string{"adduser", "-email", "cikgu@test.test", "-name", "Cikgu"}, wantHelp: true},
		{name: "invalid role", args: []string{"adduser", "-email", "cikgu@test.test", "-name", "Cikgu", "-role", "janitor"}, pwd: "pwd", wantErr: true},
		{name: "teacher", args: []string{"adduser", "-email", "Cikgu@Test.test", "-name", "Cikgu Ani", "-role", "Teacher"}, pwd: "pwd", wantRole: profile.RoleTeacher},
		{name: "default role", args: []string{"adduser", "-email", "mak@test.test", "-name", "Mak Cik"}, pwd: "pwd", wantRole: profile.RoleParent},
		{name: "duplicate", args: []string{"adduser", "-email", "cikgu@test.test", "-name", "Cikgu Ani"}, pwd: "pwd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(tt.pwd)
			err := f.cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantHelp:
				assert.Equal(t, errHelp, err)
			case tt.wantErr:
				assert.Error(t, err)
				assert.NotEqual(t, errHelp, err)
			default:
				require.NoError(t, err)
				email := tt.args[2]
				sess, err := f.provider.SignIn(ctx, email, tt.pwd)
				require.NoError(t, err)
				prof, err := f.profiles.GetProfile(ctx, sess.Identity.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, prof.Role)
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.provider, f.profiles, "Awe", "awe@test.test", "mdr", profile.RoleParent)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.test"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.test"}, extra: extra{pwd: "lol"}, wantErr: auth.ErrAccountNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "awe@test.test"}, extra: extra{pwd: "lol"}},
		{name: "reset with mixed case email", args: []string{"resetpassword", "-email", "AWE@test.test"}, extra: extra{pwd: "lmao"}},
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
			err := f.cli.run(args)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			_, err = f.provider.SignIn(ctx, "awe@test.test", tt.extra.(extra).pwd)
			assert.NoError(t, err, "failed to update new password")
		})
	}
}

func Test_commandLine_setupDemo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.cli.run([]string{"admin", "setupdemo"}))
	assert.Contains(t, f.out.String(), "3 created, 0 already existed")

	for _, nu := range demoUsers {
		sess, err := f.provider.SignIn(ctx, nu.Email, nu.Password)
		require.NoError(t, err, nu.Email)
		prof, err := f.profiles.GetProfile(ctx, sess.Identity.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.Role(nu.Role), prof.Role)
	}

	f.out.Reset()
	require.NoError(t, f.cli.run([]string{"admin", "setupdemo"}))
	assert.Contains(t, f.out.String(), "0 created, 3 already existed")
}
