package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	cacheinmem "github.com/trezcool/tadika/storage/cache/inmem"
	inmemdb "github.com/trezcool/tadika/storage/database/inmem"
	testutil "github.com/trezcool/tadika/tests"
)

type failingAccounts struct {
	auth.AccountRepository
}

func (failingAccounts) GetAccountByEmail(context.Context, string) (auth.Account, error) {
	return auth.Account{}, errors.New("connection refused")
}

func newProvider() *auth.LocalProvider {
	db := inmemdb.Open()
	return auth.NewLocalProvider(core.NewTestConfig(), inmemdb.NewAccountRepository(db), cacheinmem.NewRevocationStore())
}

func TestLocalProvider_SignUp(t *testing.T) {
	ctx := context.Background()
	p := newProvider()

	ident, err := p.SignUp(ctx, auth.Credentials{Email: " Mama@Test.test ", Password: "S3cure!pwd"})
	require.NoError(t, err)
	assert.NotEmpty(t, ident.ID)
	assert.Equal(t, "mama@test.test", ident.Email)

	_, err = p.SignUp(ctx, auth.Credentials{Email: "mama@test.test", Password: "other-pwd"})
	assert.Equal(t, auth.MsgUserExists, auth.Message(err))
}

func TestLocalProvider_SignIn(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, err := p.SignUp(ctx, auth.Credentials{Email: "mama@test.test", Password: "S3cure!pwd"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantMsg string
	}{
		{name: "unknown email", email: "papa@test.test", pwd: "S3cure!pwd", wantMsg: auth.MsgInvalidCredentials},
		{name: "wrong password", email: "mama@test.test", pwd: "wrong", wantMsg: auth.MsgInvalidCredentials},
		{name: "valid", email: "MAMA@test.test", pwd: "S3cure!pwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := p.SignIn(ctx, tt.email, tt.pwd)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, auth.Message(err))
				assert.Empty(t, sess.Token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, sess.Token)
			assert.Equal(t, "mama@test.test", sess.Identity.Email)
			assert.True(t, sess.ExpiresAt.After(time.Now()))

			ident, err := p.Resolve(ctx, sess.Token)
			require.NoError(t, err)
			assert.Equal(t, sess.Identity, ident)
		})
	}
}

func TestLocalProvider_SignInUnavailable(t *testing.T) {
	p := auth.NewLocalProvider(core.NewTestConfig(), failingAccounts{}, cacheinmem.NewRevocationStore())
	_, err := p.SignIn(context.Background(), "mama@test.test", "S3cure!pwd")
	assert.Equal(t, auth.MsgUnavailable, auth.Message(err))
	assert.EqualError(t, errors.Cause(err.(*auth.AuthError).Err), "connection refused")
}

func TestLocalProvider_SignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, err := p.SignUp(ctx, auth.Credentials{Email: "mama@test.test", Password: "S3cure!pwd"})
	require.NoError(t, err)
	sess, err := p.SignIn(ctx, "mama@test.test", "S3cure!pwd")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, sess.Token))
	_, err = p.Resolve(ctx, sess.Token)
	assert.Equal(t, auth.MsgSessionExpired, auth.Message(err))

	// signing out twice or with garbage is a no-op
	assert.NoError(t, p.SignOut(ctx, sess.Token))
	assert.NoError(t, p.SignOut(ctx, "garbage"))
	assert.NoError(t, p.SignOut(ctx, ""))
}

func TestLocalProvider_ResolveExpired(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, err := p.SignUp(ctx, auth.Credentials{Email: "mama@test.test", Password: "S3cure!pwd"})
	require.NoError(t, err)

	p.WithClock(testutil.FixedClock(time.Now().Add(-2 * time.Hour)))
	sess, err := p.SignIn(ctx, "mama@test.test", "S3cure!pwd")
	require.NoError(t, err)
	p.WithClock(time.Now)

	_, err = p.Resolve(ctx, sess.Token)
	assert.Equal(t, auth.MsgSessionExpired, auth.Message(err))

	_, err = p.Resolve(ctx, "not-a-jwt")
	assert.Equal(t, auth.MsgSessionExpired, auth.Message(err))
}

func TestRegistration_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name    string
		reg     auth.Registration
		wantErr bool
	}{
		{name: "valid", reg: auth.Registration{FullName: "Siti Aminah", Email: "siti@test.test", Password: "kuching-hijau-9", Phone: "+60 12-345 6789"}},
		{name: "missing name", reg: auth.Registration{Email: "siti@test.test", Password: "kuching-hijau-9"}, wantErr: true},
		{name: "invalid email", reg: auth.Registration{FullName: "Siti", Email: "siti", Password: "kuching-hijau-9"}, wantErr: true},
		{name: "short password", reg: auth.Registration{FullName: "Siti", Email: "siti@test.test", Password: "abc12"}, wantErr: true},
		{name: "whitespace password", reg: auth.Registration{FullName: "Siti", Email: "siti@test.test", Password: "kuching hijau"}, wantErr: true},
		{name: "numeric password", reg: auth.Registration{FullName: "Siti", Email: "siti@test.test", Password: "1234567890"}, wantErr: true},
		{name: "similar to email", reg: auth.Registration{FullName: "Siti", Email: "sitiaminah@test.test", Password: "sitiaminah"}, wantErr: true},
		{name: "common password", reg: auth.Registration{FullName: "Siti", Email: "siti@test.test", Password: "password123"}, wantErr: true},
		{name: "invalid phone", reg: auth.Registration{FullName: "Siti", Email: "siti@test.test", Password: "kuching-hijau-9", Phone: "call me"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", auth.Message(nil))
	assert.Equal(t, auth.MsgInvalidCredentials, auth.Message(errors.Wrap(auth.ErrInvalidCredentials, "signing in")))
	assert.Equal(t, auth.MsgUnavailable, auth.Message(errors.New("boom")))
	assert.True(t, auth.IsAuthError(errors.Wrap(auth.ErrSessionExpired, "resolving"), auth.ErrSessionExpired))
}
