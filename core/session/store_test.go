package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/profile"
	"github.com/trezcool/tadika/core/session"
	logsvc "github.com/trezcool/tadika/services/logger"
	cacheinmem "github.com/trezcool/tadika/storage/cache/inmem"
	inmemdb "github.com/trezcool/tadika/storage/database/inmem"
	testutil "github.com/trezcool/tadika/tests"
)

// flakyProvider fails SignOut like an unreachable auth service.
type flakyProvider struct {
	auth.Provider
	signOutCalls int
}

func (p *flakyProvider) SignOut(context.Context, string) error {
	p.signOutCalls++
	return auth.Unavailable(errors.New("dial tcp: i/o timeout"))
}

type fixture struct {
	provider *auth.LocalProvider
	profiles profile.Repository
	storage  testutil.MapStorage
	parent   profile.Profile
}

func newFixture(t *testing.T) *fixture {
	db := inmemdb.Open()
	f := &fixture{
		provider: auth.NewLocalProvider(
			core.NewTestConfig(), inmemdb.NewAccountRepository(db), cacheinmem.NewRevocationStore(),
		),
		profiles: inmemdb.NewProfileRepository(db),
		storage:  make(testutil.MapStorage),
	}
	f.parent = testutil.CreateUser(t, f.provider, f.profiles, "Siti", "siti@test.test", "kuching-hijau-9", profile.RoleParent)
	return f
}

func (f *fixture) store(provider ...auth.Provider) *session.Store {
	var p auth.Provider = f.provider
	if len(provider) > 0 {
		p = provider[0]
	}
	return session.NewStore(p, profile.NewService(f.profiles), f.storage, logsvc.NewNopLogger())
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := f.store()

	assert.Equal(t, session.PhaseUninitialized, store.Snapshot().Phase)

	var phases []session.Phase
	unsubscribe := store.Subscribe(func(st session.State) { phases = append(phases, st.Phase) })
	defer unsubscribe()

	require.NoError(t, store.Resolve(ctx, ""))
	assert.Equal(t, []session.Phase{session.PhaseLoading, session.PhaseReady}, phases)

	st := store.Snapshot()
	assert.False(t, st.Authenticated())
	assert.False(t, store.Loading())
	assert.Nil(t, st.Identity)
}

func TestStore_SignInResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := f.store()

	require.NoError(t, store.SignIn(ctx, "siti@test.test", "kuching-hijau-9"))
	st := store.Snapshot()
	require.True(t, st.Authenticated())
	assert.Equal(t, f.parent.ID, st.Identity.ID)
	assert.Equal(t, profile.RoleParent, st.Role())
	assert.NotEmpty(t, st.Token)

	// a fresh store restores the session from the token
	other := f.store()
	require.NoError(t, other.Resolve(ctx, st.Token))
	assert.True(t, other.Snapshot().Authenticated())
	assert.Equal(t, "Siti", other.Snapshot().Profile.FullName)
}

func TestStore_SignInFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := f.store()

	err := store.SignIn(ctx, "siti@test.test", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", auth.Message(err))

	st := store.Snapshot()
	assert.Equal(t, session.PhaseReady, st.Phase)
	assert.False(t, st.Authenticated())
	assert.Empty(t, st.Token)
}

func TestStore_ResolveWithoutProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.provider.SignUp(ctx, auth.Credentials{Email: "ghost@test.test", Password: "kuching-hijau-9"})
	require.NoError(t, err)
	store := f.store()

	sess, err := f.provider.SignIn(ctx, "ghost@test.test", "kuching-hijau-9")
	require.NoError(t, err)

	// resolving keeps the identity, the guard denies it
	require.NoError(t, store.Resolve(ctx, sess.Token))
	st := store.Snapshot()
	assert.NotNil(t, st.Identity)
	assert.Nil(t, st.Profile)
	assert.False(t, st.Authenticated())
}

func TestStore_SignInWithoutProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.provider.SignUp(ctx, auth.Credentials{Email: "ghost@test.test", Password: "kuching-hijau-9"})
	require.NoError(t, err)
	store := f.store()

	var seen []session.State
	store.Subscribe(func(st session.State) { seen = append(seen, st) })

	err = store.SignIn(ctx, "ghost@test.test", "kuching-hijau-9")
	assert.True(t, auth.IsAuthError(err, auth.ErrNoProfile))
	assert.Equal(t, auth.MsgNoProfile, auth.Message(err))

	st := store.Snapshot()
	assert.Equal(t, session.PhaseReady, st.Phase)
	assert.Nil(t, st.Identity)
	assert.Empty(t, st.Token)
	for _, s := range seen {
		assert.Empty(t, s.Token, "no token may reach listeners")
	}
}

func TestStore_ResolveInvalidToken(t *testing.T) {
	store := newFixture(t).store()

	err := store.Resolve(context.Background(), "expired.or.forged")
	assert.Equal(t, auth.MsgSessionExpired, auth.Message(err))
	st := store.Snapshot()
	assert.Equal(t, session.PhaseReady, st.Phase)
	assert.Nil(t, st.Identity)
}

func TestStore_SignOutClearsEvenWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	flaky := &flakyProvider{Provider: f.provider}
	store := f.store(flaky)

	require.NoError(t, store.SignIn(ctx, "siti@test.test", "kuching-hijau-9"))
	require.True(t, store.Snapshot().Authenticated())

	var seen []session.State
	store.Subscribe(func(st session.State) { seen = append(seen, st) })

	err := store.SignOut(ctx)
	assert.Equal(t, auth.MsgUnavailable, auth.Message(err))
	assert.Equal(t, 1, flaky.signOutCalls)

	st := store.Snapshot()
	assert.Nil(t, st.Identity)
	assert.Nil(t, st.Profile)
	assert.Empty(t, st.Token)
	require.Len(t, seen, 1)
	assert.False(t, seen[0].Authenticated())

	// idempotent: nothing left to sign out remotely
	assert.NoError(t, store.SignOut(ctx))
	assert.Equal(t, 1, flaky.signOutCalls)
}

func TestStore_Language(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := f.store()
	require.NoError(t, store.Resolve(ctx, ""))

	// anonymous: client storage only
	assert.Equal(t, profile.LanguageEnglish, store.Language())
	require.NoError(t, store.SetLanguage(ctx, profile.LanguageMalay))
	assert.Equal(t, "bm", f.storage[session.LanguageKey])
	assert.Equal(t, profile.LanguageMalay, store.Language())

	assert.Equal(t, profile.ErrUnsupportedLanguage, store.SetLanguage(ctx, "fr"))

	// authenticated: the profile wins and is persisted
	require.NoError(t, store.SignIn(ctx, "siti@test.test", "kuching-hijau-9"))
	assert.Equal(t, profile.LanguageEnglish, store.Language())
	require.NoError(t, store.SetLanguage(ctx, profile.LanguageMalay))
	assert.Equal(t, profile.LanguageMalay, store.Language())

	prof, err := f.profiles.GetProfile(ctx, f.parent.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.LanguageMalay, prof.LanguagePreference)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := newFixture(t).store()
	var calls int
	unsubscribe := store.Subscribe(func(session.State) { calls++ })
	require.NoError(t, store.Resolve(context.Background(), ""))
	unsubscribe()
	unsubscribe()
	require.NoError(t, store.Resolve(context.Background(), ""))
	assert.Equal(t, 2, calls)
}

func TestNewStore_Collaborators(t *testing.T) {
	f := newFixture(t)
	profiles := profile.NewService(f.profiles)

	assert.NotPanics(t, func() {
		session.NewStore(f.provider, profiles, make(testutil.MapStorage), logsvc.NewNopLogger())
	})
	assert.NotPanics(t, func() {
		session.NewStore(&flakyProvider{Provider: f.provider}, profiles, f.storage, logsvc.NewNopLogger())
	})
	assert.Panics(t, func() { session.NewStore(nil, profiles, f.storage, logsvc.NewNopLogger()) })
	assert.Panics(t, func() { session.NewStore(f.provider, profiles, f.storage, nil) })
}
