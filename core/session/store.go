// Package session holds the Store: the single source of truth for who is signed in
// and what their role is, for one client.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/profile"
)

// LanguageKey is the client storage entry holding the language of anonymous clients.
const LanguageKey = "language"

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

type (
	// ClientStorage is the key-value storage persisted on the client (cookies over HTTP).
	ClientStorage interface {
		Get(key string) (string, bool)
		Set(key, value string)
		Delete(key string)
	}

	// Profiles is the subset of profile.Service the Store needs.
	Profiles interface {
		Get(ctx context.Context, id string) (profile.Profile, error)
		SetLanguage(ctx context.Context, id string, lang profile.Language) (profile.Profile, error)
	}

	// State is an immutable snapshot of a Store.
	State struct {
		Phase     Phase
		Identity  *profile.Identity
		Profile   *profile.Profile
		Token     string
		ExpiresAt time.Time
	}

	Listener func(State)
)

// Authenticated reports whether the state carries both an Identity and a Profile.
func (s State) Authenticated() bool {
	return s.Phase == PhaseReady && s.Identity != nil && s.Profile != nil
}

// Role returns the profile role, or "" without a profile.
func (s State) Role() profile.Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

type Store struct {
	provider auth.Provider
	profiles Profiles
	storage  ClientStorage
	logger   core.Logger

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func NewStore(provider auth.Provider, profiles Profiles, storage ClientStorage, logger core.Logger) *Store {
	vala.BeginValidation().Validate(
		core.IsNotNil(provider, "provider"),
		core.IsNotNil(profiles, "profiles"),
		core.IsNotNil(storage, "storage"),
		core.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Store{
		provider:  provider,
		profiles:  profiles,
		storage:   storage,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.copy()
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Phase == PhaseLoading
}

// Subscribe registers fn to be called with a snapshot after every state change.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// set applies mutate under the lock, then notifies listeners outside of it.
func (s *Store) set(mutate func(st *State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state.copy()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Resolve restores the session carried by `token`.
// The Store is Loading while it runs and always ends Ready; a token that does not resolve leaves it anonymous.
// An Identity without a Profile is kept, with a nil Profile.
func (s *Store) Resolve(ctx context.Context, token string) error {
	s.set(func(st *State) { st.Phase = PhaseLoading })

	if token == "" {
		s.set(func(st *State) { *st = State{Phase: PhaseReady} })
		return nil
	}

	ident, err := s.provider.Resolve(ctx, token)
	if err != nil {
		s.set(func(st *State) { *st = State{Phase: PhaseReady} })
		return errors.Wrap(err, "resolving token")
	}

	prof, err := s.loadProfile(ctx, ident)
	s.set(func(st *State) {
		*st = State{Phase: PhaseReady, Identity: &ident, Profile: prof, Token: token}
	})
	return err
}

func (s *Store) loadProfile(ctx context.Context, ident profile.Identity) (*profile.Profile, error) {
	prof, err := s.profiles.Get(ctx, ident.ID)
	if err != nil {
		if errors.Cause(err) == profile.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "loading profile")
	}
	return &prof, nil
}

// SignIn authenticates with the provider.
// On failure the Store is left anonymous and the error carries the provider's message (see auth.Message).
// An account without a profile fails with auth.ErrNoProfile.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.set(func(st *State) { *st = State{Phase: PhaseReady} })
		return err
	}

	ident := sess.Identity
	prof, err := s.loadProfile(ctx, ident)
	if err != nil || prof == nil {
		// the fresh token must not outlive a sign-in that cannot complete
		if serr := s.provider.SignOut(ctx, sess.Token); serr != nil {
			s.logger.Warn("signing out incomplete sign in: "+serr.Error(), serr)
		}
		s.set(func(st *State) { *st = State{Phase: PhaseReady} })
		if err != nil {
			s.logger.Error(err.Error(), err, map[string]interface{}{"identity": ident.ID})
			return auth.Unavailable(err)
		}
		return auth.ErrNoProfile
	}

	s.set(func(st *State) {
		*st = State{Phase: PhaseReady, Identity: &ident, Profile: prof, Token: sess.Token, ExpiresAt: sess.ExpiresAt}
	})
	return nil
}

// SignOut clears the local state first, then signs out with the provider.
// The provider error, if any, is returned; the local state stays cleared regardless.
func (s *Store) SignOut(ctx context.Context) error {
	var token string
	s.set(func(st *State) {
		token = st.Token
		*st = State{Phase: PhaseReady}
	})

	if token == "" {
		return nil
	}
	return errors.Wrap(s.provider.SignOut(ctx, token), "signing out")
}

// Language returns the profile preference when authenticated, then the client storage entry, then the default.
func (s *Store) Language() profile.Language {
	st := s.Snapshot()
	if st.Profile != nil && st.Profile.LanguagePreference.IsValid() {
		return st.Profile.LanguagePreference
	}
	if saved, ok := s.storage.Get(LanguageKey); ok {
		if lang, ok := profile.ParseLanguage(saved); ok {
			return lang
		}
	}
	return profile.DefaultLanguage
}

// SetLanguage mirrors `lang` to the client storage and, when authenticated, persists it on the profile.
func (s *Store) SetLanguage(ctx context.Context, lang profile.Language) error {
	if !lang.IsValid() {
		return profile.ErrUnsupportedLanguage
	}
	s.storage.Set(LanguageKey, string(lang))

	st := s.Snapshot()
	if st.Profile == nil {
		return nil
	}
	prof, err := s.profiles.SetLanguage(ctx, st.Profile.ID, lang)
	if err != nil {
		return errors.Wrap(err, "saving language preference")
	}
	s.set(func(st *State) {
		if st.Profile != nil && st.Profile.ID == prof.ID {
			st.Profile = &prof
		}
	})
	return nil
}

func (s State) copy() State {
	cp := s
	if s.Identity != nil {
		ident := *s.Identity
		cp.Identity = &ident
	}
	if s.Profile != nil {
		prof := *s.Profile
		cp.Profile = &prof
	}
	return cp
}
