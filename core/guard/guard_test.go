package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/tadika/core/profile"
	"github.com/trezcool/tadika/core/session"
)

func readyState(role profile.Role) session.State {
	return session.State{
		Phase:    session.PhaseReady,
		Identity: &profile.Identity{ID: "id", Email: "t@test.test"},
		Profile:  &profile.Profile{ID: "id", Role: role},
	}
}

func TestEvaluate(t *testing.T) {
	identOnly := session.State{Phase: session.PhaseReady, Identity: &profile.Identity{ID: "id"}}
	admins := []profile.Role{profile.RoleAdmin}

	tests := []struct {
		name    string
		state   session.State
		allowed []profile.Role
		want    Decision
	}{
		{name: "uninitialized", state: session.State{}, want: Decision{Result: Loading}},
		{name: "loading anonymous", state: session.State{Phase: session.PhaseLoading}, want: Decision{Result: Loading}},
		{name: "loading with profile", state: func() session.State {
			st := readyState(profile.RoleAdmin)
			st.Phase = session.PhaseLoading
			return st
		}(), allowed: []profile.Role{profile.RoleParent}, want: Decision{Result: Loading}},
		{name: "anonymous", state: session.State{Phase: session.PhaseReady}, want: Decision{Result: Denied, Redirect: LoginPath}},
		{name: "identity without profile", state: identOnly, want: Decision{Result: Denied, Redirect: LoginPath}},
		{name: "identity without profile, allow-list", state: identOnly, allowed: admins, want: Decision{Result: Denied, Redirect: LoginPath}},
		{name: "role outside allow-list", state: readyState(profile.RoleParent), allowed: admins, want: Decision{Result: Denied, Redirect: DashboardPath}},
		{name: "unknown role outside allow-list", state: readyState("janitor"), allowed: admins, want: Decision{Result: Denied, Redirect: DashboardPath}},
		{name: "role in allow-list", state: readyState(profile.RoleAdmin), allowed: admins, want: Decision{Result: Granted}},
		{name: "no allow-list", state: readyState(profile.RoleTeacher), want: Decision{Result: Granted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.state, tt.allowed...))
		})
	}
}

type fakeStore struct {
	state     session.State
	listeners []session.Listener
}

func (s *fakeStore) Snapshot() session.State { return s.state }

func (s *fakeStore) Subscribe(fn session.Listener) func() {
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() { s.listeners[idx] = nil }
}

func (s *fakeStore) set(st session.State) {
	s.state = st
	for _, fn := range s.listeners {
		if fn != nil {
			fn(st)
		}
	}
}

func TestWatch(t *testing.T) {
	store := &fakeStore{state: session.State{Phase: session.PhaseLoading}}
	var got []Result
	stop := Watch(store, []profile.Role{profile.RoleTeacher}, func(d Decision) { got = append(got, d.Result) })

	store.set(readyState(profile.RoleTeacher))
	store.set(session.State{Phase: session.PhaseReady}) // signed out
	stop()
	store.set(readyState(profile.RoleTeacher))

	assert.Equal(t, []Result{Loading, Granted, Denied}, got)
}
