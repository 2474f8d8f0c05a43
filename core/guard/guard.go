// Package guard decides whether a protected view may render for a session state.
package guard

import (
	"github.com/trezcool/tadika/core/profile"
	"github.com/trezcool/tadika/core/session"
)

// Redirect targets
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type Result int

const (
	// Loading means the session is not resolved yet: render a placeholder, do not navigate.
	Loading Result = iota
	Denied
	Granted
)

func (r Result) String() string {
	switch r {
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	default:
		return "loading"
	}
}

type Decision struct {
	Result Result
	// Redirect is set on Denied only. Navigation to it replaces the current history entry.
	Redirect string
}

// Evaluate is a pure function from session state to a Decision.
// An empty allow-list admits every resolved Profile.
func Evaluate(st session.State, allowed ...profile.Role) Decision {
	if st.Phase != session.PhaseReady {
		return Decision{Result: Loading}
	}
	if st.Identity == nil || st.Profile == nil {
		return Decision{Result: Denied, Redirect: LoginPath}
	}
	if len(allowed) > 0 && !roleAllowed(st.Profile.Role, allowed) {
		return Decision{Result: Denied, Redirect: DashboardPath}
	}
	return Decision{Result: Granted}
}

func roleAllowed(role profile.Role, allowed []profile.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Observable is the part of session.Store Watch needs.
type Observable interface {
	Snapshot() session.State
	Subscribe(fn session.Listener) (unsubscribe func())
}

// Watch calls fn with the current decision, then again after every store change.
func Watch(store Observable, allowed []profile.Role, fn func(Decision)) (stop func()) {
	stop = store.Subscribe(func(st session.State) {
		fn(Evaluate(st, allowed...))
	})
	fn(Evaluate(store.Snapshot(), allowed...))
	return stop
}
