package auth

// Messages surfaced verbatim to whoever submitted the credentials.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgUserExists         = "User already registered"
	MsgSessionExpired     = "Session expired"
	MsgNoProfile          = "No profile found for this account"
	MsgUnavailable        = "Unable to reach authentication service"
)

// AuthError is an authentication failure carrying a human-readable Message.
// Err, when set, is the underlying cause (storage or network failure).
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Cause() error { return e.Err }

var (
	ErrInvalidCredentials = &AuthError{Message: MsgInvalidCredentials}
	ErrUserExists         = &AuthError{Message: MsgUserExists}
	ErrSessionExpired     = &AuthError{Message: MsgSessionExpired}
	ErrNoProfile          = &AuthError{Message: MsgNoProfile}
)

// Unavailable wraps err as an AuthError whose message hides the cause.
func Unavailable(err error) error {
	return &AuthError{Message: MsgUnavailable, Err: err}
}

// AsAuthError finds the first *AuthError in err's chain, following pkg/errors Cause().
func AsAuthError(err error) (*AuthError, bool) {
	for err != nil {
		if ae, ok := err.(*AuthError); ok {
			return ae, true
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			return nil, false
		}
		err = cause.Cause()
	}
	return nil, false
}

// Message returns the human-readable message of err.
// Errors that are not an *AuthError read as MsgUnavailable.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ae, ok := AsAuthError(err); ok {
		return ae.Message
	}
	return MsgUnavailable
}

// IsAuthError reports whether err is (or wraps) target.
func IsAuthError(err error, target *AuthError) bool {
	ae, ok := AsAuthError(err)
	return ok && ae.Message == target.Message
}
