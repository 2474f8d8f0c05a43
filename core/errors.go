package core

// FieldError names the input field a validation failure belongs to.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a 400-class failure; Fields, when set, is rendered as a field map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (verr ValidationError) Error() string {
	if verr.Err == nil {
		return ""
	}
	return verr.Err.Error()
}

// shutdownError reports a condition the API cannot recover from while running,
// such as a closed database pool.
type shutdownError struct {
	reason string
}

// NewShutdownError returns an error that asks the API server to shut down gracefully.
func NewShutdownError(reason string) error {
	return &shutdownError{reason: reason}
}

func (s *shutdownError) Error() string { return "shutdown: " + s.reason }

// IsShutdown reports whether err is, or wraps, a shutdown error.
func IsShutdown(err error) bool {
	for err != nil {
		if _, ok := err.(*shutdownError); ok {
			return true
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = cause.Cause()
	}
	return false
}
