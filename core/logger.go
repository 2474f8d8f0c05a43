package core

// Logger is any service that can log & report messages.
// args may hold errors, map[string]interface{} extras and the current profile.Profile.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
