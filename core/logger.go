package core

// Logger is the app-wide logger. Implementations may ship entries to an
// error tracking service in addition to stdout. Extra args can be an error,
// a map[string]interface{} of extras or the acting user.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
