package errors

import (
	"context"
)

// Tracker reports failures to an external service (Sentry) so tool and model
// errors survive beyond the console session
type Tracker interface {
	// CaptureError sends an error with tags such as tool name and error kind
	CaptureError(ctx context.Context, err error, tags map[string]string) error

	// CaptureMessage sends a plain message
	CaptureMessage(ctx context.Context, message string, level Level, tags map[string]string) error

	// AddBreadcrumb records a step of the current turn (advisor reply, tool call)
	AddBreadcrumb(ctx context.Context, message string, category string, level Level, data map[string]interface{})

	// Flush waits for pending events to be sent
	Flush(ctx context.Context) error
}

// Level represents the severity level of an error or message
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// String returns the string representation of the level
func (l Level) String() string {
	return string(l)
}
