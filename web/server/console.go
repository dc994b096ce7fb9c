package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-haunted-house/pkg/core"
)

// ConsoleMessage is a log line forwarded to the browser console panel
type ConsoleMessage struct {
	Session   string    `json:"session"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by writing to stdout and a session's console channel
type WebLogger struct {
	sessionID   string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one viewer session
func NewWebLogger(sessionID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		sessionID:   sessionID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Printf("[%s] %s", wl.sessionID, message)

	if wl.consoleChan == nil {
		return
	}
	// Drop the message rather than stall rendering when the browser is slow
	select {
	case wl.consoleChan <- ConsoleMessage{
		Session:   wl.sessionID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     levelOf(message),
	}:
	default:
	}
}

// levelOf classifies a log line by its leading word
func levelOf(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.HasPrefix(lower, "warning"):
		return "warning"
	case strings.HasPrefix(lower, "error"), strings.HasPrefix(lower, "render error"):
		return "error"
	default:
		return "info"
	}
}
