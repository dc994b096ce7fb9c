package server

import (
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
	}
	return ConsoleMessage{}
}

func TestWebLogger_ForwardsToConsole(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("session-1", messageChan)

	logger.Printf("Built %s house with %d graves\n", "minimal", 50)

	msg := receive(t, messageChan)
	if msg.Message != "Built minimal house with 50 graves\n" {
		t.Errorf("Unexpected message %q", msg.Message)
	}
	if msg.Session != "session-1" {
		t.Errorf("Expected session 'session-1', got '%s'", msg.Session)
	}
	if msg.Level != "info" {
		t.Errorf("Expected level 'info', got '%s'", msg.Level)
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
	}
}

func TestWebLogger_Levels(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Loading textures\n", "info"},
		{"Warning: texture door/color.jpg failed to load\n", "warning"},
		{"Error reading event: bad payload\n", "error"},
		{"Render error: failed to render frame 3\n", "error"},
		{"Ignoring input: unknown event\n", "info"},
	}

	messageChan := make(chan ConsoleMessage, len(tests))
	logger := NewWebLogger("session-levels", messageChan)
	for _, tt := range tests {
		logger.Printf("%s", tt.message)
		msg := receive(t, messageChan)
		if msg.Level != tt.level {
			t.Errorf("%q: expected level '%s', got '%s'", tt.message, tt.level, msg.Level)
		}
	}
}

func TestWebLogger_DropsWhenChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("session-full", messageChan)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			logger.Printf("frame %d\n", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full channel")
	}

	msg := receive(t, messageChan)
	if msg.Message != "frame 0\n" {
		t.Errorf("Expected the first message to be kept, got %q", msg.Message)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("session-nil", nil)

	// Must not panic
	logger.Printf("Test message with nil channel\n")
}
