package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	source      string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a web logger whose messages are tagged with source
func NewWebLogger(source string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		source:      source,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Print(message)

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Source:    wl.source,
			Message:   message,
			Timestamp: time.Now(),
			Level:     messageLevel(message),
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}

func messageLevel(message string) string {
	switch {
	case strings.HasPrefix(message, "WARNING"):
		return "warning"
	case strings.HasPrefix(message, "ERROR"):
		return "error"
	default:
		return "info"
	}
}

// broadcaster fans values out to any number of listeners. A listener that
// is not ready misses the value rather than blocking the sender.
type broadcaster[T any] struct {
	mu        sync.Mutex
	listeners map[chan T]struct{}
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{listeners: make(map[chan T]struct{})}
}

func (b *broadcaster[T]) listen(buffer int) (<-chan T, func()) {
	ch := make(chan T, buffer)
	b.mu.Lock()
	b.listeners[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.listeners[ch]; ok {
			delete(b.listeners, ch)
			close(ch)
		}
	}
}

func (b *broadcaster[T]) publish(value T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.listeners {
		select {
		case ch <- value:
		default:
		}
	}
}
