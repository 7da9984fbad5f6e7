package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// TerminalNotifier prints notifications to the terminal. It implements
// NotificationChannel so it can be mixed with remote channels.
type TerminalNotifier struct {
	mu           sync.Mutex
	out          io.Writer
	enabled      bool
	colorEnabled bool
}

// NewTerminalNotifier creates a terminal channel writing to stdout.
func NewTerminalNotifier(colorEnabled bool) *TerminalNotifier {
	return &TerminalNotifier{
		out:          os.Stdout,
		enabled:      true,
		colorEnabled: colorEnabled,
	}
}

// Name returns the channel name.
func (tn *TerminalNotifier) Name() string { return "terminal" }

// IsEnabled reports whether the channel is enabled.
func (tn *TerminalNotifier) IsEnabled() bool {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	return tn.enabled
}

// SetEnabled enables or disables terminal output.
func (tn *TerminalNotifier) SetEnabled(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.enabled = enabled
}

// Send prints the notification.
func (tn *TerminalNotifier) Send(ctx context.Context, n Notification) error {
	tn.mu.Lock()
	defer tn.mu.Unlock()

	prefix := tn.prefix(n.Type)
	_, err := fmt.Fprintf(tn.out, "%s %s: %s\n", prefix, n.Title, n.Message)
	return err
}

func (tn *TerminalNotifier) prefix(t NotificationType) string {
	if !tn.colorEnabled {
		return "[" + string(t) + "]"
	}
	switch t {
	case NotificationTrade:
		return "\033[36m[trade]\033[0m"
	case NotificationPlan:
		return "\033[32m[plan]\033[0m"
	case NotificationError:
		return "\033[31m[error]\033[0m"
	default:
		return "\033[90m[info]\033[0m"
	}
}
