package notify

import (
	"context"
	"sync"

	"docpipe/internal/domain"
)

// MemoryNotifier records notifications in memory. Used by tests and as a
// no-delivery fallback when no webhook is configured.
type MemoryNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

// Sent returns a copy of all recorded notifications.
func (n *MemoryNotifier) Sent() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}
