package port

import (
	"context"

	"docpipe/internal/domain"
)

// Notifier delivers a pipeline status message to an external sink.
// Delivery and ordering guarantees are the sink's concern.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
