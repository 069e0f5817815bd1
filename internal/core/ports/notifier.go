package ports

import "github.com/moovefit/session-gateway/internal/core/domain"

// Notifier queues transient, auto-expiring messages for a browsing context.
// Display order is FIFO; duplicates are not suppressed.
type Notifier interface {
	Push(contextID string, severity domain.ToastSeverity, message string) domain.Toast
	Pending(contextID string) []domain.Toast
	Dismiss(contextID, toastID string)
}
