package domain

import "time"

// ToastSeverity classifies a transient user-visible message.
type ToastSeverity string

const (
	ToastSuccess ToastSeverity = "success"
	ToastError   ToastSeverity = "error"
	ToastInfo    ToastSeverity = "info"
	ToastWarning ToastSeverity = "warning"
)

// Toast is a queued, auto-expiring message shown to one browsing context.
type Toast struct {
	ID        string        `json:"id"`
	Severity  ToastSeverity `json:"severity"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}
