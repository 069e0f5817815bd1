package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/api/metrics"
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

// defaultToastTTL matches the 4-second auto-dismiss of the UI surface.
const defaultToastTTL = 4 * time.Second

const sweepInterval = time.Second

// ToastService keeps a FIFO queue of auto-expiring notifications per browsing
// context. Expiry runs in a background sweeper; Pending additionally filters
// so an expired toast is never handed out even between sweeps.
type ToastService struct {
	ttl time.Duration
	log zerolog.Logger
	now func() time.Time

	mu     sync.Mutex
	queues map[string][]domain.Toast
}

// NewToastService returns a ToastService with the given per-message lifetime.
// If ttl <= 0, defaultToastTTL is used.
func NewToastService(ttl time.Duration, log zerolog.Logger) *ToastService {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	return &ToastService{
		ttl:    ttl,
		log:    log,
		now:    time.Now,
		queues: make(map[string][]domain.Toast),
	}
}

var _ ports.Notifier = (*ToastService)(nil)

// Push enqueues a message for the given context and returns it.
func (t *ToastService) Push(contextID string, severity domain.ToastSeverity, message string) domain.Toast {
	toast := domain.Toast{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	t.queues[contextID] = append(t.queues[contextID], toast)
	t.mu.Unlock()

	metrics.ToastsPushedTotal.WithLabelValues(string(severity)).Inc()
	return toast
}

// Pending returns the live queue for a context in FIFO order.
func (t *ToastService) Pending(contextID string) []domain.Toast {
	cutoff := t.now().Add(-t.ttl)

	t.mu.Lock()
	defer t.mu.Unlock()

	queue := t.queues[contextID]
	live := make([]domain.Toast, 0, len(queue))
	for _, toast := range queue {
		if toast.CreatedAt.After(cutoff) {
			live = append(live, toast)
		}
	}
	return live
}

// Dismiss removes one message explicitly, ahead of its timeout.
func (t *ToastService) Dismiss(contextID, toastID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	queue := t.queues[contextID]
	for i, toast := range queue {
		if toast.ID == toastID {
			t.queues[contextID] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}

// Start launches the expiry sweeper. It stops when ctx is cancelled.
func (t *ToastService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.sweep()
			}
		}
	}()
}

func (t *ToastService) sweep() {
	cutoff := t.now().Add(-t.ttl)

	t.mu.Lock()
	defer t.mu.Unlock()

	for contextID, queue := range t.queues {
		live := queue[:0]
		for _, toast := range queue {
			if toast.CreatedAt.After(cutoff) {
				live = append(live, toast)
			} else {
				metrics.ToastsExpiredTotal.Inc()
			}
		}
		if len(live) == 0 {
			delete(t.queues, contextID)
		} else {
			t.queues[contextID] = live
		}
	}
}
