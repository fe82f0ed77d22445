package relay

import (
	"log/slog"
	"sync"
)

// Broadcaster fans a received message out to every registered session
// except its originator.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger

	mu        sync.Mutex
	received  int64
	delivered int64
	errors    int64
}

// NewBroadcaster creates a broadcaster over the given registry.
func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}

	return &Broadcaster{
		registry: registry,
		logger:   logger,
	}
}

// Broadcast delivers data to every session in the current registry
// snapshot other than origin. A failed send is logged, counted, and
// terminates that recipient; delivery to the remaining recipients
// continues. Delivery order across distinct recipients is unspecified.
func (b *Broadcaster) Broadcast(origin *Session, data []byte) {
	b.mu.Lock()
	b.received++
	b.mu.Unlock()

	for _, target := range b.registry.Snapshot() {
		if target.id == origin.id {
			continue
		}

		if err := target.Send(data); err != nil {
			b.logger.Warn("delivery failed, terminating recipient",
				"session", target.id,
				"remote", target.RemoteAddr(),
				"error", err,
			)
			b.mu.Lock()
			b.errors++
			b.mu.Unlock()

			// Failure is isolated to this recipient; its own receive
			// loop observes the close and removes it from the registry.
			target.Terminate()
			continue
		}

		b.mu.Lock()
		b.delivered++
		b.mu.Unlock()
	}
}

// Stats returns current fan-out counters.
func (b *Broadcaster) Stats() BroadcastStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BroadcastStats{
		MessagesReceived:  b.received,
		MessagesDelivered: b.delivered,
		DeliveryErrors:    b.errors,
	}
}
