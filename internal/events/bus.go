// Package events defines the domain events the modules publish, and
// re-exports the platform bus so modules need a single events import.
package events

import (
	platformevents "retainly_backend/platform/events"
	"retainly_backend/platform/logger"
)

// InMemoryBus aliases the platform bus implementation.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
