package app

import (
	"time"

	"github.com/hylla/flowboard/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Observer is notified after each accepted mutation publishes a snapshot.
// It runs while the service holds its write lock and must not call back
// into the service.
type Observer interface {
	BoardPublished(board domain.Board, event domain.ChangeEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(domain.Board, domain.ChangeEvent)

// BoardPublished calls f.
func (f ObserverFunc) BoardPublished(board domain.Board, event domain.ChangeEvent) {
	f(board, event)
}
