// Package sink publishes finished scoring runs to files, stores and Kafka.
package sink

import (
	"context"

	"wallet-credit-score/internal/domain"
)

// Sink receives the output of a finished run.
// Publish must not modify out; sinks run concurrently on the same value.
type Sink interface {
	Name() string
	Publish(ctx context.Context, out *domain.RunOutput) error
}
