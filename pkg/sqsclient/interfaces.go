package sqsclient

//go:generate mockgen -destination=mock_sqsclient.go -package=sqsclient github.com/queueops/sqswatch/pkg/sqsclient API

import (
	"context"

	"github.com/queueops/sqswatch/pkg/models"
)

// API is the queue directory boundary: enumerate queues and read
// per-queue message counts. Implementations must be safe for concurrent
// GetCounts calls.
type API interface {
	// ListQueues returns every queue visible to the caller, in the
	// order the service reports them.
	ListQueues(ctx context.Context) ([]models.QueueRef, error)

	// GetCounts fetches the visible message count, plus the in-flight
	// count when includeInFlight is set.
	GetCounts(ctx context.Context, queue models.QueueRef, includeInFlight bool) (models.Counts, error)
}
