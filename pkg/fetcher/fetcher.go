/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package fetcher fans per-queue count fetches out over a bounded worker
// pool and collects them back in discovery order.
package fetcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/queueops/sqswatch/pkg/logger"
	"github.com/queueops/sqswatch/pkg/models"
	"github.com/queueops/sqswatch/pkg/sqsclient"
)

// ProgressFunc is invoked after each completed fetch with the number of
// queues processed so far and the total dispatched. Calls are serialized
// and processed is strictly increasing.
type ProgressFunc func(processed, total int)

// Coordinator distributes count fetches across a fixed number of workers.
// Workers pull from a shared work queue until it drains, so slow queues
// never starve the rest of the pool.
type Coordinator struct {
	client          sqsclient.API
	workers         int
	includeInFlight bool
	logger          logger.Logger
}

// New creates a Coordinator. workers must be at least 1.
func New(client sqsclient.API, workers int, includeInFlight bool, log logger.Logger) (*Coordinator, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidWorkers, workers)
	}

	return &Coordinator{
		client:          client,
		workers:         workers,
		includeInFlight: includeInFlight,
		logger:          log,
	}, nil
}

// Fetch runs one cycle over the given queues. A per-queue failure is
// recorded on its entry and never aborts the cycle. When ctx is cancelled
// the coordinator stops dispatching, lets in-flight fetches finish, and
// returns the partial result with Cancelled set.
func (c *Coordinator) Fetch(ctx context.Context, queues []models.QueueRef, onProgress ProgressFunc) models.CycleResult {
	total := len(queues)
	cycleID := uuid.NewString()

	result := models.CycleResult{
		Counts: make([]models.QueueCount, total),
	}
	for i, q := range queues {
		result.Counts[i].Queue = q
	}

	if total == 0 {
		return result
	}

	c.logger.Debug().
		Str("cycle_id", cycleID).
		Int("queues", total).
		Int("workers", c.workers).
		Msg("Starting fetch cycle")

	// Results are indexed by discovery position, so completion order
	// never affects display order.
	workCh := make(chan int, total)
	for i := range queues {
		workCh <- i
	}
	close(workCh)

	var (
		mu        sync.Mutex
		processed int
		wg        sync.WaitGroup
	)

	workers := c.workers
	if workers > total {
		workers = total
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range workCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				c.fetchOne(ctx, &result.Counts[idx])

				mu.Lock()
				processed++
				if onProgress != nil {
					onProgress(processed, total)
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	result.Processed = processed
	result.Cancelled = ctx.Err() != nil

	c.logger.Debug().
		Str("cycle_id", cycleID).
		Int("processed", processed).
		Int("errors", result.ErrorCount()).
		Bool("cancelled", result.Cancelled).
		Msg("Fetch cycle finished")

	return result
}

func (c *Coordinator) fetchOne(ctx context.Context, entry *models.QueueCount) {
	counts, err := c.client.GetCounts(ctx, entry.Queue, c.includeInFlight)
	if err != nil {
		entry.Err = err
		c.logger.Warn().
			Err(err).
			Str("queue", entry.Queue.Name).
			Msg("Queue fetch failed")

		return
	}

	entry.Counts = counts
}
