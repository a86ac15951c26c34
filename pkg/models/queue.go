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

// Package models defines the value types shared across the sqswatch packages.
package models

import "strings"

// QueueRef identifies a single queue as discovered from the service.
// Immutable once listed; Name is the last path segment of the URL.
type QueueRef struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// NewQueueRef derives the short name from a queue URL.
func NewQueueRef(url string) QueueRef {
	name := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		name = url[idx+1:]
	}

	return QueueRef{URL: url, Name: name}
}

// Counts holds the message-count attributes fetched for one queue.
type Counts struct {
	Visible int `json:"visible"`

	// InFlight is messages delivered but not yet acknowledged. Only
	// meaningful when InFlightKnown is true.
	InFlight      int  `json:"in_flight"`
	InFlightKnown bool `json:"in_flight_known"`
}

// QueueCount is the per-queue outcome of one fetch cycle. Err is set when
// the fetch failed; counts are then zero and must not be interpreted.
type QueueCount struct {
	Queue QueueRef `json:"queue"`
	Counts
	Err error `json:"-"`
}

// Effective returns the count used for listing and exit-code decisions:
// visible messages, plus in-flight when that was requested and fetched.
func (q *QueueCount) Effective(includeInFlight bool) int {
	if q.Err != nil {
		return 0
	}

	total := q.Visible
	if includeInFlight {
		total += q.InFlight
	}

	return total
}

// FilterSummary reports how the name pattern narrowed the discovered set.
// Carried on the CycleResult so the formatter can print it; the filter
// itself never writes to the terminal.
type FilterSummary struct {
	Total   int    `json:"total"`
	Matched int    `json:"matched"`
	Pattern string `json:"pattern"`
}

// CycleResult is the complete outcome of one enumerate-filter-fetch pass.
// Counts preserves discovery order regardless of fetch completion order.
// A fresh CycleResult is produced every cycle; nothing is reused.
type CycleResult struct {
	Counts    []QueueCount   `json:"counts"`
	Filter    *FilterSummary `json:"filter,omitempty"`
	Processed int            `json:"processed"`
	Cancelled bool           `json:"cancelled"`
}

// ErrorCount returns how many queues failed to fetch this cycle.
func (r *CycleResult) ErrorCount() int {
	n := 0

	for i := range r.Counts {
		if r.Counts[i].Err != nil {
			n++
		}
	}

	return n
}

// NonZeroCount returns how many queues hold messages under the given
// in-flight setting. Fetch errors never count as "has messages".
func (r *CycleResult) NonZeroCount(includeInFlight bool) int {
	n := 0

	for i := range r.Counts {
		if r.Counts[i].Effective(includeInFlight) > 0 {
			n++
		}
	}

	return n
}
