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

// Package filter narrows a discovered queue set by a name pattern.
package filter

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/queueops/sqswatch/pkg/models"
)

// ErrInvalidPattern is returned when the pattern is not a valid regular
// expression. Fatal: reported before any fetch happens.
var ErrInvalidPattern = errors.New("invalid queue name pattern")

// Filter matches queue short names against a case-insensitive pattern.
// The zero pattern matches everything.
type Filter struct {
	pattern string
	re      *regexp.Regexp
}

// New compiles pattern case-insensitively. An empty pattern yields a
// match-all filter.
func New(pattern string) (*Filter, error) {
	if pattern == "" {
		return &Filter{}, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}

	return &Filter{pattern: pattern, re: re}, nil
}

// Apply returns the queues whose short name matches, preserving order,
// plus a summary for the report. Matching never looks at the full URL;
// account IDs and region segments must not influence the result.
func (f *Filter) Apply(queues []models.QueueRef) ([]models.QueueRef, models.FilterSummary) {
	summary := models.FilterSummary{
		Total:   len(queues),
		Pattern: f.pattern,
	}

	if f.re == nil {
		summary.Matched = len(queues)
		return queues, summary
	}

	matched := make([]models.QueueRef, 0, len(queues))

	for _, q := range queues {
		if f.re.MatchString(q.Name) {
			matched = append(matched, q)
		}
	}

	summary.Matched = len(matched)

	return matched, summary
}
