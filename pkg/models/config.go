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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/queueops/sqswatch/pkg/logger"
)

// Duration wraps time.Duration so JSON config files can use either a
// duration string ("90s") or a plain number of seconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value) * time.Second)
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
}

var (
	ErrInvalidWorkers  = errors.New("workers must be at least 1")
	ErrInvalidInterval = errors.New("watch interval must be at least 1 second")
)

// Config is the process-lifetime configuration. Immutable after startup;
// nothing here changes between watch cycles.
type Config struct {
	Workers         int            `json:"workers"`
	Pattern         string         `json:"pattern"`
	IncludeInFlight bool           `json:"include_in_flight"`
	Watch           bool           `json:"watch"`
	Interval        Duration       `json:"interval"`
	Region          string         `json:"region"`
	Logging         *logger.Config `json:"logging,omitempty"`
}

const (
	DefaultWorkers  = 4
	DefaultInterval = Duration(60 * time.Second)
)

// Validate checks the configuration bounds. Pattern validity is checked
// separately where the filter is compiled, still before any fetch.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}

	if c.Watch && time.Duration(c.Interval) < time.Second {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, time.Duration(c.Interval))
	}

	return nil
}
