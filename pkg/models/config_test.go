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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))
}

func TestDuration_UnmarshalNumberIsSeconds(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`30`), &d))
	assert.Equal(t, 30*time.Second, time.Duration(d))
}

func TestDuration_UnmarshalRejectsOtherTypes(t *testing.T) {
	var d Duration

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"not a duration"`), &d))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "defaults are valid",
			cfg:  Config{Workers: DefaultWorkers, Interval: DefaultInterval},
		},
		{
			name:    "zero workers rejected",
			cfg:     Config{Workers: 0},
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "negative workers rejected",
			cfg:     Config{Workers: -2},
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "sub-second watch interval rejected",
			cfg:     Config{Workers: 1, Watch: true, Interval: Duration(500 * time.Millisecond)},
			wantErr: ErrInvalidInterval,
		},
		{
			name: "interval ignored without watch",
			cfg:  Config{Workers: 1, Interval: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
