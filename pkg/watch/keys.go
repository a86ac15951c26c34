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

package watch

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/queueops/sqswatch/pkg/logger"
)

// ctrlC arrives as a byte once the terminal is raw; treat it like quit.
const ctrlC = 0x03

// ListenKeys puts stdin into raw mode and emits a Command per recognized
// key, no newline required. The returned restore function must run before
// the process exits so the terminal is usable afterwards.
func ListenKeys(log logger.Logger) (<-chan Command, func(), error) {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}

	commands := readKeys(os.Stdin, log)
	restore := func() {
		if err := term.Restore(fd, oldState); err != nil {
			log.Warn().Err(err).Msg("Failed to restore terminal state")
		}
	}

	return commands, restore, nil
}

// readKeys maps key bytes from r onto the command channel. The channel
// holds a single pending command; further keys are dropped until it is
// consumed, which coalesces repeated refresh presses.
func readKeys(r io.Reader, log logger.Logger) <-chan Command {
	commands := make(chan Command, 1)

	go func() {
		buf := make([]byte, 1)

		for {
			n, err := r.Read(buf)
			if err != nil {
				log.Debug().Err(err).Msg("Keyboard listener stopped")
				return
			}

			if n == 0 {
				continue
			}

			var cmd Command

			switch buf[0] {
			case 'r', 'R':
				cmd = CommandRefresh
			case 'q', 'Q', ctrlC:
				cmd = CommandQuit
			default:
				continue
			}

			if cmd == CommandQuit {
				// Quit must not be lost to coalescing; the scheduler
				// always drains the channel, so this send completes.
				commands <- cmd
				return
			}

			select {
			case commands <- cmd:
			default:
			}
		}
	}()

	return commands
}

// RawWriter translates bare newlines to CRLF so multi-line output stays
// aligned while the terminal is in raw mode.
type RawWriter struct {
	w io.Writer
}

func NewRawWriter(w io.Writer) *RawWriter {
	return &RawWriter{w: w}
}

func (r *RawWriter) Write(p []byte) (int, error) {
	out := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))

	if _, err := r.w.Write(out); err != nil {
		return 0, err
	}

	return len(p), nil
}
