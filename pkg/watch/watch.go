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

// Package watch runs fetch-and-report cycles once or on a timer, with
// interactive refresh and quit control.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/queueops/sqswatch/pkg/fetcher"
	"github.com/queueops/sqswatch/pkg/logger"
	"github.com/queueops/sqswatch/pkg/models"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Command is a control input from the keyboard listener.
type Command int

const (
	// CommandRefresh skips the remaining wait and starts the next cycle.
	// Coalesced to a no-op while a cycle is already running.
	CommandRefresh Command = iota + 1
	// CommandQuit cancels any in-flight cycle cooperatively and stops
	// the scheduler.
	CommandQuit
)

// Fetcher runs the parallel count fetch for one cycle.
type Fetcher interface {
	Fetch(ctx context.Context, queues []models.QueueRef, onProgress fetcher.ProgressFunc) models.CycleResult
}

// Reporter renders cycle results and derives the exit status.
type Reporter interface {
	Render(result *models.CycleResult) string
	ExitCode(result *models.CycleResult) int
	Progress(processed, total int) string
}

// Options configures a Scheduler. Queues and Filter are fixed for the
// process lifetime; enumeration happens once, before the scheduler runs.
type Options struct {
	Queues   []models.QueueRef
	Filter   *models.FilterSummary
	Watch    bool
	Interval time.Duration
	Commands <-chan Command
	Clock    Clock
	Out      io.Writer
	Logger   logger.Logger
}

// Scheduler drives the cycle loop. Without watch mode it runs exactly
// one cycle; with it, cycles repeat until quit, each separated by a
// countdown that both the timer and the keyboard can cut short.
type Scheduler struct {
	fetcher  Fetcher
	reporter Reporter
	opts     Options
}

const clearLineWidth = 60

func NewScheduler(f Fetcher, r Reporter, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}

	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger()
	}

	return &Scheduler{fetcher: f, reporter: r, opts: opts}
}

// Run executes the cycle loop and returns the process exit code: the
// code of the last fully completed cycle, or 0 if none completed before
// the user quit.
func (s *Scheduler) Run(ctx context.Context) int {
	lastExit := 0

	for {
		result, quit := s.runCycle(ctx)

		if !result.Cancelled {
			if s.opts.Watch {
				s.clearScreen()
			}

			fmt.Fprint(s.opts.Out, s.reporter.Render(result))

			lastExit = s.reporter.ExitCode(result)
		}

		if quit {
			s.sayGoodbye()
			return lastExit
		}

		if !s.opts.Watch {
			return lastExit
		}

		switch s.wait(ctx) {
		case waitQuit:
			s.sayGoodbye()
			return lastExit
		case waitRefresh:
			s.opts.Logger.Debug().Msg("Refresh forced by user")
		case waitElapsed:
		}
	}
}

type waitOutcome int

const (
	waitElapsed waitOutcome = iota
	waitRefresh
	waitQuit
)

// runCycle fetches counts for the configured queues while staying
// responsive to quit. Returns the cycle result and whether the user quit
// during it; a quit cancels the cycle context and then waits for the
// coordinator to hand back its partial result.
func (s *Scheduler) runCycle(ctx context.Context) (*models.CycleResult, bool) {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan models.CycleResult, 1)

	go func() {
		result := s.fetcher.Fetch(cycleCtx, s.opts.Queues, s.progress)
		result.Filter = s.opts.Filter
		done <- result
	}()

	quit := false
	ctxDone := ctx.Done()

	for {
		select {
		case result := <-done:
			s.clearLine()
			return &result, quit
		case cmd := <-s.opts.Commands:
			// Refresh while already fetching is a no-op.
			if cmd == CommandQuit && !quit {
				quit = true

				cancel()
			}
		case <-ctxDone:
			quit = true
			ctxDone = nil
		}
	}
}

// wait blocks until the interval elapses, the user forces a refresh, or
// the user quits, rendering a per-second countdown.
func (s *Scheduler) wait(ctx context.Context) waitOutcome {
	ticker := s.opts.Clock.Ticker(time.Second)
	defer ticker.Stop()

	remaining := int(s.opts.Interval / time.Second)
	width := len(strconv.Itoa(remaining))

	for remaining > 0 {
		fmt.Fprintf(s.opts.Out, "\rRefresh in %*d seconds (press 'r' to refresh, 'q' to quit)",
			width, remaining)

		select {
		case <-ctx.Done():
			s.clearLine()
			return waitQuit
		case <-ticker.Chan():
			remaining--
		case cmd := <-s.opts.Commands:
			s.clearLine()

			if cmd == CommandQuit {
				return waitQuit
			}

			return waitRefresh
		}
	}

	s.clearLine()

	return waitElapsed
}

func (s *Scheduler) progress(processed, total int) {
	fmt.Fprintf(s.opts.Out, "\r%s", s.reporter.Progress(processed, total))
}

func (s *Scheduler) clearLine() {
	fmt.Fprint(s.opts.Out, "\r"+strings.Repeat(" ", clearLineWidth)+"\r")
}

func (s *Scheduler) clearScreen() {
	fmt.Fprint(s.opts.Out, "\033[2J\033[H")
}

func (s *Scheduler) sayGoodbye() {
	if s.opts.Watch {
		fmt.Fprintln(s.opts.Out, "Program terminated by user.")
	}

	s.opts.Logger.Info().Msg("Terminated by user")
}
