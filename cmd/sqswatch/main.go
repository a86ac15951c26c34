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

// sqswatch lists SQS queues that currently hold messages, once or on a
// refresh timer with live keyboard control.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/queueops/sqswatch/pkg/config"
	"github.com/queueops/sqswatch/pkg/fetcher"
	"github.com/queueops/sqswatch/pkg/filter"
	"github.com/queueops/sqswatch/pkg/logger"
	"github.com/queueops/sqswatch/pkg/models"
	"github.com/queueops/sqswatch/pkg/report"
	"github.com/queueops/sqswatch/pkg/sqsclient"
	"github.com/queueops/sqswatch/pkg/watch"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(report.ExitConfigError)
	}

	os.Exit(code)
}

// watchValue lets --watch act as a bare switch (default interval) or
// carry a value: --watch or --watch=90.
type watchValue struct {
	enabled bool
	seconds int
}

func (w *watchValue) String() string {
	if !w.enabled {
		return ""
	}

	return strconv.Itoa(w.seconds)
}

func (w *watchValue) Set(s string) error {
	w.enabled = true

	if s == "true" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("watch interval must be a number of seconds: %w", err)
	}

	w.seconds = n

	return nil
}

func (*watchValue) IsBoolFlag() bool { return true }

func run() (int, error) {
	// Developer convenience: AWS credentials/region from a local .env.
	_ = godotenv.Load()

	watchFlag := &watchValue{seconds: 60}
	flag.Var(watchFlag, "watch", "refresh every n seconds (default 60 when given bare); accepts --watch=n")
	flag.Var(watchFlag, "w", "shorthand for --watch")

	workers := flag.Int("workers", models.DefaultWorkers, "number of parallel fetch workers")
	flag.IntVar(workers, "t", models.DefaultWorkers, "shorthand for --workers")

	includeInFlight := flag.Bool("include-in-flight", false, "count messages in flight (delivered, unacknowledged) too")
	flag.BoolVar(includeInFlight, "f", false, "shorthand for --include-in-flight")

	pattern := flag.String("pattern", "", "only queues whose name matches this case-insensitive regex")
	flag.StringVar(pattern, "p", "", "shorthand for --pattern")

	configPath := flag.String("config", "", "path to optional JSON config file")
	logLevel := flag.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := buildConfig(ctx, *configPath, watchFlag, *workers, *includeInFlight, *pattern)
	if err != nil {
		return 0, err
	}

	logCfg := cfg.Logging
	if *logLevel != "" {
		logCfg = &logger.Config{Level: *logLevel}
	}

	log, err := logger.New(logCfg, "sqswatch")
	if err != nil {
		return 0, fmt.Errorf("invalid log config: %w", err)
	}

	// Pattern compilation happens before any network activity; a bad
	// regex must never cost a fetch.
	flt, err := filter.New(cfg.Pattern)
	if err != nil {
		return 0, err
	}

	client, err := sqsclient.NewClient(ctx, log)
	if err != nil {
		return 0, err
	}

	notice("Reading list of queues...")

	queues, err := client.ListQueues(ctx)

	clearNotice()

	if err != nil {
		return 0, err
	}

	filtered, summary := flt.Apply(queues)

	coordinator, err := fetcher.New(client, cfg.Workers, cfg.IncludeInFlight, log)
	if err != nil {
		return 0, err
	}

	formatter := report.NewFormatter(cfg.IncludeInFlight, client.Region(),
		term.IsTerminal(int(os.Stdout.Fd())))

	opts := watch.Options{
		Queues:   filtered,
		Filter:   &summary,
		Watch:    cfg.Watch,
		Interval: time.Duration(cfg.Interval),
		Out:      os.Stdout,
		Logger:   log,
	}

	if cfg.Watch && term.IsTerminal(int(os.Stdin.Fd())) {
		commands, restore, keyErr := watch.ListenKeys(log)
		if keyErr != nil {
			log.Warn().Err(keyErr).Msg("Keyboard control unavailable")
		} else {
			defer restore()

			opts.Commands = commands
			opts.Out = watch.NewRawWriter(os.Stdout)
		}
	}

	scheduler := watch.NewScheduler(coordinator, formatter, opts)

	return scheduler.Run(ctx), nil
}

// buildConfig layers defaults, the optional config file, and explicit
// flags, then validates the result.
func buildConfig(ctx context.Context, path string, watchFlag *watchValue,
	workers int, includeInFlight bool, pattern string) (*models.Config, error) {
	cfg := &models.Config{
		Workers:  models.DefaultWorkers,
		Interval: models.DefaultInterval,
	}

	if path != "" {
		if err := config.NewConfig(nil).LoadAndValidate(ctx, path, cfg); err != nil {
			return nil, err
		}
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if explicit["workers"] || explicit["t"] {
		cfg.Workers = workers
	}

	if explicit["include-in-flight"] || explicit["f"] {
		cfg.IncludeInFlight = includeInFlight
	}

	if explicit["pattern"] || explicit["p"] {
		cfg.Pattern = pattern
	}

	if watchFlag.enabled {
		cfg.Watch = true
		cfg.Interval = models.Duration(time.Duration(watchFlag.seconds) * time.Second)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func notice(msg string) {
	fmt.Fprint(os.Stdout, msg)
}

func clearNotice() {
	fmt.Fprint(os.Stdout, "\r"+strings.Repeat(" ", 60)+"\r")
}
