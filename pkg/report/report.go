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

// Package report turns a cycle result into terminal output and the
// process exit status.
package report

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/queueops/sqswatch/pkg/models"
)

// Exit statuses. Codes 0 and 1 are the monitoring signal; configuration
// failures use ExitConfigError so scripts can tell them apart.
const (
	ExitNoMessages  = 0
	ExitHasMessages = 1
	ExitConfigError = 2
)

// Styles holds the lipgloss styles for report rendering.
type Styles struct {
	name    lipgloss.Style
	count   lipgloss.Style
	link    lipgloss.Style
	errLine lipgloss.Style
	summary lipgloss.Style
}

func newStyles() Styles {
	return Styles{
		name:    lipgloss.NewStyle().Bold(true),
		count:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		link:    lipgloss.NewStyle().Faint(true),
		errLine: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		summary: lipgloss.NewStyle().Faint(true),
	}
}

// plainStyles renders without escape codes, for piped output.
func plainStyles() Styles {
	return Styles{
		name:    lipgloss.NewStyle(),
		count:   lipgloss.NewStyle(),
		link:    lipgloss.NewStyle(),
		errLine: lipgloss.NewStyle(),
		summary: lipgloss.NewStyle(),
	}
}

// Formatter renders cycle results. Region feeds the console links.
type Formatter struct {
	includeInFlight bool
	region          string
	styles          Styles
}

// NewFormatter creates a Formatter. styled selects colored output; pass
// false when stdout is not a terminal.
func NewFormatter(includeInFlight bool, region string, styled bool) *Formatter {
	styles := plainStyles()
	if styled {
		styles = newStyles()
	}

	return &Formatter{
		includeInFlight: includeInFlight,
		region:          region,
		styles:          styles,
	}
}

// ExitCode returns 1 iff at least one queue holds messages under the
// formatter's in-flight setting. Fetch errors alone stay 0.
func (f *Formatter) ExitCode(result *models.CycleResult) int {
	if result.NonZeroCount(f.includeInFlight) > 0 {
		return ExitHasMessages
	}

	return ExitNoMessages
}

// Progress renders the running per-fetch status line.
func (f *Formatter) Progress(processed, total int) string {
	return fmt.Sprintf("Processed %s out of %s queues...",
		f.styles.name.Render(strconv.Itoa(processed)),
		f.styles.name.Render(strconv.Itoa(total)))
}

// Render produces the full report for one cycle: the filter summary if a
// pattern was active, one line per queue with messages (discovery order)
// each followed by its console link, error lines for failed fetches, and
// a closing summary.
func (f *Formatter) Render(result *models.CycleResult) string {
	var b strings.Builder

	if result.Filter != nil && result.Filter.Pattern != "" {
		fmt.Fprintf(&b, "Filtered %d queues to %d matching pattern '%s'\n",
			result.Filter.Total, result.Filter.Matched, result.Filter.Pattern)
	}

	listed := f.listedEntries(result)
	widths := f.measure(listed)
	errored := 0

	for i := range result.Counts {
		entry := &result.Counts[i]

		switch {
		case entry.Err != nil:
			errored++

			fmt.Fprintf(&b, "%s: %s\n",
				f.styles.name.Render(entry.Queue.Name),
				f.styles.errLine.Render("ERROR "+entry.Err.Error()))
		case entry.Effective(f.includeInFlight) > 0:
			b.WriteString(f.queueLine(entry, widths))
			fmt.Fprintf(&b, "    %s\n", f.styles.link.Render(f.consoleLink(entry.Queue)))
		}
	}

	if len(listed) == 0 && errored == 0 {
		b.WriteString(f.styles.name.Render("No messages found in any queue.") + "\n")
	}

	b.WriteString(f.summaryLine(result, listed, errored))

	return b.String()
}

type columnWidths struct {
	name     int
	visible  int
	inFlight int
	total    int
}

// listedEntries returns the entries that get their own line, in order.
func (f *Formatter) listedEntries(result *models.CycleResult) []*models.QueueCount {
	var listed []*models.QueueCount

	for i := range result.Counts {
		entry := &result.Counts[i]
		if entry.Err == nil && entry.Effective(f.includeInFlight) > 0 {
			listed = append(listed, entry)
		}
	}

	return listed
}

// measure finds the column widths for the current cycle so numbers line
// up across rows.
func (*Formatter) measure(listed []*models.QueueCount) columnWidths {
	var w columnWidths

	for _, entry := range listed {
		w.name = max(w.name, len(entry.Queue.Name))
		w.visible = max(w.visible, digits(entry.Visible))
		w.inFlight = max(w.inFlight, digits(entry.InFlight))
		w.total = max(w.total, digits(entry.Visible+entry.InFlight))
	}

	return w
}

func (f *Formatter) queueLine(entry *models.QueueCount, w columnWidths) string {
	// Pad before styling; escape codes would throw the column widths off.
	name := f.styles.name.Render(pad(entry.Queue.Name, w.name))
	visible := f.styles.count.Render(rightAlign(entry.Visible, w.visible) + " msgs")

	if !f.includeInFlight {
		return fmt.Sprintf("%s: %s\n", name, visible)
	}

	inFlight := f.styles.count.Render(rightAlign(entry.InFlight, w.inFlight) + " in-flight")
	total := f.styles.count.Render(rightAlign(entry.Visible+entry.InFlight, w.total) + " total")

	return fmt.Sprintf("%s: %s, %s, %s\n", name, visible, inFlight, total)
}

func (f *Formatter) summaryLine(result *models.CycleResult, listed []*models.QueueCount, errored int) string {
	totalMessages := 0
	for _, entry := range listed {
		totalMessages += entry.Effective(f.includeInFlight)
	}

	line := fmt.Sprintf("%d of %d queues with messages, %s total",
		len(listed), result.Processed, humanize.Comma(int64(totalMessages)))

	if errored > 0 {
		line += fmt.Sprintf(", %d failed", errored)
	}

	if result.Cancelled {
		line += " (cancelled)"
	}

	return f.styles.summary.Render(line) + "\n"
}

// consoleLink builds the AWS console URL for a queue. The queue URL is
// escaped whole into the fragment, matching what the console expects.
func (f *Formatter) consoleLink(queue models.QueueRef) string {
	return fmt.Sprintf("https://console.aws.amazon.com/sqs/v2/home?region=%s#/queues/%s",
		f.region, url.QueryEscape(queue.URL))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}

func rightAlign(n, width int) string {
	return fmt.Sprintf("%*d", width, n)
}

func digits(n int) int {
	return len(strconv.Itoa(n))
}
