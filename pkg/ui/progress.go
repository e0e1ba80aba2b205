package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/types"
)

const progressBarWidth = 20

// ProgressReporter prints one line per processed file during deployment.
// Terminal mode adds an inline bar, text mode prints a plain counter,
// JSON mode stays silent so the result document is the only output.
type ProgressReporter struct {
	out     io.Writer
	format  Format
	total   int
	current int
}

// NewProgressReporter creates a reporter writing to out in the given
// format
func NewProgressReporter(out io.Writer, format Format) *ProgressReporter {
	return &ProgressReporter{out: out, format: format}
}

// Begin records the number of files the run will process
func (p *ProgressReporter) Begin(total int) {
	p.total = total
	p.current = 0
}

// File reports one processed file
func (p *ProgressReporter) File(res types.FileResult) {
	p.current++
	if p.format == FormatJSON {
		return
	}

	suffix := res.Dest
	if res.Reason != "" {
		suffix = fmt.Sprintf("%s (%s)", res.Dest, res.Reason)
	}

	if p.format == FormatTerminal {
		fmt.Fprintf(p.out, "[%s] %d/%d %s\n", pterm.Info.MessageStyle.Sprint(p.bar()), p.current, p.total, suffix)
		return
	}
	fmt.Fprintf(p.out, "[%d/%d] %s %s\n", p.current, p.total, res.Action, suffix)
}

// End completes the progress display
func (p *ProgressReporter) End() {
	if p.format == FormatJSON {
		return
	}
	fmt.Fprintln(p.out)
}

func (p *ProgressReporter) bar() string {
	filled := 0
	if p.total > 0 {
		filled = p.current * progressBarWidth / p.total
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}

// LogReporter routes deployment progress to the structured log instead
// of the terminal. Silent installs use this so stdout stays empty.
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter creates a reporter that logs each file event
func NewLogReporter() *LogReporter {
	return &LogReporter{logger: logging.GetLogger("deploy.progress")}
}

// Begin logs the start of a deployment
func (l *LogReporter) Begin(total int) {
	l.logger.Debug().Int("files", total).Msg("deployment started")
}

// File logs one processed file
func (l *LogReporter) File(res types.FileResult) {
	l.logger.Debug().
		Str("dest", res.Dest).
		Str("action", string(res.Action)).
		Str("reason", res.Reason).
		Msg("file processed")
}

// End logs the end of a deployment
func (l *LogReporter) End() {
	l.logger.Debug().Msg("deployment finished")
}
