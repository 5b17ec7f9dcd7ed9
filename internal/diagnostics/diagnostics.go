// Package diagnostics collects and renders compiler diagnostics. Every
// report is typed, located and severity-graded; entries are retained up to a
// fixed cap and printed the moment they arrive. A Fatal report terminates
// the process after cleanup.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"chppc/colors"
)

// Kind partitions the failure space.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
	CodeGen
	IO
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "Lexical"
	case Syntax:
		return "Syntax"
	case Semantic:
		return "Semantic"
	case CodeGen:
		return "CodeGen"
	case IO:
		return "IO"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Severity governs propagation: warnings continue unchanged, errors continue
// but fail the build, fatal stops immediately.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal Error"
	default:
		return "Unknown"
	}
}

func severityColor(s Severity) colors.COLOR {
	switch s {
	case Warning:
		return colors.YELLOW
	case Error, Fatal:
		return colors.RED
	default:
		return colors.RESET
	}
}

// Diagnostic is one recorded report.
type Diagnostic struct {
	Kind       Kind
	Severity   Severity
	Filename   string
	Line       int
	Column     int
	Message    string
	Suggestion string

	// Where in the compiler the report originated (shown in debug mode).
	ReporterFile string
	ReporterLine int
}

// MaxDiagnostics is the retention cap; further reports are dropped after a
// single notice.
const MaxDiagnostics = 500

// Reporter collects diagnostics for one compiler run.
type Reporter struct {
	mu         sync.Mutex
	entries    []*Diagnostic
	warnCount  int
	errorCount int
	fatalCount int
	overflowed bool

	useColors bool
	debug     bool
	out       io.Writer
	logFile   *os.File
	exit      func(int)
}

// NewReporter creates a reporter writing to stderr. When createLogFile is
// set, a timestamped log file is opened next to the working directory; a
// failed open degrades to a warning and the reporter continues without it.
func NewReporter(createLogFile bool) *Reporter {
	r := &Reporter{
		entries:   make([]*Diagnostic, 0),
		useColors: terminalSupportsColor(),
		out:       os.Stderr,
		exit:      os.Exit,
	}

	if createLogFile {
		name := time.Now().Format("ћпп_error_log_20060102_150405.txt")
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintln(r.out, "Warning: Could not create error log file")
		} else {
			r.logFile = f
			fmt.Fprintf(f, "ћ++ Compiler Error Log\n====================\nDate: %s\n\n",
				time.Now().Format(time.ANSIC))
		}
	}

	return r
}

func terminalSupportsColor() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// SetOutput redirects rendered diagnostics (tests, alternate streams).
func (r *Reporter) SetOutput(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
	r.useColors = false
}

// SetDebug enables the reporter-origin line on rendered diagnostics.
func (r *Reporter) SetDebug(debug bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = debug
}

// setExit overrides process termination for tests.
func (r *Reporter) setExit(exit func(int)) {
	r.exit = exit
}

// Report records a diagnostic and prints it immediately. Fatal severity
// cleans up and terminates the process.
func (r *Reporter) Report(kind Kind, severity Severity, filename string, line, column int, message, suggestion string) {
	_, callerFile, callerLine, _ := runtime.Caller(1)

	d := &Diagnostic{
		Kind:         kind,
		Severity:     severity,
		Filename:     filename,
		Line:         line,
		Column:       column,
		Message:      message,
		Suggestion:   suggestion,
		ReporterFile: callerFile,
		ReporterLine: callerLine,
	}

	r.mu.Lock()
	if len(r.entries) >= MaxDiagnostics {
		if !r.overflowed {
			r.overflowed = true
			fmt.Fprintln(r.out, "Too many errors, stopping error tracking.")
		}
		r.mu.Unlock()
		return
	}
	r.entries = append(r.entries, d)
	switch severity {
	case Warning:
		r.warnCount++
	case Error:
		r.errorCount++
	case Fatal:
		r.fatalCount++
	}
	r.print(d)
	r.mu.Unlock()

	if severity == Fatal {
		fmt.Fprintln(r.out, "Fatal error encountered, stopping compilation.")
		r.Cleanup()
		r.exit(1)
	}
}

// print renders one diagnostic. Caller holds the lock.
func (r *Reporter) print(d *Diagnostic) {
	shortFile := filepath.Base(d.Filename)

	if r.useColors {
		headerColor := colors.BOLD + severityColor(d.Severity)
		headerColor.Fprintf(r.out, "%s [%s] in %s:%d:%d: %s",
			d.Severity, d.Kind, shortFile, d.Line, d.Column, d.Message)
		fmt.Fprintln(r.out)
		if d.Suggestion != "" {
			fmt.Fprint(r.out, "  ")
			colors.CYAN.Fprint(r.out, "Suggestion:")
			fmt.Fprintf(r.out, " %s\n", d.Suggestion)
		}
		if r.debug {
			fmt.Fprint(r.out, "  ")
			colors.BLUE.Fprint(r.out, "Reported from:")
			fmt.Fprintf(r.out, " %s:%d\n", filepath.Base(d.ReporterFile), d.ReporterLine)
		}
	} else {
		fmt.Fprintf(r.out, "%s [%s] in %s:%d:%d: %s\n",
			d.Severity, d.Kind, shortFile, d.Line, d.Column, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(r.out, "  Suggestion: %s\n", d.Suggestion)
		}
		if r.debug {
			fmt.Fprintf(r.out, "  Reported from: %s:%d\n", filepath.Base(d.ReporterFile), d.ReporterLine)
		}
	}

	if r.logFile != nil {
		fmt.Fprintf(r.logFile, "%s [%s] in %s:%d:%d: %s\n",
			d.Severity, d.Kind, d.Filename, d.Line, d.Column, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(r.logFile, "  Suggestion: %s\n", d.Suggestion)
		}
		fmt.Fprintf(r.logFile, "  Reported from: %s:%d\n", d.ReporterFile, d.ReporterLine)
	}
}

// Count returns the number of entries with the given severity.
func (r *Reporter) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch severity {
	case Warning:
		return r.warnCount
	case Error:
		return r.errorCount
	case Fatal:
		return r.fatalCount
	}
	return 0
}

// TotalCount returns the number of retained entries.
func (r *Reporter) TotalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// HasErrors reports whether any Error or Fatal diagnostic was recorded.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errorCount > 0 || r.fatalCount > 0
}

// Diagnostics returns a copy of the retained entries.
func (r *Reporter) Diagnostics() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Diagnostic, len(r.entries))
	copy(out, r.entries)
	return out
}

// PrintSummary prints tallies by severity; verbose replays every entry.
func (r *Reporter) PrintSummary(verbose bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "\n=== Compilation Summary ===\n")
	fmt.Fprintf(r.out, "Total issues: %d\n", len(r.entries))
	fmt.Fprintf(r.out, "  Warnings: %d\n", r.warnCount)
	fmt.Fprintf(r.out, "  Errors:   %d\n", r.errorCount)
	fmt.Fprintf(r.out, "  Fatal:    %d\n", r.fatalCount)

	if r.logFile != nil {
		fmt.Fprintf(r.logFile, "\n=== Compilation Summary ===\n")
		fmt.Fprintf(r.logFile, "Total issues: %d\n", len(r.entries))
		fmt.Fprintf(r.logFile, "  Warnings: %d\n", r.warnCount)
		fmt.Fprintf(r.logFile, "  Errors:   %d\n", r.errorCount)
		fmt.Fprintf(r.logFile, "  Fatal:    %d\n", r.fatalCount)
	}

	if verbose && len(r.entries) > 0 {
		fmt.Fprintf(r.out, "\n=== Error Details ===\n")
		for _, d := range r.entries {
			r.print(d)
		}
	}
}

// Cleanup closes the log file and drops the retained entries.
func (r *Reporter) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logFile != nil {
		r.logFile.Close()
		r.logFile = nil
	}
	r.entries = nil
}
