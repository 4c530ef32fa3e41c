// Package hook contains lifecycle hooks that can be registered with a
// runlog engine via runlog.WithHook.
package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/raphi011/runlog"
	"github.com/raphi011/runlog/internal/model"
)

// DefaultLogPath is used when NewRunListener is called with an empty path.
const DefaultLogPath = "listener.log"

// make sure the listener covers the full notification surface
var (
	_ runlog.Hook                    = &RunListener{}
	_ runlog.SuiteStartedListener    = &RunListener{}
	_ runlog.SuiteFinishedListener   = &RunListener{}
	_ runlog.TestStartedListener     = &RunListener{}
	_ runlog.TestFinishedListener    = &RunListener{}
	_ runlog.KeywordStartedListener  = &RunListener{}
	_ runlog.KeywordFinishedListener = &RunListener{}
	_ runlog.MessageListener         = &RunListener{}
)

// RunListener renders suite, test and keyword lifecycle notifications as
// timestamped lines in a plain-text audit log. The file is truncated on
// Init and only appended to afterwards; every append opens and closes the
// file so a crash between notifications loses nothing already written.
//
// A RunListener instance owns its log file for the duration of one engine
// run and keeps running totals of executed, passed and failed tests.
type RunListener struct {
	path string

	testCount   int
	passedCount int
	failedCount int

	// suiteStart is the start time of the most recent suite, overwritten
	// on each suite start. Zero means no start was observed and durations
	// are reported as "Unknown".
	suiteStart time.Time

	closed bool
}

func NewRunListener(path string) *RunListener {
	if path == "" {
		path = DefaultLogPath
	}

	return &RunListener{path: path}
}

func (l *RunListener) Name() string {
	return "run-listener"
}

// Path returns the destination of the audit log.
func (l *RunListener) Path() string {
	return l.path
}

// Init creates the log file, truncating a previous one, and writes the
// header. Parent directories are created if absent. An error here is fatal,
// the listener cannot work without its log target.
func (l *RunListener) Init() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}

	header := fmt.Sprintf("Test Execution Log\nStarted: %s\nPlatform: %s\n%s\n\n",
		time.Now().Format(time.RFC3339),
		runtime.GOOS,
		strings.Repeat("=", 50))

	if _, err = f.WriteString(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing log header: %w", err)
	}

	return f.Close()
}

func (l *RunListener) SuiteStarted(suite model.Suite) error {
	if err := l.append("Suite started: " + suite.Name); err != nil {
		return err
	}

	if suite.Documentation != "" {
		if err := l.append("Documentation: " + suite.Documentation); err != nil {
			return err
		}
	}

	l.suiteStart = time.Now()

	return nil
}

func (l *RunListener) SuiteFinished(suite model.Suite, run model.SuiteRun) error {
	duration := "Unknown"

	if !l.suiteStart.IsZero() {
		duration = time.Since(l.suiteStart).String()
	}

	lines := []string{
		"Suite ended: " + suite.Name,
		"Duration: " + duration,
		fmt.Sprintf("Tests: %d, Passed: %d, Failed: %d", l.testCount, l.passedCount, l.failedCount),
		strings.Repeat("-", 30),
	}

	for _, line := range lines {
		if err := l.append(line); err != nil {
			return err
		}
	}

	return nil
}

func (l *RunListener) TestStarted(suite model.Suite, test model.Test) error {
	l.testCount++

	if err := l.append(fmt.Sprintf("Test %d: %s", l.testCount, test.Name)); err != nil {
		return err
	}

	if test.Documentation != "" {
		return l.append("  Doc: " + test.Documentation)
	}

	return nil
}

func (l *RunListener) TestFinished(suite model.Suite, result model.TestRun) error {
	status := "PASS"

	if result.Result == model.ResultFailed {
		l.failedCount++
		status = "FAIL"

		if err := l.append("  Error: " + result.Message); err != nil {
			return err
		}
	} else {
		l.passedCount++
	}

	if err := l.append("  Status: " + status); err != nil {
		return err
	}

	return l.append(fmt.Sprintf("  Duration: %dms", result.DurationInMS))
}

// KeywordStarted is a reserved extension point.
func (l *RunListener) KeywordStarted(kw model.Keyword) error {
	return nil
}

// KeywordFinished only logs failures of proper keywords. Failures of
// control-flow constructs (FOR, IF, ...) are reported through the keyword
// that contains them and are ignored here.
func (l *RunListener) KeywordFinished(kw model.Keyword) error {
	if kw.Result != model.ResultFailed || kw.Type != model.KeywordTypeKeyword {
		return nil
	}

	return l.append("  Keyword failed: " + kw.Name + " - " + kw.Message)
}

func (l *RunListener) MessageLogged(msg model.LogMessage) error {
	if msg.Level != model.LevelError && msg.Level != model.LevelWarn {
		return nil
	}

	return l.append("  " + string(msg.Level) + ": " + msg.Message)
}

// Stop writes the completion footer. It is guarded so that a second Stop
// does not duplicate the footer.
func (l *RunListener) Stop() error {
	if l.closed {
		return nil
	}

	l.closed = true

	f, err := l.open()
	if err != nil {
		return err
	}

	footer := fmt.Sprintf("\nTest execution completed: %s\nFinal results - Total: %d, Passed: %d, Failed: %d\n",
		time.Now().Format(time.RFC3339),
		l.testCount, l.passedCount, l.failedCount)

	if _, err = f.WriteString(footer); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending to log file: %w", err)
	}

	return f.Close()
}

// append writes a single timestamped line. The file is opened and closed
// per call, no handle is held across notifications.
func (l *RunListener) append(message string) error {
	f, err := l.open()
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	if _, err = fmt.Fprintf(f, "[%s] %s\n", timestamp, message); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending to log file: %w", err)
	}

	return f.Close()
}

func (l *RunListener) open() (*os.File, error) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	return f, nil
}
