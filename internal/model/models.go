// The `model` package is very atypical for projects written in go, but unfortunately
// cannot be avoided as it helps to avoid cyclic dependencies. Types required by a library
// user such as `TestFunc` are reexported by the runlog package.
package model

import (
	"time"
)

// Suite is a static definition of a test suite: an ordered collection of
// tests plus optional Setup and Teardown functions.
type Suite struct {
	// Name of the suite.
	Name string `json:"name"`
	// Documentation is free-text describing the suite. Listeners may
	// render it, it has no effect on execution.
	Documentation string `json:"documentation,omitempty"`
	Setup         func() error
	Teardown      func() error
	Tests         []Test
}

func (s Suite) SafeSetup() (err error) {
	if s.Setup == nil {
		return nil
	}

	defer func() {
		r := recover()

		if r != nil {
			err = PanicError{Value: r}
		}
	}()

	err = s.Setup()
	return
}

func (s Suite) SafeTeardown() (err error) {
	if s.Teardown == nil {
		return nil
	}

	defer func() {
		r := recover()

		if r != nil {
			err = PanicError{Value: r}
		}
	}()

	err = s.Teardown()
	return
}

// Test is a single named test within a suite.
type Test struct {
	Name          string `json:"name"`
	Documentation string `json:"documentation,omitempty"`
	Func          TestFunc
}

type TestFunc func(t TB)

// SuiteRun is the state of one execution of a suite. It is updated through
// events by the engine and queried via the http api.
type SuiteRun struct {
	// ID is the identifier of the suite run.
	ID int `json:"id"`
	// SuiteName is the name of the suite that is run.
	SuiteName string `json:"suiteName"`
	// Result is the outcome of the entire suite run.
	Result Result `json:"result"`
	// Tests counts the total amount of tests in the suite.
	Tests int `json:"tests"`
	// Passed, Failed and Skipped count finished tests by outcome.
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	// TriggeredBy denotes the origin of the run, e.g. "scheduled" or "api".
	TriggeredBy string `json:"triggeredBy"`
	// Scheduled is the time when the run was triggered.
	Scheduled time.Time `json:"scheduled"`
	// Start is the time when the run started executing.
	Start time.Time `json:"start"`
	// End is the time when the run finished executing.
	End time.Time `json:"end"`
	// DurationInMS is the run execution time (end-start).
	DurationInMS int64 `json:"durationInMs"`
	// SetupLogs are logs written during a failed setup phase.
	SetupLogs string `json:"setupLogs,omitempty"`
	// TestResults contains the detailed result of each test.
	TestResults []TestRun `json:"testResults"`
}

// TestRun is the result of one executed test.
type TestRun struct {
	SuiteName  string `json:"suiteName"`
	SuiteRunID int    `json:"suiteRunId"`
	Name       string `json:"name"`
	// Result is the outcome of the test run.
	Result Result `json:"result"`
	// Message carries the failure message of a failed test run.
	Message string `json:"message,omitempty"`
	// Logs contains log messages written by the test itself.
	Logs string `json:"logs,omitempty"`
	// Start marks the start time of the test run.
	Start time.Time `json:"start"`
	// End marks the end time of the test run.
	End time.Time `json:"end"`
	// DurationInMS is the duration of the test run in milliseconds (end-start).
	DurationInMS int64 `json:"durationInMs"`
}

type Result string

const (
	ResultPending Result = "pending"
	ResultSkipped Result = "skipped"
	ResultPassed  Result = "passed"
	ResultFailed  Result = "failed"
)

// Keyword is one executed step within a test, delivered to keyword
// listeners on start and end.
type Keyword struct {
	Name string `json:"name"`
	// Type distinguishes proper keywords from control-flow constructs.
	Type KeywordType `json:"type"`
	// Result is only meaningful on the end notification.
	Result Result `json:"result"`
	// Message carries the failure message of a failed keyword.
	Message string `json:"message,omitempty"`
}

type KeywordType string

const (
	KeywordTypeKeyword KeywordType = "KEYWORD"
	KeywordTypeFor     KeywordType = "FOR"
	KeywordTypeWhile   KeywordType = "WHILE"
	KeywordTypeIf      KeywordType = "IF"
)

// LogMessage is a free-text message emitted during test execution.
type LogMessage struct {
	Level   LogLevel `json:"level"`
	Message string   `json:"message"`
}

type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// TB is a carbon copy of the stdlib testing.TB interface + some custom runlog
// functions. Unfortunately we cannot reuse the original testing.TB interface
// because it deliberately includes the `private()` function to prevent others
// from implementing it.
type TB interface {
	Cleanup(func())
	Error(args ...any)
	Errorf(format string, args ...any)
	Fail()
	FailNow()
	Failed() bool
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Helper()
	Log(args ...any)
	Logf(format string, args ...any)
	Name() string
	Setenv(key, value string)
	Skip(args ...any)
	SkipNow()
	Skipf(format string, args ...any)
	Skipped() bool
	TempDir() string

	/* runlog specific */

	// Step runs fn as a named keyword. Keyword listeners are notified of
	// its start and end; a fn error or panic fails the step and the test.
	Step(name string, fn func() error)
}
