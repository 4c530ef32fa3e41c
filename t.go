package runlog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphi011/runlog/internal/metric"
	"github.com/raphi011/runlog/internal/model"
)

// make sure we adhere to the TB interface
var _ model.TB = &T{}

type T struct {
	suiteName   string
	testName    string
	logs        strings.Builder
	result      model.Result
	failMessage string
	cleanupFunc func()

	hooks *hookManager
	// hookErr holds the first listener error raised while the test was
	// running. Once set, further notifications are suppressed and the
	// suite run is aborted after the test finishes.
	hookErr error
}

func (t *T) Cleanup(c func()) {
	t.cleanupFunc = c
}

func (t *T) Error(args ...any) {
	t.fail(fmt.Sprint(args...))
}

func (t *T) Errorf(format string, args ...any) {
	t.fail(fmt.Sprintf(format, args...))
}

func (t *T) Fail() {
	t.result = model.ResultFailed
}

func (t *T) FailNow() {
	t.Fail()
	panic(failTestErr{})
}

func (t *T) Failed() bool {
	return t.result == model.ResultFailed
}

func (t *T) Fatal(args ...any) {
	t.Error(args...)
	panic(failTestErr{})
}

func (t *T) Fatalf(format string, args ...any) {
	t.Errorf(format, args...)
	panic(failTestErr{})
}

func (t *T) Helper() {}

func (t *T) Log(args ...any) {
	t.logMessage(model.LevelInfo, fmt.Sprint(args...))
}

func (t *T) Logf(format string, args ...any) {
	t.logMessage(model.LevelInfo, fmt.Sprintf(format, args...))
}

func (t *T) Name() string {
	return t.testName
}

func (t *T) Setenv(key, value string) {
}

func (t *T) Skip(args ...any) {
	t.Log(args...)
	t.SkipNow()
}

func (t *T) SkipNow() {
	t.result = model.ResultSkipped
	panic(skipTestErr{})
}

func (t *T) Skipf(format string, args ...any) {
	t.Logf(format, args...)
	t.SkipNow()
}

func (t *T) Skipped() bool {
	return t.result == model.ResultSkipped
}

func (t *T) TempDir() string {
	// TODO
	return ""
}

/* runlog specific functions that are not part of the testing.TB interface */
/* ----------------------------------------------------------------------- */

// Step runs fn as a named keyword and notifies keyword listeners of its
// start and end. A fn error or panic fails the step and thereby the test;
// execution of the test continues after the step.
func (t *T) Step(name string, fn func() error) {
	t.notify(func(m *hookManager) error {
		return m.notifyKeywordStarted(model.Keyword{
			Name:   name,
			Type:   model.KeywordTypeKeyword,
			Result: model.ResultPending,
		})
	})

	err := runStep(fn)

	kw := model.Keyword{
		Name:   name,
		Type:   model.KeywordTypeKeyword,
		Result: model.ResultPassed,
	}

	if err != nil {
		kw.Result = model.ResultFailed
		kw.Message = err.Error()

		metric.KeywordFailuresTotal.WithLabelValues(t.suiteName).Inc()

		t.fail(fmt.Sprintf("step %q failed: %v", name, err))
	}

	t.notify(func(m *hookManager) error {
		return m.notifyKeywordFinished(kw)
	})
}

func runStep(fn func() error) (err error) {
	defer func() {
		r := recover()

		if r != nil {
			err = model.PanicError{Value: r}
		}
	}()

	return fn()
}

func (t *T) Result() model.Result {
	if t.result == "" {
		return model.ResultPassed
	}

	return t.result
}

func (t *T) fail(message string) {
	t.Fail()

	if t.failMessage == "" {
		t.failMessage = message
	}

	t.logMessage(model.LevelError, message)
}

func (t *T) logMessage(level model.LogLevel, message string) {
	t.logs.WriteString(message + "\n")

	t.notify(func(m *hookManager) error {
		return m.notifyMessageLogged(model.LogMessage{Level: level, Message: message})
	})
}

func (t *T) notify(f func(m *hookManager) error) {
	if t.hooks == nil || t.hookErr != nil {
		return
	}

	t.hookErr = f(t.hooks)
}

func (t *T) runTestCleanup() {
	if t.cleanupFunc == nil {
		return
	}

	defer func() {
		err := recover()

		if err != nil {
			slog.Warn("cleanup func panic'd", "error", err, "suite-name", t.suiteName, "test-name", t.testName)
		}
	}()

	t.cleanupFunc()
}

// skipTestErr is passed to panic() to signal
// that a test was skipped.
type skipTestErr struct{}

// failTestErr is passed to panic() to signal
// that a test has failed.
type failTestErr struct{}
