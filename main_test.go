package runlog_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/runlog"
	"github.com/raphi011/runlog/client"
	"github.com/raphi011/runlog/hook"
	"github.com/raphi011/runlog/internal/model"
)

var te *test

const (
	defaultTimeout = 3 * time.Second
)

func TestMain(m *testing.M) {
	te = acceptanceTest()

	code := m.Run()

	te.s.Shutdown()

	os.Exit(code)
}

func Success(t runlog.TB) {
	t.Log("Success")
}

func Fail(t runlog.TB) {
	t.Error("boom")
}

func Panic(t runlog.TB) {
	panic("panic!")
}

func Skip(t runlog.TB) {
	t.Skip("not relevant here")
}

func Steps(t runlog.TB) {
	t.Step("prepare", func() error {
		return nil
	})

	t.Step("flaky step", func() error {
		return errors.New("remote unreachable")
	})
}

type test struct {
	s        *runlog.Server
	client   client.Client
	recorder *recordingHook
	logPath  string
}

func acceptanceTest() *test {
	// save go test args
	args := os.Args
	// random port, server mode
	os.Args = []string{"runlog-test", "-s", "-p", "0"}

	recorder := &recordingHook{}

	logPath := filepath.Join(os.TempDir(), fmt.Sprintf("runlog-test-%d.log", os.Getpid()))

	s := runlog.New(
		runlog.WithHook(recorder),
		runlog.WithHook(&failingHook{failFor: "listener-fails"}),
		runlog.WithHook(hook.NewRunListener(logPath)),
		runlog.WithSuite(runlog.Suite{
			Name: "succeed",
			Tests: []runlog.Test{
				{Name: "Success", Func: Success},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "failing",
			Tests: []runlog.Test{
				{Name: "Fail", Func: Fail},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "panicking",
			Tests: []runlog.Test{
				{Name: "Panic", Func: Panic},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "skipping",
			Tests: []runlog.Test{
				{Name: "Skip", Func: Skip},
				{Name: "Success", Func: Success},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "steps",
			Tests: []runlog.Test{
				{Name: "Steps", Func: Steps},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "failing-setup",
			Setup: func() error {
				return errors.New("error")
			},
			Tests: []runlog.Test{
				{Name: "Success", Func: Success},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "panicking-setup",
			Setup: func() error {
				panic("panic")
			},
			Tests: []runlog.Test{
				{Name: "Success", Func: Success},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "listener-fails",
			Tests: []runlog.Test{
				{Name: "Success", Func: Success},
			},
		}),
		runlog.WithSuite(runlog.Suite{
			Name: "scheduled-suite",
			Tests: []runlog.Test{
				{Name: "Success", Func: Success},
			},
		}),
		runlog.WithScheduledRun(runlog.ScheduledRun{SuiteName: "scheduled-suite", Schedule: "@every 1s"}),
	)

	go func() {
		if err := s.Run(); err != nil {
			panic(err)
		}
	}()

	s.WaitForStartup()

	port := s.ServerPort()

	// restore go test args
	os.Args = args

	return &test{
		s:        s,
		client:   client.New(fmt.Sprintf("http://localhost:%d", port), http.DefaultClient),
		recorder: recorder,
		logPath:  logPath,
	}
}

func (ti *test) createSuiteRun(t *testing.T, suiteName string) client.SuiteRun {
	t.Helper()

	sr, err := ti.client.CreateSuiteRun(context.Background(), suiteName)
	if err != nil {
		t.Fatalf("unable to create suite run: %v", err)
	}

	return sr
}

func (ti *test) waitForSuiteRunWithResult(t *testing.T, timeout time.Duration, suiteName string, runID int, result model.Result) client.SuiteRun {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		sr, err := ti.client.GetSuiteRun(ctx, suiteName, runID)
		if errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("timed out waiting for suite run with result %s", result)
			return client.SuiteRun{}
		} else if err != nil {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		if sr.Result == result {
			return sr
		} else if sr.Result != model.ResultPending {
			t.Fatalf("suite run result is %q, expected %q", sr.Result, result)
		}

		time.Sleep(50 * time.Millisecond)
	}
}

// recordingHook captures every notification as a flat string so that tests
// can assert on notification ordering.
type recordingHook struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingHook) Name() string { return "recorder" }
func (r *recordingHook) Init() error  { return nil }
func (r *recordingHook) Stop() error  { return nil }

func (r *recordingHook) record(e string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)

	return nil
}

func (r *recordingHook) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.events...)
}

func (r *recordingHook) SuiteStarted(suite model.Suite) error {
	return r.record("suite-started:" + suite.Name)
}

func (r *recordingHook) SuiteFinished(suite model.Suite, run model.SuiteRun) error {
	return r.record(fmt.Sprintf("suite-finished:%s:%s", suite.Name, run.Result))
}

func (r *recordingHook) TestStarted(suite model.Suite, test model.Test) error {
	return r.record("test-started:" + test.Name)
}

func (r *recordingHook) TestFinished(suite model.Suite, result model.TestRun) error {
	return r.record(fmt.Sprintf("test-finished:%s:%s", result.Name, result.Result))
}

func (r *recordingHook) KeywordStarted(kw model.Keyword) error {
	return r.record("keyword-started:" + kw.Name)
}

func (r *recordingHook) KeywordFinished(kw model.Keyword) error {
	return r.record(fmt.Sprintf("keyword-finished:%s:%s", kw.Name, kw.Result))
}

func (r *recordingHook) MessageLogged(msg model.LogMessage) error {
	return r.record(fmt.Sprintf("message:%s:%s", msg.Level, msg.Message))
}

// failingHook simulates a broken listener for a single suite.
type failingHook struct {
	failFor string
}

func (f *failingHook) Name() string { return "failing" }
func (f *failingHook) Init() error  { return nil }
func (f *failingHook) Stop() error  { return nil }

func (f *failingHook) TestStarted(suite model.Suite, test model.Test) error {
	if suite.Name == f.failFor {
		return errors.New("log target gone")
	}

	return nil
}
