package runlog

import (
	"fmt"
	"time"

	"github.com/raphi011/runlog/internal/metric"
	"github.com/raphi011/runlog/internal/model"
)

// runSuite executes one suite run to completion and returns its final state.
// It must only be called from the run loop (server mode) or from runAll (cli
// mode), never concurrently: the listener contract guarantees strictly
// sequential notifications.
func (s *Server) runSuite(suite model.Suite, sr model.SuiteRun) model.SuiteRun {
	start := time.Now()

	log := s.log.With("suite-name", suite.Name, "run-id", sr.ID)

	running := metric.SuitesRunning.WithLabelValues(suite.Name)
	running.Inc()
	defer func() {
		running.Dec()
	}()

	apply := func(e event) {
		sr = e.Apply(sr)
		s.runs.Store(runKey(e.SuiteName(), e.RunID()), sr)
	}

	id := runIdentifier{runID: sr.ID, suiteName: suite.Name}

	if err := s.hooks.notifySuiteStarted(suite); err != nil {
		log.Error("suite start listener failed, aborting run", "error", err)

		apply(runFinishedEvent{runIdentifier: id, start: start, end: time.Now(), aborted: true})

		return sr
	}

	if err := suite.SafeSetup(); err != nil {
		log.Warn("setup of suite failed", "error", err)

		apply(runSetupFailedEvent{runIdentifier: id, start: start, end: time.Now(), err: err})
	} else {
		aborted := false

		for _, test := range suite.Tests {
			result, err := s.runTest(suite, sr, test)
			if err != nil {
				log.Error("listener failed, aborting suite run", "error", err)
				aborted = true
				break
			}

			apply(testFinishedEvent{runIdentifier: id, result: result})
		}

		if err := suite.SafeTeardown(); err != nil {
			log.Warn("teardown of suite failed", "error", err)
		}

		apply(runFinishedEvent{runIdentifier: id, start: start, end: time.Now(), aborted: aborted})
	}

	if err := s.hooks.notifySuiteFinished(suite, sr); err != nil {
		log.Error("suite end listener failed", "error", err)
	}

	metric.SuiteRunsTotal.WithLabelValues(suite.Name, string(sr.Result)).Inc()

	return sr
}

// runTest runs an individual test that is part of a suite. A non-nil error
// means a listener failed, not the test itself.
func (s *Server) runTest(suite model.Suite, sr model.SuiteRun, test model.Test) (model.TestRun, error) {
	if err := s.hooks.notifyTestStarted(suite, test); err != nil {
		return model.TestRun{}, err
	}

	t := &T{
		suiteName: suite.Name,
		testName:  test.Name,
		hooks:     s.hooks,
	}

	start := time.Now()

	func() {
		defer func() {
			err := recover()

			if err != nil && t.result != model.ResultSkipped {
				if _, ok := err.(failTestErr); !ok {
					// this is an unexpected panic (does not originate from runlog)
					t.fail(fmt.Sprintf("%v", err))
				}
			}
		}()

		test.Func(t)
	}()

	end := time.Now()

	t.runTestCleanup()

	result := model.TestRun{
		SuiteName:    suite.Name,
		SuiteRunID:   sr.ID,
		Name:         test.Name,
		Result:       t.Result(),
		Message:      t.failMessage,
		Logs:         t.logs.String(),
		Start:        start,
		End:          end,
		DurationInMS: end.Sub(start).Milliseconds(),
	}

	metric.TestRunsTotal.WithLabelValues(suite.Name, string(result.Result)).Inc()

	if t.hookErr != nil {
		return result, t.hookErr
	}

	if err := s.hooks.notifyTestFinished(suite, result); err != nil {
		return result, err
	}

	return result, nil
}
