package runlog

import (
	"time"

	"github.com/raphi011/runlog/internal/model"
)

type event interface {
	Apply(model.SuiteRun) model.SuiteRun
	RunID() int
	SuiteName() string
}

type runIdentifier struct {
	runID     int
	suiteName string
}

func (e runIdentifier) SuiteName() string {
	return e.suiteName
}

func (e runIdentifier) RunID() int {
	return e.runID
}

type runStartedEvent struct {
	runIdentifier
	scheduled   time.Time
	triggeredBy string
	tests       int
}

func (e runStartedEvent) Apply(sr model.SuiteRun) model.SuiteRun {
	sr.ID = e.runID
	sr.SuiteName = e.suiteName
	sr.TestResults = []model.TestRun{}
	sr.Scheduled = e.scheduled
	sr.TriggeredBy = e.triggeredBy
	sr.Tests = e.tests
	sr.Result = model.ResultPending

	return sr
}

type testFinishedEvent struct {
	runIdentifier
	result model.TestRun
}

func (e testFinishedEvent) Apply(sr model.SuiteRun) model.SuiteRun {
	switch e.result.Result {
	case model.ResultSkipped:
		sr.Skipped++
	case model.ResultPassed:
		sr.Passed++
	case model.ResultFailed:
		sr.Failed++
	}

	sr.TestResults = append(sr.TestResults, e.result)

	return sr
}

type runSetupFailedEvent struct {
	runIdentifier
	start time.Time
	end   time.Time
	err   error
}

func (e runSetupFailedEvent) Apply(sr model.SuiteRun) model.SuiteRun {
	sr.Result = model.ResultFailed
	sr.SetupLogs = "setup failed: " + e.err.Error()
	sr.Skipped = sr.Tests
	sr.Start = e.start
	sr.End = e.end
	sr.DurationInMS = e.end.Sub(e.start).Milliseconds()

	return sr
}

type runFinishedEvent struct {
	runIdentifier
	start time.Time
	end   time.Time
	// aborted is set when a listener returned an error and the remaining
	// tests were not run.
	aborted bool
}

func (e runFinishedEvent) Apply(sr model.SuiteRun) model.SuiteRun {
	sr.Start = e.start
	sr.End = e.end
	sr.DurationInMS = e.end.Sub(e.start).Milliseconds()

	result := model.ResultPassed

	if sr.Failed > 0 || e.aborted {
		result = model.ResultFailed
	}

	sr.Result = result

	return sr
}
