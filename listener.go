package runlog

import (
	"github.com/raphi011/runlog/internal/model"
)

// Hook is the base contract every registered hook has to fulfill. Init is
// called once before the first run starts, Stop once when the engine shuts
// down. An Init error is fatal, the engine cannot start without its hooks.
type Hook interface {
	Name() string
	Init() error
	Stop() error
}

// A hook additionally implements one or more of the listener interfaces
// below. The engine invokes them strictly sequentially, one notification at
// a time, in suite order. A returned error aborts the current suite run.

type SuiteStartedListener interface {
	SuiteStarted(suite model.Suite) error
}

type SuiteFinishedListener interface {
	SuiteFinished(suite model.Suite, run model.SuiteRun) error
}

type TestStartedListener interface {
	TestStarted(suite model.Suite, test model.Test) error
}

type TestFinishedListener interface {
	TestFinished(suite model.Suite, result model.TestRun) error
}

type KeywordStartedListener interface {
	KeywordStarted(kw model.Keyword) error
}

type KeywordFinishedListener interface {
	KeywordFinished(kw model.Keyword) error
}

type MessageListener interface {
	MessageLogged(msg model.LogMessage) error
}
