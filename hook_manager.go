package runlog

import (
	"fmt"
	"log/slog"

	"github.com/raphi011/runlog/internal/model"
)

type hookManager struct {
	all []Hook

	suiteStarted    []SuiteStartedListener
	suiteFinished   []SuiteFinishedListener
	testStarted     []TestStartedListener
	testFinished    []TestFinishedListener
	keywordStarted  []KeywordStartedListener
	keywordFinished []KeywordFinishedListener
	message         []MessageListener

	log *slog.Logger
}

func newHookManager(log *slog.Logger) *hookManager {
	return &hookManager{
		all: []Hook{},
		log: log,
	}
}

func (m *hookManager) init() error {
	for _, h := range m.all {
		registeredHook := false

		if l, ok := h.(SuiteStartedListener); ok {
			m.suiteStarted = append(m.suiteStarted, l)
			registeredHook = true
		}
		if l, ok := h.(SuiteFinishedListener); ok {
			m.suiteFinished = append(m.suiteFinished, l)
			registeredHook = true
		}
		if l, ok := h.(TestStartedListener); ok {
			m.testStarted = append(m.testStarted, l)
			registeredHook = true
		}
		if l, ok := h.(TestFinishedListener); ok {
			m.testFinished = append(m.testFinished, l)
			registeredHook = true
		}
		if l, ok := h.(KeywordStartedListener); ok {
			m.keywordStarted = append(m.keywordStarted, l)
			registeredHook = true
		}
		if l, ok := h.(KeywordFinishedListener); ok {
			m.keywordFinished = append(m.keywordFinished, l)
			registeredHook = true
		}
		if l, ok := h.(MessageListener); ok {
			m.message = append(m.message, l)
			registeredHook = true
		}

		// reject a hook before Init gets a chance to perform side effects
		// (e.g. the run listener truncating its log file)
		if !registeredHook {
			return fmt.Errorf("hook %q does not implement any listener", h.Name())
		}

		if err := h.Init(); err != nil {
			return fmt.Errorf("initiating hook %q: %w", h.Name(), err)
		}
	}

	return nil
}

func (m *hookManager) stop() {
	for _, h := range m.all {
		if err := h.Stop(); err != nil {
			m.log.Warn("stopping hook failed", "hook", h.Name(), "error", err)
		}
	}
}

func (m *hookManager) notifySuiteStarted(suite model.Suite) error {
	for _, l := range m.suiteStarted {
		if err := l.SuiteStarted(suite); err != nil {
			return err
		}
	}

	return nil
}

func (m *hookManager) notifySuiteFinished(suite model.Suite, run model.SuiteRun) error {
	for _, l := range m.suiteFinished {
		if err := l.SuiteFinished(suite, run); err != nil {
			return err
		}
	}

	return nil
}

func (m *hookManager) notifyTestStarted(suite model.Suite, test model.Test) error {
	for _, l := range m.testStarted {
		if err := l.TestStarted(suite, test); err != nil {
			return err
		}
	}

	return nil
}

func (m *hookManager) notifyTestFinished(suite model.Suite, result model.TestRun) error {
	for _, l := range m.testFinished {
		if err := l.TestFinished(suite, result); err != nil {
			return err
		}
	}

	return nil
}

func (m *hookManager) notifyKeywordStarted(kw model.Keyword) error {
	for _, l := range m.keywordStarted {
		if err := l.KeywordStarted(kw); err != nil {
			return err
		}
	}

	return nil
}

func (m *hookManager) notifyKeywordFinished(kw model.Keyword) error {
	for _, l := range m.keywordFinished {
		if err := l.KeywordFinished(kw); err != nil {
			return err
		}
	}

	return nil
}

func (m *hookManager) notifyMessageLogged(msg model.LogMessage) error {
	for _, l := range m.message {
		if err := l.MessageLogged(msg); err != nil {
			return err
		}
	}

	return nil
}
