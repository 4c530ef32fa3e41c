package runlog

import "log/slog"

// WithSuite registers a suite with the engine. Suites run in registration
// order in cli mode.
func WithSuite(suite Suite) option {
	return func(s *Server) {
		if _, ok := s.suites[suite.Name]; !ok {
			s.suiteOrder = append(s.suiteOrder, suite.Name)
		}
		s.suites[suite.Name] = suite
	}
}

// WithHook registers a lifecycle hook. The hook has to implement at least
// one of the listener interfaces.
func WithHook(h Hook) option {
	return func(s *Server) {
		s.hooks.all = append(s.hooks.all, h)
	}
}

// WithScheduledRun schedules a suite to run at certain intervals.
// Ignored in cli mode.
func WithScheduledRun(sr ScheduledRun) option {
	return func(s *Server) {
		s.schedules = append(s.schedules, sr)
	}
}

func WithServerPort(port int) option {
	return func(s *Server) {
		s.port = port
	}
}

func WithLogger(log *slog.Logger) option {
	return func(s *Server) {
		s.log = log
	}
}
