package main

import (
	"log/slog"
	"os"

	"github.com/raphi011/runlog"
	"github.com/raphi011/runlog/hook"
)

func main() {
	s := runlog.New(
		runlog.WithHook(hook.NewRunListener(os.Getenv("RUNLOG_LISTENER_LOG"))),
	)

	if err := s.Run(); err != nil {
		slog.Error(err.Error())
		os.Exit(-1)
	}
}
