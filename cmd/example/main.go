package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/raphi011/runlog"
	"github.com/raphi011/runlog/hook"
	"github.com/stretchr/testify/assert"
)

func main() {
	s := runlog.New(
		runlog.WithSuite(runlog.Suite{
			Name:          "my-app",
			Documentation: "Example suite exercising the run listener",
			Tests: []runlog.Test{
				{Name: "Sleep", Func: Sleep},
				{Name: "Success", Documentation: "Always passes", Func: Success},
				{Name: "Panic", Func: Panic},
				{Name: "Skip", Func: Skip},
				{Name: "Fatal", Func: Fatal},
				{Name: "Steps", Func: Steps},
				{Name: "Testify", Func: Testify},
			},
		}),
		runlog.WithScheduledRun(runlog.ScheduledRun{SuiteName: "my-app", Schedule: "@every 5s"}),
		runlog.WithHook(hook.NewRunListener("my-app.log")),
		runlog.WithServerPort(1337),
	)

	if err := s.Run(); err != nil {
		slog.Error(err.Error())
		os.Exit(-1)
	}
}

func Sleep(t runlog.TB) {
	time.Sleep(1 * time.Second)
}

func Success(t runlog.TB) {
	t.Log("Executed TestAcceptance")
}

func Fatal(t runlog.TB) {
	t.Fatal("fatal error")
}

func Panic(t runlog.TB) {
	panic("panic!")
}

func Skip(t runlog.TB) {
	t.Skip("skipping test")
}

func Steps(t runlog.TB) {
	t.Step("Prepare Workdir", func() error {
		return nil
	})

	t.Step("Flaky Step", func() error {
		return errors.New("remote unreachable")
	})
}

func Testify(t runlog.TB) {
	assert.Equal(t, 1, 2)
}
