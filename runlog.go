// Package runlog is a small test-execution engine whose main purpose is to
// drive lifecycle listeners (hooks): suite, test and keyword start/end
// notifications plus free-text log messages. The flagship hook is
// hook.RunListener which renders the run as a plain-text audit log.
package runlog

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raphi011/runlog/internal/model"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Server struct {
	port       int
	serverMode bool

	hooks *hookManager

	// immutable readonly map of suites
	suites map[string]model.Suite
	// suiteOrder preserves registration order for cli mode runs
	suiteOrder []string

	runs      sync.Map
	schedules []ScheduledRun
	cron      *cron.Cron

	// global runID counter, this should be per suite in the future
	currentRun int32

	runQueue chan model.SuiteRun

	started     chan struct{}
	stop        chan struct{}
	runLoopDone chan struct{}
	httpPort    int
	httpServer  *http.Server

	log *slog.Logger
}

// Reexport to allow library users to reference these types

type Suite = model.Suite
type Test = model.Test
type TestFunc = model.TestFunc
type TB = model.TB

type option func(s *Server)

// New configures a new runlog instance.
func New(opts ...option) *Server {
	s := &Server{
		port:        1337,
		serverMode:  false,
		suites:      map[string]model.Suite{},
		runQueue:    make(chan model.SuiteRun, 100),
		started:     make(chan struct{}),
		stop:        make(chan struct{}),
		runLoopDone: make(chan struct{}),
		log:         slog.Default(),
	}

	s.hooks = newHookManager(s.log)

	for _, o := range opts {
		o(s)
	}

	s.hooks.log = s.log

	return s
}

func (s *Server) Run() error {
	s.parseFlags()

	if err := s.hooks.init(); err != nil {
		return err
	}

	if s.serverMode {
		if err := s.startSchedules(); err != nil {
			return err
		}

		go s.runLoop()

		return s.runHTTP()
	}

	return s.runAll()
}

// runAll runs every registered suite once, in registration order, and stops
// the hooks afterwards. Used in cli mode.
func (s *Server) runAll() error {
	failed := 0

	for _, name := range s.suiteOrder {
		suite := s.suites[name]

		sr := s.startRun(suite, "cli", false)

		sr = s.runSuite(suite, sr)

		if sr.Result == model.ResultFailed {
			failed++
		}
	}

	s.hooks.stop()

	if failed > 0 {
		return fmt.Errorf("%d of %d suite runs failed", failed, len(s.suiteOrder))
	}

	return nil
}

// runLoop consumes queued runs one at a time. It must be started as a
// goroutine exactly once: running suites from a single goroutine is what
// keeps listener notifications strictly sequential. It only exits between
// runs, never mid-run, so runLoopDone closing means no suite is in flight.
func (s *Server) runLoop() {
	defer close(s.runLoopDone)

	for {
		select {
		case <-s.stop:
			return
		case sr := <-s.runQueue:
			suite := s.suites[sr.SuiteName]
			s.runSuite(suite, sr)
		}
	}
}

// startRun registers a new pending suite run and optionally enqueues it for
// the run loop.
func (s *Server) startRun(suite model.Suite, triggeredBy string, enqueue bool) model.SuiteRun {
	e := runStartedEvent{
		runIdentifier: runIdentifier{runID: s.nextID(), suiteName: suite.Name},
		scheduled:     time.Now(),
		triggeredBy:   triggeredBy,
		tests:         len(suite.Tests),
	}

	sr := e.Apply(model.SuiteRun{})

	s.runs.Store(runKey(e.SuiteName(), e.RunID()), sr)

	if enqueue {
		s.runQueue <- sr
	}

	return sr
}

func (s *Server) startSchedules() error {
	s.cron = cron.New(cron.WithSeconds())

	for i := range s.schedules {
		schedule := s.schedules[i]

		ts, ok := s.suites[schedule.SuiteName]
		if !ok {
			return fmt.Errorf("starting scheduled suite run: suite %q not found", schedule.SuiteName)
		}

		entryID, err := s.cron.AddFunc(schedule.Schedule, func() {
			s.startRun(ts, "scheduled", true)
		})

		if err != nil {
			return fmt.Errorf("adding scheduled suite run %q: %w", schedule.SuiteName, err)
		}

		s.schedules[i].EntryID = entryID
	}

	s.cron.Start()

	return nil
}

// WaitForStartup blocks until the http server accepts connections.
// Server mode only.
func (s *Server) WaitForStartup() {
	<-s.started
}

// ServerPort returns the port the http server is bound to. Only valid
// after WaitForStartup returned.
func (s *Server) ServerPort() int {
	return s.httpPort
}

// Shutdown stops accepting new runs, waits for an in-flight suite run to
// finish and only then stops the hooks. Hooks must not observe their Stop
// (e.g. the run listener's footer) interleaved with run notifications.
func (s *Server) Shutdown() {
	if s.cron != nil {
		s.cron.Stop()
	}

	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}

	close(s.stop)

	if s.serverMode {
		<-s.runLoopDone
	}

	s.hooks.stop()
}

func (s *Server) nextID() int {
	return int(atomic.AddInt32(&s.currentRun, 1))
}

func (s *Server) parseFlags() {
	flags := flag.NewFlagSet("runlog", flag.ExitOnError)

	var port = flags.Int("p", s.port, "port used by the server (server mode only)")
	var serverMode = flags.Bool("s", s.serverMode, "enable server mode")
	var listSuites = flags.Bool("l", false, "list all configured suites and exit")

	_ = flags.Parse(os.Args[1:])

	if *listSuites {
		s.printSuites()
	}

	s.port = *port
	s.serverMode = *serverMode
}

func (s *Server) printSuites() {
	b := strings.Builder{}

	names := maps.Keys(s.suites)
	slices.Sort(names)

	for _, name := range names {
		ts := s.suites[name]

		b.WriteString("suite: \"" + ts.Name + "\"\n")

		for _, t := range ts.Tests {
			b.WriteString("\t " + t.Name + "\n")
		}
	}

	fmt.Print(b.String())

	os.Exit(0)
}

func runKey(suiteName string, runID int) string {
	return fmt.Sprintf("%s-%d", suiteName, runID)
}
