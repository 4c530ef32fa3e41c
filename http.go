package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raphi011/runlog/internal/model"
)

func (s *Server) runHTTP() error {
	router := httprouter.New()

	router.POST("/suites/:suite-name/runs", s.startSuiteRun)
	router.GET("/suites/:suite-name/runs/:run-id", s.getSuiteRun)
	router.Handler("GET", "/metrics", promhttp.Handler())

	l, err := net.Listen("tcp", "localhost:"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("starting http listener: %w", err)
	}

	s.httpPort = l.Addr().(*net.TCPAddr).Port
	s.httpServer = &http.Server{Handler: router}

	close(s.started)

	err = s.httpServer.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) httpError(w http.ResponseWriter, err error) {
	var notFound model.NotFoundError
	var malformedRequest model.MalformedRequestError

	if errors.As(err, &notFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	} else if errors.As(err, &malformedRequest) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
}

func (s *Server) startSuiteRun(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	suite, err := s.getSuite(p)
	if err != nil {
		s.httpError(w, err)
		return
	}

	sr := s.startRun(suite, "api", true)

	s.writeJSON(w, sr)
}

func (s *Server) getSuiteRun(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	sr, err := s.getRun(p)
	if err != nil {
		s.httpError(w, err)
		return
	}

	s.writeJSON(w, sr)
}

func (s *Server) writeJSON(w http.ResponseWriter, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err = w.Write(b); err != nil {
		s.log.Warn("error writing response body", "error", err)
	}
}

func (s *Server) getSuite(p httprouter.Params) (model.Suite, error) {
	suiteName := p.ByName("suite-name")

	ts, ok := s.suites[suiteName]
	if !ok {
		return model.Suite{}, model.NotFoundError{}
	}

	return ts, nil
}

func (s *Server) getRun(p httprouter.Params) (model.SuiteRun, error) {
	suiteName := p.ByName("suite-name")

	runID, err := strconv.Atoi(p.ByName("run-id"))
	if err != nil {
		return model.SuiteRun{}, model.MalformedRequestError{Param: "run-id"}
	}

	sr, ok := s.runs.Load(runKey(suiteName, runID))
	if !ok {
		return model.SuiteRun{}, model.NotFoundError{}
	}

	return sr.(model.SuiteRun), nil
}
