// Package client is a thin client for the runlog http api.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/raphi011/runlog/internal/model"
)

type SuiteRun = model.SuiteRun
type TestRun = model.TestRun

type Client struct {
	http *http.Client
	host string
}

type RequestError struct {
	ResponseCode int
}

func (e RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.ResponseCode)
}

func New(host string, c *http.Client) Client {
	return Client{http: c, host: host}
}

// CreateSuiteRun enqueues a new run of the named suite and returns its
// pending state.
func (c Client) CreateSuiteRun(ctx context.Context, suiteName string) (SuiteRun, error) {
	url := fmt.Sprintf("%s/suites/%s/runs", c.host, suiteName)

	return c.do(ctx, http.MethodPost, url)
}

// GetSuiteRun fetches the current state of a suite run.
func (c Client) GetSuiteRun(ctx context.Context, suiteName string, runID int) (SuiteRun, error) {
	url := fmt.Sprintf("%s/suites/%s/runs/%d", c.host, suiteName, runID)

	return c.do(ctx, http.MethodGet, url)
}

func (c Client) do(ctx context.Context, method, url string) (SuiteRun, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return SuiteRun{}, fmt.Errorf("creating request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return SuiteRun{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return SuiteRun{}, RequestError{ResponseCode: res.StatusCode}
	}

	var sr SuiteRun

	if err = json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return SuiteRun{}, fmt.Errorf("decoding response: %w", err)
	}

	return sr, nil
}
