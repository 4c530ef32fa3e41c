package runlog_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRunWithMalformedIDReturnsBadRequest(t *testing.T) {
	t.Parallel()

	res, err := http.Get(fmt.Sprintf("http://localhost:%d/suites/succeed/runs/abc", te.s.ServerPort()))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMetricsEndpointIsServed(t *testing.T) {
	t.Parallel()

	res, err := http.Get(fmt.Sprintf("http://localhost:%d/metrics", te.s.ServerPort()))
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
