package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	adapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	flip, err := dsl.New("bitflip").
		Initial("q0").
		Final("q2").
		On("q0", "0").Write("1").Right().Go("q0").
		On("q0", "1").Write("0").Right().Go("q0").
		On("q0", "_").Left().Go("q1").
		On("q1", "0").Left().Go("q1").
		On("q1", "1").Left().Go("q1").
		On("q1", "_").Right().Go("q2").
		Build()
	require.NoError(t, err)
	loop, err := dsl.New("loop").Initial("q0").Final("qf").On("q0", "_").Right().Go("q0").Build()
	require.NoError(t, err)

	loader, err := memory.NewLoader(flip, loop)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	machines := registry.New(loader, turing.WithMaxSteps(1000), turing.WithLifecycleHooks(metrics.Hooks()))
	sessions := session.NewManager(memory.NewStore(), machines)

	srv := httptest.NewServer(adapter.NewHandler(machines,
		adapter.WithSessions(sessions),
		adapter.WithMetrics(reg),
	))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestMachines(t *testing.T) {
	srv := newServer(t)

	var list map[string][]string
	assert.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/machines", "", &list))
	assert.Equal(t, []string{"bitflip", "loop"}, list["machines"])

	var desc domain.Description
	assert.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/machines/bitflip", "", &desc))
	assert.Equal(t, domain.State("q0"), desc.Initial)
	assert.Len(t, desc.Rules, 6)

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, do(t, "GET", srv.URL+"/machines/nope", "", &errBody))
	assert.Contains(t, errBody["error"], "machine not found")
}

func TestMachineGraph(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/machines/bitflip/graph")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "stateDiagram-v2\n"))
	assert.Contains(t, string(body), "[*] --> q0")
}

func TestRunMachine(t *testing.T) {
	srv := newServer(t)

	var run adapter.RunResponse
	code := do(t, "POST", srv.URL+"/machines/bitflip/runs", `{"input":"101","trace":true}`, &run)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, run.Outcome)
	assert.True(t, run.Outcome.Accepted)
	assert.Equal(t, 8, run.Outcome.Steps)
	assert.Equal(t, "010", run.Outcome.Tape.Content())
	assert.Len(t, run.Trace, 8)
	assert.Empty(t, run.Error)

	run = adapter.RunResponse{}
	code = do(t, "POST", srv.URL+"/machines/bitflip/runs", `{"input":"1,x","sep":","}`, &run)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.StatusRejected, run.Outcome.Status)
	assert.Equal(t, 1, run.Outcome.Steps)

	run = adapter.RunResponse{}
	code = do(t, "POST", srv.URL+"/machines/loop/runs", `{"input":"","max_steps":7}`, &run)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, 7, run.Outcome.Steps)
	assert.Contains(t, run.Error, "step limit")

	var errBody map[string]string
	code = do(t, "POST", srv.URL+"/machines/bitflip/runs", `{"input":"1","start":"zz"}`, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, errBody["error"], "unknown state")

	code = do(t, "POST", srv.URL+"/machines/bitflip/runs", `{"bogus":1}`, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessions(t *testing.T) {
	srv := newServer(t)

	var rs domain.RunState
	code := do(t, "POST", srv.URL+"/sessions", `{"machine":"bitflip","input":"10"}`, &rs)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, rs.SessionID)
	id := rs.SessionID

	code = do(t, "POST", srv.URL+"/sessions/"+id+"/step", "", &rs)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, rs.Steps)

	code = do(t, "POST", srv.URL+"/sessions/"+id+"/step", `{"count":50}`, &rs)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.StatusAccepted, rs.Status)
	assert.Equal(t, "01", rs.Outcome().Tape.Content())

	var list map[string][]string
	assert.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/sessions", "", &list))
	assert.Equal(t, []string{id}, list["sessions"])

	assert.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/sessions/"+id, "", &rs))
	assert.Equal(t, http.StatusNoContent, do(t, "DELETE", srv.URL+"/sessions/"+id, "", nil))

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, do(t, "GET", srv.URL+"/sessions/"+id, "", &errBody))
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/sessions", `{"input":"1"}`, &errBody))
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", srv.URL+"/sessions/"+id+"/step", `{"count":0}`, &errBody))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t)
	do(t, "POST", srv.URL+"/machines/bitflip/runs", `{"input":"1"}`, &adapter.RunResponse{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)

	assert.Contains(t, buf.String(), `turing_runs_total{machine="bitflip",result="accepted"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)
	req, _ := http.NewRequestWithContext(context.Background(), "OPTIONS", srv.URL+"/machines", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRunMachine_ServerStepCapWins(t *testing.T) {
	srv := newServer(t)
	url := srv.URL + "/machines/loop/runs"

	var run adapter.RunResponse
	code := do(t, http.MethodPost, url, `{"input":"","max_steps":50000}`, &run)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, run.Outcome)
	assert.Equal(t, 1000, run.Outcome.Steps)

	run = adapter.RunResponse{}
	code = do(t, http.MethodPost, url, `{"input":"","trace":true}`, &run)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, 1000, run.Outcome.Steps)
	assert.Len(t, run.Trace, adapter.MaxTraceSteps)
	assert.True(t, run.TraceTruncated)

	var errBody map[string]string
	code = do(t, http.MethodPost, url, `{"input":"","max_steps":-3}`, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, errBody["error"], "max_steps")
}

func TestRunMachine_InputChecks(t *testing.T) {
	srv := newServer(t)
	url := srv.URL + "/machines/bitflip/runs"

	oversized, err := json.Marshal(adapter.RunRequest{Input: strings.Repeat("1", turing.DefaultMaxInputSize+1)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(t, http.MethodPost, url, string(oversized), nil))

	var resp adapter.RunResponse
	status := do(t, http.MethodPost, url, `{"input":"1\u001b0"}`, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "01", resp.Outcome.Tape.Content())
}
