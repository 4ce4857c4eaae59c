package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	stagehandhttp "github.com/ardenfx/stagehand/pkg/adapters/http"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntegration struct {
	status   domain.EngineStatus
	reason   string
	ctx      *domain.Context
	commands []domain.Command
	executed []string
	execErr  error
}

func (f *fakeIntegration) Status() (domain.EngineStatus, string) { return f.status, f.reason }
func (f *fakeIntegration) Context() *domain.Context              { return f.ctx }
func (f *fakeIntegration) Commands() []domain.Command            { return f.commands }

func (f *fakeIntegration) Execute(ctx context.Context, name string) error {
	f.executed = append(f.executed, name)
	return f.execErr
}

func activeIntegration() *fakeIntegration {
	return &fakeIntegration{
		status: domain.StatusActive,
		ctx:    &domain.Context{Project: "alpha", Entity: "sh010"},
		commands: []domain.Command{
			{Name: "Publish...", Properties: domain.CommandProperties{App: "tk-multi-publish2", Type: domain.CommandTypeDefault}},
			{Name: "Work Files...", Properties: domain.CommandProperties{Type: domain.CommandTypeContextMenu}},
		},
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetHealth(t *testing.T) {
	handler := stagehandhttp.NewHandler(activeIntegration())
	rec := doRequest(t, handler, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestGetStatus(t *testing.T) {
	integration := activeIntegration()
	handler := stagehandhttp.NewHandler(integration)
	rec := doRequest(t, handler, http.MethodGet, "/status")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp stagehandhttp.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.StatusActive), resp.Status)
	require.NotNil(t, resp.Context)
	assert.Equal(t, "alpha", resp.Context.Project)
}

func TestGetStatus_Degraded(t *testing.T) {
	integration := &fakeIntegration{status: domain.StatusDegraded, reason: "unrecognized file"}
	handler := stagehandhttp.NewHandler(integration)
	rec := doRequest(t, handler, http.MethodGet, "/status")

	var resp stagehandhttp.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.StatusDegraded), resp.Status)
	assert.Equal(t, "unrecognized file", resp.Reason)
	assert.Nil(t, resp.Context)
}

func TestGetContext_NoEngine(t *testing.T) {
	handler := stagehandhttp.NewHandler(&fakeIntegration{status: domain.StatusStopped})
	rec := doRequest(t, handler, http.MethodGet, "/context")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCommands(t *testing.T) {
	handler := stagehandhttp.NewHandler(activeIntegration())
	rec := doRequest(t, handler, http.MethodGet, "/commands")

	require.Equal(t, http.StatusOK, rec.Code)
	var commands []stagehandhttp.CommandInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &commands))
	require.Len(t, commands, 2)
	assert.Equal(t, "Publish...", commands[0].Name)
	assert.Equal(t, "tk-multi-publish2", commands[0].App)
}

func TestPostCommand(t *testing.T) {
	integration := activeIntegration()
	handler := stagehandhttp.NewHandler(integration)
	rec := doRequest(t, handler, http.MethodPost, "/commands/Publish...")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Publish..."}, integration.executed)
}

func TestPostCommand_Unknown(t *testing.T) {
	integration := activeIntegration()
	handler := stagehandhttp.NewHandler(integration)
	rec := doRequest(t, handler, http.MethodPost, "/commands/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, integration.executed)
}

func TestPostCommand_ExecutionError(t *testing.T) {
	integration := activeIntegration()
	integration.execErr = errors.New("publish backend offline")
	handler := stagehandhttp.NewHandler(integration)
	rec := doRequest(t, handler, http.MethodPost, "/commands/Publish...")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "publish backend offline")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "stagehand_test_total"})
	reg.MustRegister(counter)
	counter.Inc()

	handler := stagehandhttp.NewHandler(activeIntegration(), stagehandhttp.WithGatherer(reg))
	rec := doRequest(t, handler, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "stagehand_test_total 1"))
}

func TestCORSPreflight(t *testing.T) {
	handler := stagehandhttp.NewHandler(activeIntegration())
	rec := doRequest(t, handler, http.MethodOptions, "/commands")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
