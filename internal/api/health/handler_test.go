package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

func get(t *testing.T, h *Handler, path string) (int, HealthStatus) {
	t.Helper()
	mux := http.NewServeMux()
	h.Routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return rec.Code, status
}

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.ErrUnavailable }

func TestLiveness(t *testing.T) {
	h := New(logger.Get(), "finadvisor", "test", nil)
	code, status := get(t, h, "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", status.Status)
}

func TestReadiness(t *testing.T) {
	code, status := get(t, New(logger.Get(), "finadvisor", "test", map[string]Check{"redis": ok}), "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["redis"].Status)

	code, status = get(t, New(logger.Get(), "finadvisor", "test", map[string]Check{"redis": down}), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Contains(t, status.Checks["redis"].Error, "unavailable")
}

func TestHealthDegraded(t *testing.T) {
	h := New(logger.Get(), "finadvisor", "test", map[string]Check{"redis": down, "llm": ok})
	code, status := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "finadvisor", status.Service)
}

func TestHealthWithoutChecks(t *testing.T) {
	code, status := get(t, New(logger.Get(), "finadvisor", "test", nil), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
}
