package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NotReadyByDefault(t *testing.T) {
	h := New()
	assert.False(t, h.IsReady())

	h.SetReady(true)
	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestHealth_ReadyEndpoint(t *testing.T) {
	h := New()

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Contains(t, body.Checks, "_readiness")

	h.SetReady(true)
	w = httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_FailureThreshold(t *testing.T) {
	h := New()
	h.SetReady(true)

	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	p := h.readiness[0]

	// Two failures stay under the threshold.
	p.run(t.Context())
	p.run(t.Context())
	assert.True(t, h.IsReady())

	// The third consecutive failure trips it.
	p.run(t.Context())
	assert.False(t, h.IsReady())
}

func TestHealth_RecoverAfterSuccess(t *testing.T) {
	h := New()
	h.SetReady(true)

	healthy := false
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("connection refused")
	})

	p := h.readiness[0]
	for range failureThreshold {
		p.run(t.Context())
	}
	require.False(t, h.IsReady())

	healthy = true
	p.run(t.Context())
	assert.True(t, h.IsReady())
}

func TestHealth_LiveEndpointReportsFailure(t *testing.T) {
	h := New()
	h.AddLivenessCheck("stuck", time.Second, func(context.Context) error {
		return errors.New("deadlock suspected")
	})

	p := h.liveness[0]
	for range failureThreshold {
		p.run(t.Context())
	}

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "deadlock suspected", body.Checks["stuck"])
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(100000)(t.Context()))
	assert.Error(t, GoroutineCountCheck(0)(t.Context()))
}

func TestStartupGraceCheck(t *testing.T) {
	assert.Error(t, StartupGraceCheck(time.Hour)(t.Context()))
	assert.NoError(t, StartupGraceCheck(0)(t.Context()))
}
