package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/horarios-api/internal/service"
)

type pingerStub struct {
	err error
}

func (p pingerStub) PingContext(ctx context.Context) error {
	return p.err
}

func stringsReader(body string) io.Reader {
	return strings.NewReader(body)
}

func TestHealthHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		db     pinger
		status int
	}{
		{pingerStub{}, http.StatusOK},
		{pingerStub{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
		{nil, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		h := NewHealthHandler(tc.db, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
		h.Ready(c)
		assert.Equal(t, tc.status, w.Code)
		assert.NotContains(t, w.Body.String(), "refused")
	}
}

func TestHealthHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordSubmission(service.OutcomeSuccess)
	h := NewHealthHandler(pingerStub{}, metrics)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "preference_submissions_total")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h.Health(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
