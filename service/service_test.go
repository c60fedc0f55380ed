package service_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/amountwords/metrics"
	"github.com/remiges-tech/amountwords/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWithBuilders(t *testing.T) {
	m := metrics.NewPrometheusMetrics(nil)
	s := service.NewService(gin.New()).
		WithMetrics(m).
		WithDependency("answer", 42)

	assert.Same(t, m, s.Metrics)
	assert.Equal(t, 42, s.Dependencies["answer"])
	assert.Nil(t, s.LogHarbour)
}

func TestRegisterRoute(t *testing.T) {
	s := service.NewService(gin.New()).WithDependency("greeting", "hello")
	s.RegisterRoute(http.MethodGet, "/hello", func(c *gin.Context, s *service.Service) {
		c.String(http.StatusOK, s.Dependencies["greeting"].(string))
	})
	// Unsupported methods are ignored.
	s.RegisterRoute(http.MethodPatch, "/hello", func(c *gin.Context, s *service.Service) {})

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/hello", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroups(t *testing.T) {
	s := service.NewService(gin.New())
	api := s.CreateGroup("/api")
	v1 := api.CreateSubGroup("/v1")
	v1.Group.Use(func(c *gin.Context) {
		c.Header("X-Group", "v1")
		c.Next()
	})

	var got *service.Service
	v1.RegisterRoute(http.MethodPost, "/ping", func(c *gin.Context, s *service.Service) {
		got = s
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "v1", w.Header().Get("X-Group"))
	assert.Same(t, s, got)
}
