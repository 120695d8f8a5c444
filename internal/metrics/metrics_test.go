package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	labels := prometheus.Labels{"method": http.MethodGet, "path": "/api/projects/:id", "status": "204"}
	before := testutil.ToFloat64(HttpRequestsTotal.With(labels))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(HttpRequestsTotal.With(labels)))
}

func TestGinMiddleware_UnmatchedPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())

	labels := prometheus.Labels{"method": http.MethodGet, "path": "unmatched", "status": "404"}
	before := testutil.ToFloat64(HttpRequestsTotal.With(labels))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(HttpRequestsTotal.With(labels)))
}
