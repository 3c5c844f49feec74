package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

func TestObserveStats(t *testing.T) {
	m := New()

	m.ObserveStats(&models.DashboardStats{Total: 6, Red: 3, Yellow: 2, Green: 1, Pending: 4, InProgress: 1, Completed: 1})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.SignalsByStatus.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalsByStatus.WithLabelValues("completed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SignalsByDanger.WithLabelValues("red")))
	assert.Greater(t, testutil.ToFloat64(m.StatsRefreshedAt), 0.0)
}

func TestNew_IndependentRegistries(t *testing.T) {
	// два экземпляра не должны конфликтовать при регистрации
	a, b := New(), New()
	a.ClassifierFallbacks.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ClassifierFallbacks))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ClassifierFallbacks))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/signals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signals/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sos_http_request_duration_seconds_count{code="200",method="GET",route="/signals/:id"} 1`)
}
