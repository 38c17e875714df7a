package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/d60-Lab/socialverse/pkg/logger"
	"github.com/d60-Lab/socialverse/pkg/metrics"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyToken(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func newAuthRouter(handlerRan *bool) *gin.Engine {
	r := gin.New()
	r.GET("/private", Auth(fakeVerifier{"good": "u1"}), func(c *gin.Context) {
		*handlerRan = true
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestAuth(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
		ran    bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, false},
		{"empty token", "Bearer ", http.StatusUnauthorized, false},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, false},
		{"valid token", "Bearer good", http.StatusOK, true},
		{"lowercase scheme", "bearer good", http.StatusOK, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			r := newAuthRouter(&ran)
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.ran, ran)
			if tc.ran {
				assert.Equal(t, "u1", rec.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewIPRateLimiter(0.001, 2).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	var l *IPRateLimiter
	r := gin.New()
	r.GET("/", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Sentry(), RequestLogger(), Metrics())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error","code":"Internal"}`, rec.Body.String())
}

func TestMetricsCountsPanickedRequest(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Metrics())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	inflight := testutil.ToFloat64(metrics.HTTPInFlight)
	served := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/boom", "500"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, inflight, testutil.ToFloat64(metrics.HTTPInFlight))
	assert.Equal(t, served+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/boom", "500")))
}

func TestRequestLoggerLogsPanickedRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger.Set(zap.New(core))
	defer logger.Set(nil)

	r := gin.New()
	r.Use(Recovery(), RequestLogger())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	access := logs.FilterMessage("request").All()
	if assert.Len(t, access, 1) {
		assert.Equal(t, zap.ErrorLevel, access[0].Level)
		assert.EqualValues(t, http.StatusInternalServerError, access[0].ContextMap()["status"])
	}
	assert.Len(t, logs.FilterMessage("panic recovered").All(), 1)
}
