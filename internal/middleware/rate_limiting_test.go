package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymstats/internal/middleware"
	"github.com/2beens/gymstats/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := NewMockRequestRateLimiter(ctrl)
	metricsManager := metrics.NewTestManager()

	nextCalls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalls++
	})
	handler := middleware.RateLimit(limiter, metricsManager, "stats", 2)(next)

	newReq := func() *http.Request {
		req := httptest.NewRequest("GET", "/gymstats/stats/weekly", nil)
		req.RemoteAddr = "83.12.53.65:2145"
		return req
	}

	gomock.InOrder(
		limiter.EXPECT().
			Allow(gomock.Any(), "stats::83.12.53.65", redis_rate.PerMinute(2)).
			Return(&redis_rate.Result{Allowed: 1, Remaining: 1}, nil),
		limiter.EXPECT().
			Allow(gomock.Any(), "stats::83.12.53.65", redis_rate.PerMinute(2)).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: 30 * time.Second}, nil),
		limiter.EXPECT().
			Allow(gomock.Any(), "stats::83.12.53.65", gomock.Any()).
			Return(nil, errors.New("redis down")),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, nextCalls)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "retry after 30")
	assert.Equal(t, 1, nextCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, nextCalls)
}
