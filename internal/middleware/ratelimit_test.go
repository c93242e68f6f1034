package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rate int, interval time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rate, interval)
	r.GET("/ping", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	r := newLimitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	}
}

func TestRateLimiterBlocksOverBudget(t *testing.T) {
	r := newLimitedRouter(2, time.Minute)

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2"))
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.2"))
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	r := newLimitedRouter(1, time.Minute)

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.3"))
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.4"))
}

func TestRateLimiterRefills(t *testing.T) {
	r := newLimitedRouter(1, 10*time.Millisecond)

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.5"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.5"))

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.5"))
}
