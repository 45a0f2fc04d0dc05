package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(limit int, window time.Duration) *gin.Engine {
	r := gin.New()
	rl := NewRateLimiter(limit, window)

	r.POST("/limited", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.RemoteAddr = "203.0.113.7:52100"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r := limitedRouter(2, time.Minute)

	for i := 0; i < 2; i++ {
		if w := hit(r); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, w.Code)
		}
	}

	w := hit(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 must carry Retry-After")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	r := limitedRouter(1, 20*time.Millisecond)

	if w := hit(r); w.Code != http.StatusNoContent {
		t.Fatalf("first request: status = %d", w.Code)
	}
	if w := hit(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request inside window: status = %d", w.Code)
	}

	time.Sleep(30 * time.Millisecond)

	if w := hit(r); w.Code != http.StatusNoContent {
		t.Fatalf("request after window: status = %d, want 204", w.Code)
	}
}
