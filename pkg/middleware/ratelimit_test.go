package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/pkg/logger"
)

// TestIPRateLimiter はIPRateLimiterを検証する。
func TestIPRateLimiter(t *testing.T) {
	t.Parallel()

	newRouter := func(rps float64, burst int) *gin.Engine {
		router := gin.New()
		router.Use(ErrorTranslator(logger.Discard()))
		router.Use(NewIPRateLimiter(rps, burst, logger.Discard()).RateLimit())
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	request := func(router *gin.Engine, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("バースト数を超えたリクエストは429になること", func(t *testing.T) {
		t.Parallel()

		router := newRouter(0.001, 2)
		for i := 0; i < 2; i++ {
			if w := request(router, "10.0.0.1"); w.Code != http.StatusOK {
				t.Fatalf("%d回目のステータスコード = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}

		w := request(router, "10.0.0.1")
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusTooManyRequests)
		}
		if env := decodeEnvelope(t, w); env.StatusCode != http.StatusTooManyRequests {
			t.Errorf("statusCode = %d, want %d", env.StatusCode, http.StatusTooManyRequests)
		}
	})

	t.Run("IPごとに独立して制限されること", func(t *testing.T) {
		t.Parallel()

		router := newRouter(0.001, 1)
		if w := request(router, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if w := request(router, "10.0.0.2"); w.Code != http.StatusOK {
			t.Errorf("別IPのステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("rpsが0の場合は制限しないこと", func(t *testing.T) {
		t.Parallel()

		router := newRouter(0, 0)
		for i := 0; i < 10; i++ {
			if w := request(router, "10.0.0.1"); w.Code != http.StatusOK {
				t.Fatalf("%d回目のステータスコード = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}
	})
}

// TestIPRateLimiterSweep はアイドル状態のリミッタが破棄されることを検証する。
func TestIPRateLimiterSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(0.001, 1, logger.Discard())
	limiter.now = func() time.Time { return now }
	limiter.lastSweep.Store(now.UnixNano())

	router := gin.New()
	router.Use(ErrorTranslator(logger.Discard()))
	router.Use(limiter.RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	stored := func(ip string) bool {
		_, ok := limiter.limiters.Load(ip)
		return ok
	}

	if code := request("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("ステータスコード = %d, want %d", code, http.StatusOK)
	}
	if code := request("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("ステータスコード = %d, want %d", code, http.StatusTooManyRequests)
	}

	now = now.Add(limiterIdleTTL / 2)
	if code := request("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("ステータスコード = %d, want %d", code, http.StatusOK)
	}
	if !stored("10.0.0.1") {
		t.Fatal("idleTTL経過前にリミッタが破棄された")
	}

	now = now.Add(limiterIdleTTL/2 + time.Second)
	if code := request("10.0.0.3"); code != http.StatusOK {
		t.Fatalf("ステータスコード = %d, want %d", code, http.StatusOK)
	}
	if stored("10.0.0.1") {
		t.Error("アイドル状態のリミッタが破棄されていない")
	}
	if !stored("10.0.0.2") || !stored("10.0.0.3") {
		t.Error("アクティブなリミッタが破棄された")
	}
	if code := request("10.0.0.1"); code != http.StatusOK {
		t.Errorf("破棄後のステータスコード = %d, want %d", code, http.StatusOK)
	}
}
