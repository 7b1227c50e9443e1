package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/pkg/apperr"
	"github.com/nao1215/salesgateway/pkg/logger"
	"golang.org/x/time/rate"
)

// limiterIdleTTL はアクセスの無いクライアントのリミッタを破棄するまでの時間。
const limiterIdleTTL = 10 * time.Minute

// clientLimiter はクライアントごとのリミッタと最終アクセス時刻。
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter はクライアントIPごとのレート制限を管理する。
// 一定時間アクセスの無いIPのリミッタはリクエスト処理の合間に破棄する。
type IPRateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
	log       *logger.Logger
}

// NewIPRateLimiter はクライアントIPごとのレート制限を生成する。
// rpsが0以下の場合は制限しない。
func NewIPRateLimiter(rps float64, burst int, log *logger.Logger) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	i := &IPRateLimiter{
		rate:    rate.Limit(rps),
		burst:   burst,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
		log:     logger.OrDefault(log),
	}
	i.lastSweep.Store(i.now().UnixNano())
	return i
}

// limiter はIPに対応するリミッタを返す。無ければ作成する。
func (i *IPRateLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	v, ok := i.limiters.Load(ip)
	if !ok {
		v, _ = i.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(i.rate, i.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(now.UnixNano())
	return cl.limiter
}

// sweep は前回の掃除からidleTTLが経過していれば、アイドル状態のリミッタを破棄する。
func (i *IPRateLimiter) sweep(now time.Time) {
	last := i.lastSweep.Load()
	if now.UnixNano()-last < int64(i.idleTTL) || !i.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-i.idleTTL).UnixNano()
	i.limiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			i.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit はクライアントIPごとにリクエストを制限するGinミドルウェアを返す。
// 超過した場合は429を記録して処理を中断する。
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if i.rate <= 0 {
			c.Next()
			return
		}

		now := i.now()
		i.sweep(now)

		ip := c.ClientIP()
		if !i.limiter(ip, now).Allow() {
			i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			_ = c.Error(apperr.New(apperr.KindTooManyRequests, "Too Many Requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
