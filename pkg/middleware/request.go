package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nao1215/salesgateway/pkg/logger"
)

// headerRequestID はリクエストIDを受け渡すHTTPヘッダーキー。
const headerRequestID = "X-Request-ID"

// RequestID はリクエストIDをコンテキストとレスポンスヘッダーに設定するGinミドルウェアを返す。
// クライアントが指定したIDがあればそれを使い、無ければUUIDを採番する。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger はリクエストごとにアクセスログを出力するGinミドルウェアを返す。
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = logger.OrDefault(log)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := float64(time.Since(start).Microseconds()) / 1000
		log.HTTPRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())
	}
}
