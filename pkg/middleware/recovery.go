package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/pkg/logger"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニックの値はエラーとして記録し、レスポンスはErrorTranslatorに任せる。
// ErrorTranslatorより内側に登録すること。
func Recovery(log *logger.Logger) gin.HandlerFunc {
	log = logger.OrDefault(log)

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log.WithContext(c.Request.Context()).Error("パニックから回復しました",
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			if err, ok := r.(error); ok {
				_ = c.Error(err)
			} else {
				_ = c.Error(&PanicError{Value: r})
			}
			c.Abort()
		}()
		c.Next()
	}
}
