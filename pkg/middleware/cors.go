package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/pkg/apperr"
)

// messageOriginNotAllowed は許可されていないオリジンからのリクエストに返すメッセージ。
const messageOriginNotAllowed = "Origin not allowed"

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// オリジンが指定されていない場合はCORSヘッダーを一切付与しない。
// 許可されていないオリジンは403を記録して中断し、レスポンスはErrorTranslatorが書き込む。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	handler := cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: false,
		MaxAge:           24 * time.Hour,
	})

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && !sameOrigin(c, origin) && !slices.Contains(allowedOrigins, origin) {
			_ = c.Error(apperr.New(apperr.KindForbidden, messageOriginNotAllowed))
			c.Abort()
			return
		}
		handler(c)
	}
}

// sameOrigin はOriginがリクエスト先のホストと一致するかを返す。
func sameOrigin(c *gin.Context, origin string) bool {
	host := c.Request.Host
	return origin == "http://"+host || origin == "https://"+host
}
