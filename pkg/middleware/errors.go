package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/pkg/apperr"
	"github.com/nao1215/salesgateway/pkg/logger"
	"github.com/nao1215/salesgateway/pkg/rpc"
)

const (
	// messageDownstream はバックエンドがメッセージを返さなかった場合のメッセージ。
	messageDownstream = "Error communicating with downstream service."
	// messageInternal はエラー以外の値でパニックした場合のメッセージ。
	messageInternal = "Internal server error"
	// timestampLayout はエンベロープのtimestampの形式（ミリ秒付きRFC 3339、UTC）。
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ErrorEnvelope はクライアントに返す唯一のエラーレスポンスの形。
type ErrorEnvelope struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int `json:"statusCode"`
	// Message はエラーメッセージ。文字列またはオブジェクト。
	Message any `json:"message"`
	// Timestamp はエラー発生時刻。
	Timestamp string `json:"timestamp"`
	// Path はクエリ文字列を含むリクエストURI。
	Path string `json:"path"`
}

// PanicError はerror以外の値でパニックしたことを表す。
type PanicError struct {
	// Value はrecoverで受け取った値。
	Value any
}

// Error はerrorインターフェースを実装する。
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorTranslator はハンドラが記録したエラーを標準エラーエンベロープに変換するGinミドルウェアを返す。
// 最後に記録されたエラーを1件だけ変換し、レスポンスが書き込み済みの場合は何も書かない。
func ErrorTranslator(log *logger.Logger) gin.HandlerFunc {
	log = logger.OrDefault(log)

	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		path := c.Request.URL.RequestURI()
		l := log.WithContext(c.Request.Context())
		if c.Writer.Written() {
			l.Warn("レスポンスが送信済みのためエラーレスポンスを書き込めません",
				slog.String("path", path),
				slog.String("error", last.Err.Error()),
			)
			return
		}

		status, message := translate(l, path, last.Err)
		c.AbortWithStatusJSON(status, ErrorEnvelope{
			StatusCode: status,
			Message:    message,
			Timestamp:  time.Now().UTC().Format(timestampLayout),
			Path:       path,
		})
	}
}

// translate はエラーをHTTPステータスとメッセージに変換する。先に一致した規則が優先される。
func translate(l *logger.Logger, path string, err error) (int, any) {
	if appErr, ok := apperr.As(err); ok {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			l.Error("内部エラーが発生しました", slog.String("path", path), slog.String("error", err.Error()))
		} else {
			l.Debug("リクエストを拒否しました",
				slog.String("path", path),
				slog.String("kind", appErr.Kind.String()),
				slog.Int("status", status),
			)
		}
		return status, appErr.Message
	}

	if rce, ok := rpc.AsRemoteCallError(err); ok {
		status := http.StatusBadGateway
		if s := rce.Shape.Status; s != nil && validHTTPStatus(*s) {
			status = *s
		}
		var message any = messageDownstream
		if rce.Shape.Message != nil {
			message = rce.Shape.Message
		}
		attrs := []any{
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("pattern", rce.Pattern),
			slog.String("error", err.Error()),
		}
		if rce.Remote() {
			l.Warn("バックエンドがエラーを返しました", append(attrs, slog.String("payload", string(rce.Payload)))...)
		} else {
			l.Error("バックエンドとの通信に失敗しました", attrs...)
		}
		return status, message
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		l.Error("想定外のパニックが発生しました", slog.String("path", path), slog.Any("value", panicErr.Value))
		return http.StatusInternalServerError, messageInternal
	}

	l.Error("未処理のエラーが発生しました", slog.String("path", path), slog.String("error", err.Error()))
	return http.StatusInternalServerError, err.Error()
}

// validHTTPStatus はHTTPステータスコードとして有効な範囲かどうかを返す。
func validHTTPStatus(status int) bool {
	return status >= 100 && status <= 599
}
